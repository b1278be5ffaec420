package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kylejryan/claims-admin/internal/awsutil"
	"github.com/kylejryan/claims-admin/internal/config"
	"github.com/kylejryan/claims-admin/internal/ddb"
	"github.com/kylejryan/claims-admin/internal/lookup"
)

var lookupsCmd = &cobra.Command{
	Use:   "lookups",
	Short: "Manage lookup lists",
}

var lookupsImportCmd = &cobra.Command{
	Use:   "import <lookups.yaml>",
	Short: "Write lookup records from a YAML file to the table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read seed: %w", err)
		}
		l, err := lookup.ParseSeed(raw)
		if err != nil {
			return err
		}

		env := config.MustLoad()
		cl, err := awsutil.NewClients(cmd.Context(), env.Region, env.Endpoint)
		if err != nil {
			return fmt.Errorf("aws config: %w", err)
		}
		n, err := lookup.Seed(cmd.Context(), &ddb.Repo{DB: cl.DynamoDB, Table: env.Table}, l)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d lookup records into %s\n", n, env.Table)
		return nil
	},
}

func init() {
	lookupsCmd.AddCommand(lookupsImportCmd)
}
