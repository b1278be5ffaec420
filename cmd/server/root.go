package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "claims-admin",
	Short: "Client editor backend for the claims admin portal",
	Long: `claims-admin holds client edit sessions in memory, merges them into
submission-ready clients and saves them to DynamoDB and S3.

  claims-admin serve                 # run the HTTP API
  claims-admin replay script.yaml    # apply an edit script offline
  claims-admin lookups import l.yaml # seed lookup lists`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd, replayCmd, lookupsCmd)
}
