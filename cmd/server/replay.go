package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kylejryan/claims-admin/internal/replay"
	"github.com/kylejryan/claims-admin/internal/session"
)

var printView bool

var replayCmd = &cobra.Command{
	Use:   "replay <script.yaml>",
	Short: "Apply an edit script to a fresh session and print the result",
	Long: `Apply a YAML edit script to a fresh session store and print the
submission-ready client as JSON. With --view the live view (soft-deleted rows
included) is printed instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		s, err := replay.Parse(raw)
		if err != nil {
			return err
		}
		st := session.NewStore()
		if err := replay.Run(st, s); err != nil {
			return err
		}

		var out any = st.Snapshot()
		if printView {
			out = st.View()
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	replayCmd.Flags().BoolVar(&printView, "view", false, "print the live view instead of the snapshot")
}
