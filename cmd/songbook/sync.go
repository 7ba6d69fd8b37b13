package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Re-import every remote category",
	Long: `Sync probes the remote and, when it answers quickly, re-imports every
category listed in its index. A slow or unreachable remote skips the pass.
Set OFFLINE=true to never touch the network.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, err := services.Reconciler.Run(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd, summary)
		}

		out := cmd.OutOrStdout()
		if summary.Skipped {
			fmt.Fprintln(out, "Remote not reachable, nothing synced")
			return nil
		}
		fmt.Fprintf(out, "Synced %d categories\n", len(summary.Imported))
		if len(summary.Failed) > 0 {
			fmt.Fprintf(out, "Failed: %s\n", strings.Join(summary.Failed, ", "))
		}
		return nil
	},
}
