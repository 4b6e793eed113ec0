package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncRetryStalled bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Drain the offline queue to the remote backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, cleanup, err := newEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		report, err := svc.SyncOfflineMoods(cmd.Context())
		if err != nil {
			return err
		}
		if syncRetryStalled && len(report.Stalled) > 0 {
			report, err = svc.RetryStalled(cmd.Context())
			if err != nil {
				return err
			}
		}

		fmt.Printf("Synced %d entries\n", report.SyncedCount)
		if report.Skipped > 0 {
			fmt.Printf("%d entries waiting out their retry backoff\n", report.Skipped)
		}
		if len(report.Stalled) > 0 {
			fmt.Printf("%d entries need a manual retry (gowell sync --retry-stalled)\n", len(report.Stalled))
		}
		for _, e := range report.Errors {
			fmt.Printf("  error: %v\n", e)
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().BoolVar(&syncRetryStalled, "retry-stalled", false, "Reset entries that hit the retry ceiling and try again")
	rootCmd.AddCommand(syncCmd)
}
