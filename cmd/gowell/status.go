package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current mood, streak, and sync state",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, cleanup, err := newEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		// Best effort: a failed load still leaves snapshot-backed status.
		_, _ = svc.LoadRecentMoods(cmd.Context(), 30)

		st := svc.Status()
		if st.CurrentMood != nil {
			fmt.Printf("Current mood: %d (%s)\n", st.CurrentMood.Value,
				st.CurrentMood.CreatedAt.Format("2006-01-02 15:04"))
		} else {
			fmt.Println("Current mood: none recorded")
		}
		fmt.Printf("Streak:       %d days\n", st.StreakDays)
		fmt.Printf("Pending sync: %d\n", st.PendingCount)
		if st.StalledCount > 0 {
			fmt.Printf("Stalled:      %d (run gowell sync --retry-stalled)\n", st.StalledCount)
		}
		if st.LastSyncedAt.IsZero() {
			fmt.Println("Last sync:    never")
		} else {
			fmt.Printf("Last sync:    %s\n", st.LastSyncedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
