package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show the consecutive-day check-in streak",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, cleanup, err := newEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		// Streaks are computed over the loaded window; 90 days comfortably
		// covers any realistic streak plus its terminating gap.
		if _, err := svc.LoadRecentMoods(cmd.Context(), 90); err != nil {
			return err
		}

		days := svc.CalculateStreak()
		switch days {
		case 0:
			fmt.Println("No check-in yet today - log one to start a streak")
		case 1:
			fmt.Println("1 day streak")
		default:
			fmt.Printf("%d day streak\n", days)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(streakCmd)
}
