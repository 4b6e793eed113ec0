package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kittclouds/gowell/pkg/mood"
)

var trendCmd = &cobra.Command{
	Use:   "trend [week|month|quarter]",
	Short: "Show mood statistics over a period",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		label := "week"
		if len(args) == 1 {
			label = args[0]
		}
		period, err := mood.ParsePeriod(label)
		if err != nil {
			return err
		}

		svc, _, cleanup, err := newEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		t, err := svc.CalculateTrend(cmd.Context(), period)
		if err != nil {
			return err
		}

		fmt.Printf("Period:      %s (%d entries)\n", t.Period, len(t.Entries))
		fmt.Printf("Average:     %.1f\n", t.Average)
		fmt.Printf("Lowest day:  %s\n", t.LowestDay.Format("2006-01-02"))
		fmt.Printf("Highest day: %s\n", t.HighestDay.Format("2006-01-02"))
		fmt.Printf("Improvement: %+d%%\n", t.ImprovementRate)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(trendCmd)
}
