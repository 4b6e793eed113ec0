package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var recentDays int

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recent check-ins, merged across local queue and remote",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, cleanup, err := newEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		entries, err := svc.LoadRecentMoods(cmd.Context(), recentDays)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Printf("No check-ins in the last %d days\n", recentDays)
			return nil
		}

		for _, e := range entries {
			marker := " "
			if !e.Synced {
				marker = "*"
			}
			line := fmt.Sprintf("%s %s  mood %d", marker,
				e.CreatedAt.Format("2006-01-02 15:04"), e.Value)
			if e.Note != "" {
				line += "  " + e.Note
			}
			if len(e.Triggers) > 0 {
				line += "  [" + strings.Join(e.Triggers, ", ") + "]"
			}
			fmt.Println(line)
		}
		fmt.Println("\n* not yet synced")
		return nil
	},
}

func init() {
	recentCmd.Flags().IntVarP(&recentDays, "days", "d", 7, "Window in days")
	rootCmd.AddCommand(recentCmd)
}
