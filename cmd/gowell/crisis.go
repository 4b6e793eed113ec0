package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var crisisCmd = &cobra.Command{
	Use:   "crisis <text>",
	Short: "Classify text against the crisis-keyword taxonomy",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, cleanup, err := newEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		res := svc.DetectCrisisKeywords(strings.Join(args, " "))
		if !res.Detected {
			fmt.Println("No crisis-relevant language detected")
			return nil
		}

		fmt.Printf("Severity: %s\n", res.Severity)
		fmt.Printf("Matched:  %s\n", strings.Join(res.MatchedKeywords, ", "))
		fmt.Println("Suggested actions:")
		for _, action := range res.SuggestedActions {
			fmt.Printf("  - %s\n", action)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(crisisCmd)
}
