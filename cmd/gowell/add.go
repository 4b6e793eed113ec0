package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kittclouds/gowell/pkg/wellness"
)

var (
	addNote       string
	addTriggers   []string
	addActivities []string
	addAutoTag    bool
)

var addCmd = &cobra.Command{
	Use:   "add <value>",
	Short: "Record a mood check-in (1=lowest, 5=highest)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("value must be a number between 1 and 5")
		}

		svc, _, cleanup, err := newEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		// Crisis screening runs on the note before capture so guidance
		// shows up alongside the confirmation, not after.
		if res := svc.DetectCrisisKeywords(addNote); res.Detected {
			fmt.Printf("It sounds like you're going through a lot (%s):\n", res.Severity)
			for _, action := range res.SuggestedActions {
				fmt.Printf("  - %s\n", action)
			}
		}

		triggers := addTriggers
		if addAutoTag && len(triggers) == 0 {
			triggers = svc.SuggestTriggers(addNote)
		}

		var opts []wellness.EntryOption
		if len(triggers) > 0 {
			opts = append(opts, wellness.WithTriggers(triggers...))
		}
		if len(addActivities) > 0 {
			opts = append(opts, wellness.WithActivities(addActivities...))
		}

		entry, err := svc.AddMoodEntry(cmd.Context(), value, addNote, opts...)
		if err != nil {
			return err
		}

		state := "synced"
		if !entry.Synced {
			state = "saved offline, will sync later"
		}
		fmt.Printf("Recorded mood %d (%s)\n", entry.Value, state)
		if len(entry.Triggers) > 0 {
			fmt.Printf("Triggers: %s\n", strings.Join(entry.Triggers, ", "))
		}
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addNote, "note", "n", "", "Free-text note for this check-in")
	addCmd.Flags().StringSliceVar(&addTriggers, "trigger", nil, "Trigger tags (repeatable)")
	addCmd.Flags().StringSliceVar(&addActivities, "activity", nil, "Activity tags (repeatable)")
	addCmd.Flags().BoolVar(&addAutoTag, "auto-tag", true, "Suggest trigger tags from the note when none are given")
	rootCmd.AddCommand(addCmd)
}
