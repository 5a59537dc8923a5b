package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordbloom/internal/spacedrep"
)

var dismissCmd = &cobra.Command{
	Use:   "dismiss",
	Short: "Hide review or mistakes reminders",
}

var dismissReviewCmd = &cobra.Command{
	Use:   "review <topic> <oneDay|oneWeek>",
	Short: "Hide the reminder for one review",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := spacedrep.ParseReviewKind(args[1])
		if err != nil {
			return err
		}
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		d.tracker.DismissReviewAlert(cmd.Context(), args[0], kind)
		fmt.Fprintf(cmd.OutOrStdout(), "Dismissed %s review of %s.\n", kind, args[0])
		return nil
	},
}

var dismissMistakesCmd = &cobra.Command{
	Use:   "mistakes",
	Short: "Hide the mistakes reminder until the count changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		n := d.tracker.MistakeCount()
		d.tracker.DismissMistakesAlert(cmd.Context(), n)
		fmt.Fprintf(cmd.OutOrStdout(), "Dismissed the reminder for %d mistakes.\n", n)
		return nil
	},
}

func init() {
	dismissCmd.AddCommand(dismissReviewCmd)
	dismissCmd.AddCommand(dismissMistakesCmd)
}
