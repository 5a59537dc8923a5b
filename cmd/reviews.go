package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordbloom/internal/progress"
	"github.com/abhisek/wordbloom/internal/spacedrep"
	"github.com/abhisek/wordbloom/internal/ui/theme"
)

var reviewsCmd = &cobra.Command{
	Use:   "reviews",
	Short: "List due reviews",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		now := time.Now()
		var due []progress.DueReview
		if all {
			due = d.tracker.DueReviews(now)
		} else {
			due = d.tracker.VisibleDueReviews(now)
		}

		out := cmd.OutOrStdout()
		if len(due) == 0 {
			fmt.Fprintln(out, theme.Correct.Render("No reviews due."))
		}
		for _, r := range due {
			line := fmt.Sprintf("%-16s %-8s due %s", r.TopicID, r.Kind, r.Date.Local().Format("Jan 2 15:04"))
			if all && d.tracker.IsReviewAlertDismissed(r.TopicID, r.Kind) {
				line += theme.Hint.Render("  (dismissed)")
			}
			fmt.Fprintln(out, line)
		}

		// Topics with nothing due show their next checkpoint.
		for _, id := range d.tracker.Snapshot().TopicIDs() {
			sch := d.tracker.TopicProgress(id).Schedule
			if _, due := spacedrep.NextKind(sch, now); due || sch == nil {
				continue
			}
			for _, k := range spacedrep.ReviewKinds {
				if cp := sch.Checkpoint(k); !cp.Completed && cp.Date.After(now) {
					fmt.Fprintln(out, theme.Subtitle.Render(fmt.Sprintf("%-16s %-8s %s", id, k, spacedrep.FormatUntil(cp.Date, now))))
					break
				}
			}
		}
		return nil
	},
}

func init() {
	reviewsCmd.Flags().Bool("all", false, "Include dismissed reviews")
}
