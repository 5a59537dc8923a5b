package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordbloom/internal/reminder"
	"github.com/abhisek/wordbloom/internal/spacedrep"
	"github.com/abhisek/wordbloom/internal/ui/theme"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Print reminders for due reviews and pending mistakes",
	Long:  "Checks progress on the configured reminder.interval and prints a reminder whenever it changes. Use --once to check a single time.",
	RunE: func(cmd *cobra.Command, args []string) error {
		once, _ := cmd.Flags().GetBool("once")

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		runner := reminder.New(d.tracker, printNotifier(cmd.OutOrStdout()), d.cfg.Reminder.Interval, d.logger)
		if once {
			sent, err := runner.Check(cmd.Context())
			if err != nil {
				return err
			}
			if !sent {
				fmt.Fprintln(cmd.OutOrStdout(), theme.Correct.Render("Nothing due."))
			}
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := runner.Start(ctx); err != nil {
			return err
		}
		defer runner.Stop()

		<-ctx.Done()
		return nil
	},
}

// printNotifier renders reminders as a card on w.
func printNotifier(w io.Writer) reminder.Notifier {
	return reminder.NotifierFunc(func(_ context.Context, r reminder.Reminder) error {
		var b strings.Builder
		b.WriteString(theme.Title.Render("Time to review!"))
		for _, d := range r.Due {
			fmt.Fprintf(&b, "\n%s %s review (%s)", theme.Word.Render(d.TopicID), d.Kind, spacedrep.FormatUntil(d.Date, r.At))
		}
		if r.MistakeCount > 0 {
			fmt.Fprintf(&b, "\n%s", theme.Warning.Render(fmt.Sprintf("%d words to practice again", r.MistakeCount)))
		}
		_, err := fmt.Fprintln(w, theme.Card.Render(b.String()))
		return err
	})
}

func init() {
	remindCmd.Flags().Bool("once", false, "Check once and exit")
}
