package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordbloom/internal/ui/theme"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List vocabulary topics and their progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		topics, err := d.catalog.Topics(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		now := time.Now()

		for _, t := range topics {
			tp := d.tracker.TopicProgress(t.ID)
			fmt.Fprintf(out, "%s %s %s\n", t.Icon, theme.Title.Render(t.Name), theme.Subtitle.Render("("+t.ID+", "+t.NameVietnamese+")"))

			line := fmt.Sprintf("   %d words  %s", t.WordCount, theme.Status(tp.Status(now)))
			if tp != nil && tp.BestScore != nil {
				line += "  best " + theme.Bar(*tp.BestScore, 12)
			}
			if tp != nil && len(tp.Mistakes) > 0 {
				line += theme.Warning.Render(fmt.Sprintf("  %d mistakes", len(tp.Mistakes)))
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}
