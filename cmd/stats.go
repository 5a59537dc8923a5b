package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordbloom/internal/quiz"
	"github.com/abhisek/wordbloom/internal/store"
	"github.com/abhisek/wordbloom/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show recent quiz sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		topicID, _ := cmd.Flags().GetString("topic")
		item, _ := cmd.Flags().GetString("item")

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if item != "" {
			acc, err := d.events.ItemAccuracy(ctx, item)
			if err != nil {
				return fmt.Errorf("query accuracy: %w", err)
			}
			fmt.Fprintf(out, "%s  %s\n", theme.Word.Render(item), theme.Bar(int(acc*100+0.5), 20))
			return nil
		}

		sessions, err := d.events.SessionSummaries(ctx, store.QueryOpts{Limit: limit, TopicID: topicID})
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No sessions recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-16s  %-16s  %-14s  %7s  %8s  %s\n", "When", "Topic", "Mode", "Score", "Duration", "")
		fmt.Fprintln(out, strings.Repeat("─", 90))
		for _, s := range sessions {
			score := quiz.Score{Correct: s.Correct, Total: s.Total}
			topic := s.TopicID
			if topic == "" {
				topic = "(all)"
			}
			fmt.Fprintf(out, "%-16s  %-16s  %-14s  %3d/%-3d  %7ds  %s\n",
				s.Timestamp.Local().Format("2006-01-02 15:04"),
				truncate(topic, 16), s.Mode, s.Correct, s.Total, s.DurationSecs,
				theme.Bar(score.Percent(), 12))
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show")
	statsCmd.Flags().String("topic", "", "Only sessions of this topic")
	statsCmd.Flags().String("item", "", "Show answer accuracy for one word id instead")
}
