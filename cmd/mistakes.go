package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordbloom/internal/catalog"
	"github.com/abhisek/wordbloom/internal/quiz"
	"github.com/abhisek/wordbloom/internal/ui/theme"
)

var mistakesCmd = &cobra.Command{
	Use:   "mistakes",
	Short: "List missed words or drill them",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		drill, _ := cmd.Flags().GetBool("drill")
		topicID, _ := cmd.Flags().GetString("topic")

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()
		out := cmd.OutOrStdout()

		all := d.tracker.AllMistakes()
		if topicID != "" {
			filtered := all[:0]
			for _, m := range all {
				if m.TopicID == topicID {
					filtered = append(filtered, m)
				}
			}
			all = filtered
		}
		if len(all) == 0 {
			fmt.Fprintln(out, theme.Correct.Render("No mistakes to review."))
			return nil
		}

		idx, err := catalog.BuildIndex(ctx, d.catalog)
		if err != nil {
			return fmt.Errorf("index catalog: %w", err)
		}

		if !drill {
			fmt.Fprintf(out, "%-16s  %-20s  %5s  %s\n", "Topic", "Word", "Times", "Last missed")
			for _, m := range all {
				fmt.Fprintf(out, "%-16s  %-20s  %5d  %s\n",
					m.TopicID, m.ItemID, m.TimesWrong, m.LastWrongDate.Local().Format("2006-01-02"))
			}
			return nil
		}

		// Resolve each mistake against the current catalog; words that
		// have since been removed are skipped.
		byTopic := make(map[string]map[string]catalog.Item)
		var items []catalog.Item
		for _, m := range all {
			if _, ok := idx.TopicOf(m.ItemID); !ok {
				continue
			}
			if byTopic[m.TopicID] == nil {
				list, err := d.catalog.Items(ctx, m.TopicID)
				if err != nil && !errors.Is(err, catalog.ErrTopicNotFound) {
					return err
				}
				byTopic[m.TopicID] = make(map[string]catalog.Item, len(list))
				for _, it := range list {
					byTopic[m.TopicID][it.ID] = it
				}
			}
			if it, ok := byTopic[m.TopicID][m.ItemID]; ok {
				items = append(items, it)
			}
		}
		if len(items) == 0 {
			fmt.Fprintln(out, theme.Hint.Render("None of the missed words are in the catalog any more."))
			return nil
		}

		sess := quiz.New(items, quiz.WithMode(quiz.Mistakes()))
		runner := &sessionRunner{
			deps:    d,
			judge:   d.judge(ctx),
			prompt:  newPrompter(cmd.InOrStdin(), cmd.OutOrStdout()),
			out:     out,
			topicID: topicID,
			topicOf: idx.TopicOf,
		}
		err = runner.run(ctx, sess)
		if err != nil && !errors.Is(err, errQuit) {
			return err
		}

		// Answers given before quitting still count.
		if topicID != "" {
			d.tracker.ApplyMistakeResults(ctx, topicID, sess.Results())
		} else {
			d.tracker.ApplyDrillResults(ctx, idx.TopicOf, sess.Results())
		}
		fmt.Fprintf(out, "%d mistakes left.\n", d.tracker.MistakeCount())
		return nil
	},
}

func init() {
	mistakesCmd.Flags().Bool("drill", false, "Quiz the missed words")
	mistakesCmd.Flags().String("topic", "", "Only this topic's mistakes")
}
