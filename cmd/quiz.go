package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordbloom/internal/catalog"
	"github.com/abhisek/wordbloom/internal/progress"
	"github.com/abhisek/wordbloom/internal/quiz"
	"github.com/abhisek/wordbloom/internal/spacedrep"
	"github.com/abhisek/wordbloom/internal/ui/theme"
)

var quizCmd = &cobra.Command{
	Use:   "quiz <topic>",
	Short: "Take a topic quiz or one of its reviews",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		topicID := args[0]

		mode := quiz.Practice()
		if s, _ := cmd.Flags().GetString("review"); s != "" {
			kind, err := spacedrep.ParseReviewKind(s)
			if err != nil {
				return err
			}
			mode = quiz.Review(kind)
		}

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		topic, err := d.catalog.Topic(ctx, topicID)
		if err != nil {
			return err
		}
		items, err := d.catalog.Items(ctx, topicID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return fmt.Errorf("topic %q has no words", topicID)
		}
		if mode.IsReview() && d.tracker.TopicProgress(topicID) == nil {
			return fmt.Errorf("topic %q has not been completed yet, so it has no reviews", topicID)
		}

		sess := newTopicSession(d.tracker, cmd, topicID, mode, items)

		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", theme.Title.Render(topic.Name), theme.Subtitle.Render(mode.String()))
		runner := &sessionRunner{
			deps:    d,
			judge:   d.judge(ctx),
			prompt:  newPrompter(cmd.InOrStdin(), cmd.OutOrStdout()),
			out:     cmd.OutOrStdout(),
			topicID: topicID,
		}
		err = runner.run(ctx, sess)
		if errors.Is(err, errQuit) {
			savePosition(cmd, d.tracker, topicID, sess)
			fmt.Fprintln(cmd.OutOrStdout(), theme.Hint.Render("Progress saved. Run the same command to continue."))
			return nil
		}
		if err != nil {
			return err
		}

		c := d.tracker.CompleteSession(ctx, topicID, mode, sess.Score(), sess.Results())
		if c.FirstCompletion {
			fmt.Fprintln(cmd.OutOrStdout(), theme.Correct.Render("Topic completed! Your first review is due tomorrow."))
		}
		if c.ReviewMarked != 0 {
			fmt.Fprintln(cmd.OutOrStdout(), theme.Correct.Render(c.ReviewMarked.String()+" review done."))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Best score: %d%%\n", c.BestScore)
		return nil
	},
}

// newTopicSession resumes a saved position for the mode when one exists.
// Review sessions save their position after every answer.
func newTopicSession(t *progress.Tracker, cmd *cobra.Command, topicID string, mode quiz.Mode, items []catalog.Item) *quiz.Session {
	opts := []quiz.Option{quiz.WithMode(mode)}
	if mode.IsReview() {
		ctx := cmd.Context()
		opts = append(opts, quiz.WithObserver(func(pos quiz.Position) {
			t.SaveReviewPosition(ctx, topicID, mode.Review, pos)
		}))
		if pos, ok := t.ReviewPosition(topicID, mode.Review); ok {
			return quiz.Resume(items, pos, opts...)
		}
		return quiz.New(items, opts...)
	}
	if pos, ok := t.QuizPosition(topicID); ok {
		return quiz.Resume(items, pos, opts...)
	}
	return quiz.New(items, opts...)
}

func savePosition(cmd *cobra.Command, t *progress.Tracker, topicID string, sess *quiz.Session) {
	ctx := cmd.Context()
	if m := sess.Mode(); m.IsReview() {
		t.SaveReviewPosition(ctx, topicID, m.Review, sess.Position())
		return
	}
	t.SaveQuizPosition(ctx, topicID, sess.Position())
}

func init() {
	quizCmd.Flags().String("review", "", "Take a review instead of a practice quiz (oneDay or oneWeek)")
}
