package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/wordbloom/internal/catalog"
	"github.com/abhisek/wordbloom/internal/phase"
	"github.com/abhisek/wordbloom/internal/pronounce"
	"github.com/abhisek/wordbloom/internal/quiz"
	"github.com/abhisek/wordbloom/internal/store"
	"github.com/abhisek/wordbloom/internal/ui/theme"
)

// errQuit means the learner left before the last item.
var errQuit = errors.New("session interrupted")

// sessionRunner drives a quiz.Session through the three answer phases on a
// line-based terminal.
type sessionRunner struct {
	deps    *deps
	judge   *phase.Judge
	prompt  *prompter
	out     io.Writer
	topicID string // empty for a cross-topic drill
	topicOf func(itemID string) (string, bool)
}

// answer is one item's verdict plus the translation score behind it.
type answer struct {
	phase.Verdict
	TranslationScore int
}

// run asks every remaining item. It returns errQuit when input ends early;
// answers given so far stay recorded in sess.
func (r *sessionRunner) run(ctx context.Context, sess *quiz.Session) error {
	sessionID := uuid.NewString()
	started := time.Now()
	r.logSession(ctx, store.SessionEventData{SessionID: sessionID, Action: "start", TopicID: r.topicID, Mode: sess.Mode().String()})

	if sess.Resumed() {
		fmt.Fprintln(r.out, theme.Hint.Render(fmt.Sprintf("Resuming at question %d of %d.", sess.Index()+1, sess.Len())))
	}

	for !sess.IsComplete() {
		item, _ := sess.CurrentItem()
		fmt.Fprintf(r.out, "\n%s\n", theme.Subtitle.Render(fmt.Sprintf("Question %d of %d", sess.Index()+1, sess.Len())))

		a, err := r.askItem(ctx, item)
		if err != nil {
			return err
		}
		sess.RecordAnswer(a.UserAnswer, a.Correct)
		r.logAnswer(ctx, sessionID, item, a)
		sess.NextQuestion()
	}

	score := sess.Score()
	r.logSession(ctx, store.SessionEventData{
		SessionID: sessionID, Action: "end", TopicID: r.topicID, Mode: sess.Mode().String(),
		Correct: score.Correct, Total: score.Total, DurationSecs: int(time.Since(started).Seconds()),
	})
	fmt.Fprintf(r.out, "\n%s %d/%d  %s\n", theme.Title.Render("Score"), score.Correct, score.Total, theme.Bar(score.Percent(), 20))
	return nil
}

// askItem runs one item through spelling, pronunciation and translation.
func (r *sessionRunner) askItem(ctx context.Context, item catalog.Item) (answer, error) {
	m := phase.New(item)

	card := fmt.Sprintf("%s\n%s", theme.Body.Render(item.DefinitionVietnamese), theme.Hint.Render(item.PartOfSpeech+"  "+item.Phonetic))
	fmt.Fprintln(r.out, theme.Card.Render(card))

	// Spelling
	input := ""
	for {
		ans, err := r.ask("Spell the word (? for a hint): ")
		if err != nil {
			return answer{}, err
		}
		if ans != "?" {
			ok, err := m.SubmitSpelling(ans)
			if err != nil {
				return answer{}, err
			}
			fmt.Fprintf(r.out, "%s %s\n", theme.Mark(ok), theme.Word.Render(item.Word))
			break
		}
		revealed, ok, err := m.Hint(input)
		if err != nil {
			return answer{}, err
		}
		if !ok {
			fmt.Fprintln(r.out, theme.Hint.Render("No hints left."))
			continue
		}
		input = revealed
		fmt.Fprintf(r.out, "%s %s\n", theme.Hint.Render(fmt.Sprintf("Hint (%d left):", m.HintsLeft())), input)
	}

	// Pronunciation: the learner types what the recognizer heard, or
	// leaves it blank to skip.
	wordTry, err := r.attempt(fmt.Sprintf("Say %q (blank to skip): ", item.Word))
	if err != nil {
		return answer{}, err
	}
	var sentenceTry pronounce.Attempt
	if sentence := phase.PronunciationSentence(item); sentence != "" {
		if sentenceTry, err = r.attempt(fmt.Sprintf("Say %q (blank to skip): ", sentence)); err != nil {
			return answer{}, err
		}
	}
	pr, err := r.judge.Pronunciation(ctx, m, wordTry, sentenceTry)
	if err != nil {
		return answer{}, err
	}
	fmt.Fprintf(r.out, "%s pronunciation  word %d%%\n", theme.Mark(pr.Passed), pr.Word.OverallScore)

	// Translation
	userTranslation := ""
	if prompt, ok := catalog.TranslationPrompt(item); ok {
		fmt.Fprintln(r.out, theme.Body.Render(prompt.Vietnamese))
		if userTranslation, err = r.ask(fmt.Sprintf("Translate using %q: ", item.Word)); err != nil {
			return answer{}, err
		}
	}
	tr, err := r.judge.Translation(ctx, m, userTranslation)
	if err != nil {
		return answer{}, err
	}
	r.printTranslation(item, tr)

	v, _ := m.Verdict()
	return answer{Verdict: v, TranslationScore: tr.Result.Score}, nil
}

func (r *sessionRunner) ask(label string) (string, error) {
	s, err := r.prompt.ask(label)
	if errors.Is(err, io.EOF) {
		return "", errQuit
	}
	return s, err
}

func (r *sessionRunner) attempt(label string) (pronounce.Attempt, error) {
	s, err := r.ask(label)
	if err != nil {
		return pronounce.Attempt{}, err
	}
	return pronounce.Attempt{Transcript: s, Skipped: s == ""}, nil
}

func (r *sessionRunner) printTranslation(item catalog.Item, tr phase.TranslationOutcome) {
	res := tr.Result
	score := "n/a"
	if res.Score >= 0 {
		score = fmt.Sprintf("%d", res.Score)
	}
	fmt.Fprintf(r.out, "%s translation  score %s\n", theme.Mark(tr.Passed), score)
	if !tr.ContainsWord {
		fmt.Fprintln(r.out, theme.Incorrect.Render(fmt.Sprintf("Use the word %q in your translation.", item.Word)))
	}
	if res.Feedback != "" {
		fmt.Fprintln(r.out, theme.Hint.Render(res.Feedback))
	}
	for _, ge := range res.GrammarErrors {
		fmt.Fprintf(r.out, "  - %s\n", ge.Message)
	}
	if len(res.Suggestions) > 0 {
		fmt.Fprintln(r.out, theme.Hint.Render("Try: "+strings.Join(res.Suggestions, "; ")))
	}
	if res.ReferenceTranslation != "" {
		fmt.Fprintln(r.out, theme.Subtitle.Render("Reference: "+res.ReferenceTranslation))
	}
}

func (r *sessionRunner) logSession(ctx context.Context, e store.SessionEventData) {
	if r.deps.events == nil {
		return
	}
	if err := r.deps.events.AppendSessionEvent(ctx, e); err != nil {
		r.deps.logger.Warn("record session event", zap.Error(err))
	}
}

func (r *sessionRunner) logAnswer(ctx context.Context, sessionID string, item catalog.Item, a answer) {
	if r.deps.events == nil {
		return
	}
	topicID := r.topicID
	if topicID == "" && r.topicOf != nil {
		topicID, _ = r.topicOf(item.ID)
	}
	err := r.deps.events.AppendAnswerEvent(ctx, store.AnswerEventData{
		SessionID:        sessionID,
		TopicID:          topicID,
		ItemID:           item.ID,
		UserAnswer:       a.UserAnswer,
		Spelling:         a.Spelling,
		Pronunciation:    a.Pronunciation,
		Translation:      a.Translation,
		TranslationScore: a.TranslationScore,
		Correct:          a.Correct,
	})
	if err != nil {
		r.deps.logger.Warn("record answer event", zap.Error(err))
	}
}
