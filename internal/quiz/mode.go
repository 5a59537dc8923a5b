package quiz

import (
	"fmt"
	"strings"

	"github.com/abhisek/wordbloom/internal/spacedrep"
)

// ModeKind distinguishes why a session is being run.
type ModeKind int

const (
	ModePractice ModeKind = iota // Ordinary topic quiz
	ModeReview                   // Due spaced-repetition review
	ModeMistakes                 // Drill of previously missed words
)

// Mode is the kind of session plus, for reviews, which checkpoint it serves.
type Mode struct {
	Kind   ModeKind
	Review spacedrep.ReviewKind
}

func Practice() Mode { return Mode{Kind: ModePractice} }
func Mistakes() Mode { return Mode{Kind: ModeMistakes} }

func Review(kind spacedrep.ReviewKind) Mode {
	return Mode{Kind: ModeReview, Review: kind}
}

// IsReview reports whether the session gates a review checkpoint.
func (m Mode) IsReview() bool { return m.Kind == ModeReview }

func (m Mode) String() string {
	switch m.Kind {
	case ModePractice:
		return "practice"
	case ModeMistakes:
		return "mistakes"
	case ModeReview:
		return "review:" + m.Review.String()
	}
	return fmt.Sprintf("Mode(%d)", int(m.Kind))
}

// ParseMode parses the String form of a mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "practice":
		return Practice(), nil
	case "mistakes":
		return Mistakes(), nil
	}
	if rest, ok := strings.CutPrefix(s, "review:"); ok {
		kind, err := spacedrep.ParseReviewKind(rest)
		if err != nil {
			return Mode{}, fmt.Errorf("parse mode: %w", err)
		}
		return Review(kind), nil
	}
	return Mode{}, fmt.Errorf("unknown quiz mode %q", s)
}
