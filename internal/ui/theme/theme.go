// Package theme holds the lipgloss styles used by CLI output.
package theme

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/wordbloom/internal/spacedrep"
)

// Color palette
var (
	Primary   = lipgloss.Color("#EC4899") // Bloom pink
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Word = lipgloss.NewStyle().
		Bold(true).
		Foreground(Secondary)
)

// States
var (
	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Warning = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)
)

// Card frames a block such as a flashcard or a reminder.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(0, 2)

// Mark renders a check or cross for a phase outcome.
func Mark(ok bool) string {
	if ok {
		return Correct.Render("✓")
	}
	return Incorrect.Render("✗")
}

// Status renders a topic status badge.
func Status(s spacedrep.TopicStatus) string {
	switch s {
	case spacedrep.StatusCompleted:
		return Correct.Render(s.String())
	case spacedrep.StatusReviewDue:
		return Warning.Render(s.String())
	}
	return Subtitle.Render(s.String())
}

// Bar renders a fixed-width progress bar for a percentage in 0..100,
// followed by the number.
func Bar(percent, width int) string {
	if width < 4 {
		width = 4
	}
	filled := max(0, min(width, width*percent/100))
	return lipgloss.NewStyle().Foreground(Secondary).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("░", width-filled)) +
		Subtitle.Render(fmt.Sprintf(" %3d%%", percent))
}
