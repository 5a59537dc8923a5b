package spacedrep

import (
	"fmt"
	"time"
)

// TopicStatus is the derived learning status of a topic. It is never stored.
type TopicStatus int

const (
	StatusNotStarted TopicStatus = iota
	StatusCompleted
	StatusReviewDue
)

func (s TopicStatus) String() string {
	switch s {
	case StatusNotStarted:
		return "not-started"
	case StatusCompleted:
		return "completed"
	case StatusReviewDue:
		return "review-due"
	}
	return fmt.Sprintf("TopicStatus(%d)", int(s))
}

func (s TopicStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *TopicStatus) UnmarshalText(b []byte) error {
	switch string(b) {
	case "not-started":
		*s = StatusNotStarted
	case "completed":
		*s = StatusCompleted
	case "review-due":
		*s = StatusReviewDue
	default:
		return fmt.Errorf("unknown topic status %q", b)
	}
	return nil
}

// Status derives a topic's status from its attempt count and schedule.
func Status(attempts int, s *Schedule, now time.Time) TopicStatus {
	if attempts == 0 {
		return StatusNotStarted
	}
	if Due(s, now).AnyDue {
		return StatusReviewDue
	}
	return StatusCompleted
}

// FormatUntil renders the time left before date for reminder banners.
func FormatUntil(date, now time.Time) string {
	diff := date.Sub(now)
	if diff < 0 {
		return "overdue"
	}

	hours := int(diff / time.Hour)
	days := int(diff / OneDayInterval)

	if hours < 24 {
		if hours <= 1 {
			return "in 1 hour"
		}
		return fmt.Sprintf("in %d hours", hours)
	}
	if days == 1 {
		return "tomorrow"
	}
	return fmt.Sprintf("in %d days", days)
}
