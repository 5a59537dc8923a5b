package spacedrep

import "time"

// Review offsets from the anchor (first completion of a topic).
const (
	OneDayInterval  = 24 * time.Hour
	OneWeekInterval = 7 * OneDayInterval
)

// Checkpoint is a single review date in a schedule.
type Checkpoint struct {
	Date      time.Time `json:"date"`
	Completed bool      `json:"completed"`
}

// IsDue returns true if the checkpoint is open and at or past its date.
func (c Checkpoint) IsDue(now time.Time) bool {
	return !c.Completed && !now.Before(c.Date)
}

// Schedule holds the two review checkpoints of a topic. Both dates are fixed
// offsets from the same anchor, so OneWeek.Date is always OneDay.Date + 6 days.
type Schedule struct {
	OneDay  Checkpoint `json:"oneDay"`
	OneWeek Checkpoint `json:"oneWeek"`
}

// NewSchedule creates the review schedule anchored at completedAt.
func NewSchedule(completedAt time.Time) *Schedule {
	return &Schedule{
		OneDay:  Checkpoint{Date: completedAt.Add(OneDayInterval)},
		OneWeek: Checkpoint{Date: completedAt.Add(OneWeekInterval)},
	}
}

// Checkpoint returns the checkpoint for kind.
func (s *Schedule) Checkpoint(kind ReviewKind) Checkpoint {
	if kind == OneWeek {
		return s.OneWeek
	}
	return s.OneDay
}

// WithCompleted returns a copy of the schedule with kind marked completed.
// Completion never reverts.
func (s *Schedule) WithCompleted(kind ReviewKind) *Schedule {
	next := *s
	switch kind {
	case OneDay:
		next.OneDay.Completed = true
	case OneWeek:
		next.OneWeek.Completed = true
	}
	return &next
}

// DueStatus reports which checkpoints of a schedule are due.
type DueStatus struct {
	OneDay  bool
	OneWeek bool
	AnyDue  bool
}

// Due evaluates each checkpoint independently. A nil schedule is never due.
func Due(s *Schedule, now time.Time) DueStatus {
	if s == nil {
		return DueStatus{}
	}
	day := s.OneDay.IsDue(now)
	week := s.OneWeek.IsDue(now)
	return DueStatus{OneDay: day, OneWeek: week, AnyDue: day || week}
}

// NextKind returns the review to surface next. The one-day review always
// comes first; the one-week review is only offered once the one-day review
// has been completed.
func NextKind(s *Schedule, now time.Time) (ReviewKind, bool) {
	due := Due(s, now)
	switch {
	case due.OneDay:
		return OneDay, true
	case due.OneWeek && s.OneDay.Completed:
		return OneWeek, true
	}
	return 0, false
}
