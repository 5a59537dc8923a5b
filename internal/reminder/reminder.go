// Package reminder periodically announces due reviews and pending mistakes.
package reminder

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/abhisek/wordbloom/internal/progress"
)

// Source is the progress state a reminder is computed from.
type Source interface {
	VisibleDueReviews(now time.Time) []progress.DueReview
	MistakeCount() int
	IsMistakesAlertDismissed(count int) bool
}

// Reminder is one notification.
type Reminder struct {
	At           time.Time
	Due          []progress.DueReview
	MistakeCount int
}

// Empty reports whether there is nothing to announce.
func (r Reminder) Empty() bool {
	return len(r.Due) == 0 && r.MistakeCount == 0
}

func (r Reminder) key() string {
	var b strings.Builder
	for _, d := range r.Due {
		fmt.Fprintf(&b, "%s|", progress.ReviewAlertKey(d.TopicID, d.Kind))
	}
	fmt.Fprintf(&b, "m%d", r.MistakeCount)
	return b.String()
}

// Notifier delivers reminders.
type Notifier interface {
	Notify(ctx context.Context, r Reminder) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, r Reminder) error

func (f NotifierFunc) Notify(ctx context.Context, r Reminder) error { return f(ctx, r) }

// Runner checks Source on an interval and notifies when the reminder
// content changes.
type Runner struct {
	src      Source
	notifier Notifier
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger

	mu        sync.Mutex
	last      string
	scheduler *gocron.Scheduler
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// New creates a Runner. It does nothing until Start.
func New(src Source, n Notifier, interval time.Duration, logger *zap.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner{
		src:      src,
		notifier: n,
		interval: interval,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Compute builds the current reminder without sending it. The mistakes
// count is only included while its alert has not been dismissed.
func (r *Runner) Compute() Reminder {
	now := r.now()
	rem := Reminder{At: now, Due: r.src.VisibleDueReviews(now)}
	if n := r.src.MistakeCount(); n > 0 && !r.src.IsMistakesAlertDismissed(n) {
		rem.MistakeCount = n
	}
	return rem
}

// Check computes the reminder and sends it if it is non-empty and differs
// from the last one sent. It reports whether a notification went out.
func (r *Runner) Check(ctx context.Context) (bool, error) {
	rem := r.Compute()

	r.mu.Lock()
	defer r.mu.Unlock()

	key := rem.key()
	if rem.Empty() || key == r.last {
		r.last = key
		return false, nil
	}
	if err := r.notifier.Notify(ctx, rem); err != nil {
		return false, fmt.Errorf("notify: %w", err)
	}
	r.last = key
	return true, nil
}

// Start schedules Check every interval, beginning immediately.
func (r *Runner) Start(ctx context.Context) error {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	_, err := s.Every(r.interval).Do(func() {
		if _, err := r.Check(ctx); err != nil {
			r.logger.Warn("send reminder", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule reminder: %w", err)
	}

	r.mu.Lock()
	r.scheduler = s
	r.mu.Unlock()

	s.StartAsync()
	r.logger.Info("reminders started", zap.Duration("interval", r.interval))
	return nil
}

// Stop halts the schedule.
func (r *Runner) Stop() {
	r.mu.Lock()
	s := r.scheduler
	r.scheduler = nil
	r.mu.Unlock()

	if s != nil {
		s.Stop()
	}
}
