// Package wait implements progressive retry for UI readiness polling
package wait

import (
	"context"
	"fmt"
	"time"

	"github.com/spectral/spectral/pkg/interfaces"
	"github.com/spectral/spectral/pkg/logger"
	"github.com/spectral/spectral/pkg/types"
)

// DefaultSchedule is the process-wide progressive retry schedule.
// UI rendering is nondeterministic; most elements appear within the
// first attempt or two, so later attempts get longer deadlines
// instead of making every call wait the maximum.
var DefaultSchedule = types.Schedule{
	1 * time.Second,
	2 * time.Second,
	3 * time.Second,
	5 * time.Second,
	10 * time.Second,
}

// PollFunc checks a condition for selector, suspending the caller
// until the condition holds or timeout elapses. A deadline expiry must
// surface as *types.TimeoutError; any other error is non-retryable.
type PollFunc func(ctx context.Context, selector string, timeout time.Duration, reverse bool) error

// Progressive retries poll over the full schedule starting at the
// first entry. See ProgressiveFrom.
func Progressive(ctx context.Context, poll PollFunc, selector string, reverse bool, schedule types.Schedule) error {
	return ProgressiveFrom(ctx, poll, selector, reverse, schedule, 0)
}

// ProgressiveFrom retries poll with increasing patience, one attempt
// per schedule entry from index onward. A timeout at a non-terminal
// entry advances exactly one level; a timeout at the terminal entry,
// or any non-timeout failure, is returned unchanged. The reverse flag
// is preserved across every retry. Total wait is bounded by the sum of
// the schedule entries from index to the end.
func ProgressiveFrom(ctx context.Context, poll PollFunc, selector string, reverse bool, schedule types.Schedule, index int) error {
	if err := schedule.Validate(); err != nil {
		return err
	}
	if index < 0 || index >= len(schedule) {
		return fmt.Errorf("schedule index %d out of range [0, %d)", index, len(schedule))
	}

	for i := index; ; i++ {
		err := poll(ctx, selector, schedule[i], reverse)
		if err == nil {
			return nil
		}
		if !types.IsTimeout(err) || i == len(schedule)-1 {
			return err
		}
	}
}

// Waiter composes the progressive engine with a command client,
// exposing the readiness checks the harness installs at launch.
type Waiter struct {
	client   interfaces.CommandClient
	schedule types.Schedule
	log      logger.Logger
}

// Option configures a Waiter
type Option func(*Waiter)

// WithSchedule overrides the progressive schedule.
func WithSchedule(schedule types.Schedule) Option {
	return func(w *Waiter) {
		w.schedule = schedule
	}
}

// WithLogger attaches a logger for per-attempt debug output.
func WithLogger(log logger.Logger) Option {
	return func(w *Waiter) {
		w.log = log
	}
}

// NewWaiter creates a waiter over the given command client.
func NewWaiter(client interfaces.CommandClient, opts ...Option) *Waiter {
	w := &Waiter{
		client:   client,
		schedule: DefaultSchedule,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Schedule returns the waiter's progressive schedule.
func (w *Waiter) Schedule() types.Schedule {
	return w.schedule
}

// WaitForExist waits progressively for an element matching selector to
// exist (or, with reverse, to stop existing).
func (w *Waiter) WaitForExist(ctx context.Context, selector string, reverse bool) error {
	return Progressive(ctx, w.pollExist, selector, reverse, w.schedule)
}

// WaitForVisible waits progressively for an element matching selector
// to become visible (or, with reverse, to stop being visible).
func (w *Waiter) WaitForVisible(ctx context.Context, selector string, reverse bool) error {
	return Progressive(ctx, w.pollVisible, selector, reverse, w.schedule)
}

// WaitUntilWindowVisible polls, with a single fixed timeout, until the
// currently focused window reports itself visible to the user. On
// timeout the error is re-raised with a more specific message naming
// this wait; the original error stays reachable via errors.As.
func (w *Waiter) WaitUntilWindowVisible(ctx context.Context, timeout time.Duration) error {
	err := w.client.WaitUntil(ctx, func(ctx context.Context) (bool, error) {
		return w.client.IsWindowVisible(ctx)
	}, timeout)
	if err != nil && types.IsTimeout(err) {
		return fmt.Errorf("waitUntilWindowVisible: window never became visible to the user: %w", err)
	}
	return err
}

// WaitUntilWindowLoaded waits until the focused window reports its
// content finished loading. The check itself is a driver capability.
func (w *Waiter) WaitUntilWindowLoaded(ctx context.Context, timeout time.Duration) error {
	return w.client.WaitUntilWindowLoaded(ctx, timeout)
}

func (w *Waiter) pollExist(ctx context.Context, selector string, timeout time.Duration, reverse bool) error {
	w.debug("waitForExist attempt", selector, timeout, reverse)
	return w.client.WaitForExist(ctx, selector, timeout, reverse)
}

func (w *Waiter) pollVisible(ctx context.Context, selector string, timeout time.Duration, reverse bool) error {
	w.debug("waitForVisible attempt", selector, timeout, reverse)
	return w.client.WaitForVisible(ctx, selector, timeout, reverse)
}

func (w *Waiter) debug(msg, selector string, timeout time.Duration, reverse bool) {
	if w.log == nil {
		return
	}
	w.log.Debug(msg,
		logger.WithField("selector", selector),
		logger.WithField("timeout", timeout.String()),
		logger.WithField("reverse", reverse))
}
