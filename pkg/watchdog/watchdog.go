// Package watchdog runs operations under a hang deadline
package watchdog

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/spectral/spectral/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// HangFunc is invoked, best-effort, when the watched operation is
// still in flight once the hang deadline passes. It runs concurrently
// with the operation, which continues to its own outcome.
type HangFunc func(ctx context.Context)

// Watchdog bounds suspected-hang detection for a long operation.
// It never cancels the operation; it only raises the alarm.
type Watchdog struct {
	hangTimeout time.Duration
	onHang      HangFunc
	logger      logger.Logger
}

// New creates a watchdog that calls onHang after hangTimeout.
func New(hangTimeout time.Duration, onHang HangFunc, log logger.Logger) *Watchdog {
	return &Watchdog{
		hangTimeout: hangTimeout,
		onHang:      onHang,
		logger:      log,
	}
}

// Watch runs fn and returns its error. If fn has not finished when
// the hang deadline passes, onHang fires exactly once while fn keeps
// running. A panicking onHang is recovered and logged; it never
// affects fn's outcome.
func (w *Watchdog) Watch(ctx context.Context, fn func(ctx context.Context) error) error {
	done := make(chan struct{})

	group, gctx := errgroup.WithContext(ctx)

	var fnErr error
	group.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				w.logError("Watched operation panic recovered", r)
				err = fmt.Errorf("watched operation panic: %v", r)
			}
			close(done)
		}()
		fnErr = fn(gctx)
		return nil
	})

	group.Go(func() error {
		timer := time.NewTimer(w.hangTimeout)
		defer timer.Stop()

		select {
		case <-done:
			return nil
		case <-gctx.Done():
			return nil
		case <-timer.C:
			w.fireHang(gctx)
			return nil
		}
	})

	if err := group.Wait(); err != nil {
		return err
	}
	return fnErr
}

// fireHang invokes the hang callback with panic recovery.
func (w *Watchdog) fireHang(ctx context.Context) {
	if w.onHang == nil {
		return
	}
	if w.logger != nil {
		w.logger.Warn("Operation exceeded hang deadline",
			logger.WithField("timeout", w.hangTimeout.String()))
	}
	defer func() {
		if r := recover(); r != nil {
			w.logError("Hang callback panic recovered", r)
		}
	}()
	w.onHang(ctx)
}

func (w *Watchdog) logError(msg string, r interface{}) {
	if w.logger == nil {
		return
	}
	w.logger.Error(msg,
		logger.WithField("panic", r),
		logger.WithField("stack_trace", string(debug.Stack())))
}
