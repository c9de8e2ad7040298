package watchdog_test

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spectral/spectral/pkg/logger"
	"github.com/spectral/spectral/pkg/watchdog"
)

func testLogger() logger.Logger {
	return logger.CreateLoggerWithOutput("", "debug", &bytes.Buffer{})
}

func TestWatch_FastOperationSkipsHang(t *testing.T) {
	var fired atomic.Bool
	wd := watchdog.New(time.Second, func(ctx context.Context) {
		fired.Store(true)
	}, testLogger())

	err := wd.Watch(context.Background(), func(ctx context.Context) error {
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fired.Load() {
		t.Error("hang callback must not fire for a fast operation")
	}
}

func TestWatch_HangFiresCallbackOnce(t *testing.T) {
	var fires atomic.Int32
	release := make(chan struct{})

	wd := watchdog.New(30*time.Millisecond, func(ctx context.Context) {
		fires.Add(1)
	}, testLogger())

	// Watch only returns after fn finishes, so release it from a timer
	// well past the hang deadline.
	time.AfterFunc(150*time.Millisecond, func() { close(release) })

	err := wd.Watch(context.Background(), func(ctx context.Context) error {
		<-release
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fires.Load() != 1 {
		t.Errorf("expected exactly one hang fire, got %d", fires.Load())
	}
}

func TestWatch_OperationErrorPropagates(t *testing.T) {
	opErr := errors.New("launch failed")
	wd := watchdog.New(time.Second, nil, testLogger())

	err := wd.Watch(context.Background(), func(ctx context.Context) error {
		return opErr
	})
	if !errors.Is(err, opErr) {
		t.Fatalf("expected operation error, got %v", err)
	}
}

func TestWatch_HangCallbackPanicIsRecovered(t *testing.T) {
	wd := watchdog.New(20*time.Millisecond, func(ctx context.Context) {
		panic("diagnostics exploded")
	}, testLogger())

	err := wd.Watch(context.Background(), func(ctx context.Context) error {
		time.Sleep(100 * time.Millisecond)
		return nil
	})
	if err != nil {
		t.Fatalf("hang callback panic must not affect the operation: %v", err)
	}
}

func TestWatch_OperationPanicBecomesError(t *testing.T) {
	wd := watchdog.New(time.Second, nil, testLogger())

	err := wd.Watch(context.Background(), func(ctx context.Context) error {
		panic("operation exploded")
	})
	if err == nil {
		t.Fatal("expected panic to surface as an error")
	}
}
