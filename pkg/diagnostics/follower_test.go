package diagnostics_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spectral/spectral/pkg/diagnostics"
	"github.com/spectral/spectral/pkg/logger"
)

// syncBuffer makes a bytes.Buffer safe for the follower goroutine
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitForOutput(t *testing.T, buf *syncBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(buf.String(), want) {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("output never contained %q; got: %s", want, buf.String())
}

func TestLogFollower_StreamsAppendedLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chromedriver.log")

	buf := &syncBuffer{}
	log := logger.CreateLoggerWithOutput("", "debug", buf)

	follower, err := diagnostics.NewLogFollower(path, "chromedriver", log)
	if err != nil {
		t.Fatalf("failed to create follower: %v", err)
	}
	if err := follower.Start(context.Background()); err != nil {
		t.Fatalf("failed to start follower: %v", err)
	}
	defer follower.Stop()

	if err := os.WriteFile(path, []byte("first line\n"), 0644); err != nil {
		t.Fatal(err)
	}
	waitForOutput(t, buf, "first line")

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("second line\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()
	waitForOutput(t, buf, "second line")
}

func TestLogFollower_PicksUpPreexistingContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "webdriver.log")
	if err := os.WriteFile(path, []byte("written before start\n"), 0644); err != nil {
		t.Fatal(err)
	}

	buf := &syncBuffer{}
	log := logger.CreateLoggerWithOutput("", "debug", buf)

	follower, err := diagnostics.NewLogFollower(path, "webdriver", log)
	if err != nil {
		t.Fatalf("failed to create follower: %v", err)
	}
	if err := follower.Start(context.Background()); err != nil {
		t.Fatalf("failed to start follower: %v", err)
	}
	defer follower.Stop()

	waitForOutput(t, buf, "written before start")
}

func TestLogFollower_StopIsIdempotentEnough(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chromedriver.log")

	buf := &syncBuffer{}
	log := logger.CreateLoggerWithOutput("", "debug", buf)

	follower, err := diagnostics.NewLogFollower(path, "chromedriver", log)
	if err != nil {
		t.Fatalf("failed to create follower: %v", err)
	}
	if err := follower.Start(context.Background()); err != nil {
		t.Fatalf("failed to start follower: %v", err)
	}
	if err := follower.Stop(); err != nil {
		t.Errorf("stop failed: %v", err)
	}
}
