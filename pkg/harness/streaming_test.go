package harness_test

import (
	"bytes"
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spectral/spectral/pkg/harness"
	"github.com/spectral/spectral/pkg/interfaces"
	"github.com/spectral/spectral/pkg/logger"
	"github.com/spectral/spectral/pkg/mocks"
	"github.com/spectral/spectral/pkg/types"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestLaunch_LogStreaming(t *testing.T) {
	client := mocks.NewMockCommandClient()
	driver := mocks.NewMockSessionDriver(client)

	buf := &lockedBuffer{}
	c := harness.New(t.TempDir(),
		harness.WithLogger(logger.CreateLoggerWithOutput("", "debug", buf)),
		harness.WithLogStreaming(),
		harness.WithDriverFactory(func(cfg types.SessionConfig) interfaces.SessionDriver {
			driver.SettingsVal = cfg.Settings
			return driver
		}),
	)

	if _, err := c.Launch(context.Background()); err != nil {
		t.Fatalf("launch failed: %v", err)
	}

	// The driver subsystem writes its log; the follower streams it
	settings := driver.Settings()
	if err := os.WriteFile(settings.ChromeDriverLogPath, []byte("ChromeDriver was started successfully\n"), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(buf.String(), "ChromeDriver was started successfully") {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if !strings.Contains(buf.String(), "ChromeDriver was started successfully") {
		t.Fatalf("driver log line never streamed; output: %s", buf.String())
	}

	if _, err := c.Quit(context.Background()); err != nil {
		t.Fatalf("quit failed: %v", err)
	}
}

func TestWaiter_AvailableAfterLaunch(t *testing.T) {
	client := mocks.NewMockCommandClient()
	driver := mocks.NewMockSessionDriver(client)
	c := newTestController(t, driver)

	if c.Waiter() != nil {
		t.Error("waiter must not exist before launch")
	}

	if _, err := c.Launch(context.Background()); err != nil {
		t.Fatalf("launch failed: %v", err)
	}

	w := c.Waiter()
	if w == nil {
		t.Fatal("waiter must be installed by launch")
	}

	// Element waits ride the progressive schedule after launch
	client.ExistScript = []error{
		types.NewTimeoutError(types.TimeoutKindWaitFor, "#sidebar not yet rendered", time.Second),
		nil,
	}
	if err := w.WaitForExist(context.Background(), "#sidebar", false); err != nil {
		t.Fatalf("post-launch element wait failed: %v", err)
	}
	if len(client.ExistCalls) != 2 {
		t.Errorf("expected a progressive retry, got %d attempts", len(client.ExistCalls))
	}
}
