package diagnostics

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spectral/spectral/pkg/logger"
)

// LogFollower streams lines appended to a driver log file into the
// session logger while the session runs, so a hang can be observed
// live instead of only post-mortem in the report.
type LogFollower struct {
	path    string
	label   string
	watcher *fsnotify.Watcher
	logger  logger.Logger
	offset  int64
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
}

// NewLogFollower creates a follower for the log file at path. label
// names the driver subsystem in the streamed output.
func NewLogFollower(path, label string, log logger.Logger) (*LogFollower, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &LogFollower{
		path:    path,
		label:   label,
		watcher: watcher,
		logger:  log,
	}, nil
}

// Start begins streaming. The file may not exist yet; the parent
// directory is watched and streaming begins on creation.
func (f *LogFollower) Start(ctx context.Context) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}
	if err := f.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	f.cancel = cancel

	// Drain anything already written before the watch began.
	f.drain()

	f.wg.Add(1)
	go f.run(ctx)

	return nil
}

// Stop ends streaming and closes the watcher.
func (f *LogFollower) Stop() error {
	if f.cancel != nil {
		f.cancel()
	}
	err := f.watcher.Close()
	f.wg.Wait()
	return err
}

func (f *LogFollower) run(ctx context.Context) {
	defer f.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if event.Name != f.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				f.drain()
			}

		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			f.logger.Debug("Log follower watch error",
				logger.WithField("path", f.path),
				logger.WithField("error", err.Error()))
		}
	}
}

// drain reads newly appended complete lines from the current offset.
func (f *LogFollower) drain() {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.Open(f.path)
	if err != nil {
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return
	}
	// File was truncated or rotated; start over.
	if info.Size() < f.offset {
		f.offset = 0
	}

	if _, err := file.Seek(f.offset, io.SeekStart); err != nil {
		return
	}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line != "" {
			f.logger.Debug(fmt.Sprintf("[%s] %s", f.label, line))
		}
		f.offset += int64(len(scanner.Bytes())) + 1
	}
}
