package checkpoint

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/samuel-clarke/ddsp/internal/ctxlog"
)

// Janitor enforces the trainer's checkpoints_to_keep setting over a save
// directory while an external engine writes into it: whenever new
// checkpoint files appear, all but the newest N steps are removed.
type Janitor struct {
	dir          string
	keep         int
	watcher      *fsnotify.Watcher
	mu           sync.Mutex
	running      bool
	stopCh       chan struct{}
	debounceTime time.Duration
}

// NewJanitor creates a janitor for the given directory, keeping the
// newest keep checkpoints.
func NewJanitor(dir string, keep int) (*Janitor, error) {
	if keep <= 0 {
		return nil, fmt.Errorf("checkpoints_to_keep must be positive, got %d", keep)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Janitor{
		dir:     dir,
		keep:    keep,
		watcher: watcher,
		stopCh:  make(chan struct{}),
		// Engines write a checkpoint as several files in quick
		// succession; debounce so a sweep sees the complete step.
		debounceTime: time.Second,
	}, nil
}

// Start performs an initial sweep and begins watching the directory.
func (j *Janitor) Start(ctx context.Context) error {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		return nil
	}
	j.running = true
	j.mu.Unlock()

	if err := j.watcher.Add(j.dir); err != nil {
		j.mu.Lock()
		j.running = false
		j.mu.Unlock()
		return fmt.Errorf("failed to watch save directory: %w", err)
	}
	if err := j.Sweep(ctx); err != nil {
		return err
	}

	ctxlog.FromContext(ctx).Info("Checkpoint janitor started.", "dir", j.dir, "keep", j.keep)
	go j.watchLoop(ctx)
	return nil
}

// Stop ends the watch loop and releases the watcher.
func (j *Janitor) Stop() error {
	j.mu.Lock()
	if !j.running {
		j.mu.Unlock()
		return nil
	}
	j.running = false
	j.mu.Unlock()

	close(j.stopCh)
	return j.watcher.Close()
}

// watchLoop reacts to file events with debouncing.
func (j *Janitor) watchLoop(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	var debounce *time.Timer
	var sweepCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-j.stopCh:
			return
		case event, ok := <-j.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.NewTimer(j.debounceTime)
			sweepCh = debounce.C
		case err, ok := <-j.watcher.Errors:
			if !ok {
				return
			}
			logger.Error("Checkpoint watcher error.", "error", err)
		case <-sweepCh:
			sweepCh = nil
			if err := j.Sweep(ctx); err != nil {
				logger.Error("Checkpoint sweep failed.", "error", err)
			}
		}
	}
}

// Sweep deletes the files of every checkpoint older than the newest keep
// steps. A sweep over a pruned directory is a no-op.
func (j *Janitor) Sweep(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	checkpoints, err := List(j.dir)
	if err != nil {
		return err
	}
	if len(checkpoints) <= j.keep {
		return nil
	}

	for _, stale := range checkpoints[:len(checkpoints)-j.keep] {
		for _, file := range stale.Files {
			if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove stale checkpoint file: %w", err)
			}
		}
		logger.Debug("Removed stale checkpoint.", "step", stale.Step, "files", len(stale.Files))
	}
	logger.Info("Pruned stale checkpoints.",
		"removed", len(checkpoints)-j.keep, "kept", j.keep)
	return nil
}
