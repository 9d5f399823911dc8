package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/sercha-ask/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-ask/internal/logger"
)

// DefaultSettleDelay coalesces the burst of events produced by one build.
const DefaultSettleDelay = 200 * time.Millisecond

// Ensure Watcher implements the interface.
var _ driven.ArtifactWatcher = (*Watcher)(nil)

// Watcher reports artifact swaps by watching CURRENT inside the artifact
// directory. The parent is watched as well so a directory created by the
// first build is picked up.
type Watcher struct {
	dir     string
	current string
	settle  time.Duration
	watcher *fsnotify.Watcher

	closeOnce sync.Once
}

// NewWatcher creates a watcher for the artifact directory dir.
func NewWatcher(dir string, settle time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving artifact directory: %w", err)
	}
	abs = filepath.Clean(abs)
	if settle <= 0 {
		settle = DefaultSettleDelay
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		if err := w.Add(abs); err != nil {
			w.Close()
			return nil, fmt.Errorf("watching %s: %w", abs, err)
		}
	}

	return &Watcher{
		dir:     abs,
		current: filepath.Join(abs, CurrentFileName),
		settle:  settle,
		watcher: w,
	}, nil
}

// Watch blocks, calling onChange once per settled swap, until ctx is done
// or the watcher is closed.
func (w *Watcher) Watch(ctx context.Context, onChange func()) error {
	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debug("artifact event %s on %s", event.Op, event.Name)
			if timer == nil {
				timer = time.NewTimer(w.settle)
			} else {
				timer.Reset(w.settle)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			onChange()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("artifact watcher: %v", err)
		}
	}
}

// relevant reports whether event may have changed the live build, and starts
// watching the artifact directory when it appears.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	switch filepath.Clean(event.Name) {
	case w.dir:
		if event.Has(fsnotify.Create) {
			if err := w.watcher.Add(w.dir); err != nil {
				logger.Debug("watching %s: %v", w.dir, err)
			}
			return true
		}
		return event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
	case w.current:
		return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
			event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)
	}
	return false
}

// Close stops watching.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.watcher.Close()
	})
	return err
}
