package cli

import (
	"context"
	"errors"

	"github.com/custodia-labs/sercha-ask/internal/adapters/driven/artifact"
	"github.com/custodia-labs/sercha-ask/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-ask/internal/logger"
)

// watchIndex reloads svc whenever a build swaps in a new artifact under dir.
// It runs until ctx is done. The returned func stops the watcher and waits for it.
func watchIndex(ctx context.Context, dir string, svc driving.AskService) func() {
	if dir == "" || svc == nil {
		return func() {}
	}

	w, err := artifact.NewWatcher(dir, artifact.DefaultSettleDelay)
	if err != nil {
		logger.Warn("index hot reload disabled: %v", err)
		return func() {}
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		err := w.Watch(ctx, func() {
			if err := svc.Reload(ctx); err != nil {
				logger.Warn("reloading index: %v", err)
				return
			}
			logger.Info("reloaded index from %s", dir)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("index watcher stopped: %v", err)
		}
	}()

	return func() {
		cancel()
		if err := w.Close(); err != nil {
			logger.Debug("closing index watcher: %v", err)
		}
		<-done
	}
}
