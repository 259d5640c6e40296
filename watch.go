package glyphmatch

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the corpus must stay quiet before Watch
// re-runs its callback.
const DefaultDebounce = 300 * time.Millisecond

// Watch calls onChange each time dir settles after a burst of file system
// events, until ctx is cancelled. Errors from onChange are logged and do
// not stop the watch. Watch returns nil on cancellation.
func Watch(ctx context.Context, dir string, debounce time.Duration, logger *zap.Logger,
	onChange func(context.Context) error) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	logger.Info("Watching corpus", zap.String("dir", dir))

	ticker := time.NewTicker(debounce / 2)
	defer ticker.Stop()

	var lastEvent time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			logger.Debug("Corpus event", zap.String("event", ev.String()))
			lastEvent = time.Now()
		case <-ticker.C:
			if lastEvent.IsZero() || time.Since(lastEvent) < debounce {
				continue
			}
			lastEvent = time.Time{}
			if err := onChange(ctx); err != nil {
				logger.Error("Re-evaluation failed", zap.Error(err))
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error", zap.Error(err))
		}
	}
}
