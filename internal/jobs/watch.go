// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	xglog "github.com/ManuGH/lamesync/internal/log"
)

// WatchOverrides calls onChange, debounced, whenever the forced-pairing
// file at path is written, created, renamed or removed. It watches the
// parent directory so editors that replace the file are noticed. It blocks
// until ctx is done.
func WatchOverrides(ctx context.Context, path string, debounce time.Duration, onChange func(context.Context)) error {
	logger := xglog.WithComponentFromContext(ctx, "watch")
	if path == "" {
		logger.Info().Str(xglog.FieldEvent, "watch.disabled").Msg("no overrides file configured")
		<-ctx.Done()
		return nil
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch overrides dir: %w", err)
	}
	logger.Info().
		Str(xglog.FieldEvent, "watch.started").
		Str(xglog.FieldPath, target).
		Msg("watching overrides file for changes")

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Str(xglog.FieldEvent, "watch.stopped").Msg("overrides watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				logger.Debug().
					Str(xglog.FieldEvent, "watch.changed").
					Str("op", event.Op.String()).
					Msg("overrides file changed")
				timer.Reset(debounce)
			}

		case <-timer.C:
			onChange(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error().Err(err).Str(xglog.FieldEvent, "watch.error").Msg("overrides watcher error")
		}
	}
}
