package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch marks the loader stale when its file is written, replaced or
// removed. It blocks until ctx is done. The directory is watched rather
// than the file so editors that save by rename are noticed.
func (l *Loader) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	target, err := filepath.Abs(l.opts.Path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", l.opts.Path, err)
	}
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	l.logger.DebugContext(ctx, "watching dataset", slog.String("path", target))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(ev.Name)
			if err != nil || name != target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) ||
				ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove) {
				l.MarkStale(ctx)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			l.logger.WarnContext(ctx, "dataset watcher error", slog.String("error", err.Error()))
		}
	}
}
