package credential

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to the credential file. It never reloads the key:
// the running process keeps the credential it started with.
type Watcher struct {
	path    string
	logger  *slog.Logger
	watcher *fsnotify.Watcher

	// OnChange, if set, is called after each logged change.
	OnChange func(event fsnotify.Event)
}

// NewWatcher watches the directory containing path. Watching the directory
// rather than the file keeps working across editor rename-and-replace saves.
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		_ = fw.Close() // Best effort close on error path
		return nil, fmt.Errorf("failed to watch credential directory: %w", err)
	}

	return &Watcher{
		path:    filepath.Clean(path),
		logger:  logger,
		watcher: fw,
	}, nil
}

// Run processes file events until ctx is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	w.logger.Info("watching credential file", "path", w.path)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			w.logger.Warn("credential file changed; restart required to apply",
				"path", w.path,
				"op", event.Op.String(),
			)
			if w.OnChange != nil {
				w.OnChange(event)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("credential watcher error", "error", err)

		case <-ctx.Done():
			return
		}
	}
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
