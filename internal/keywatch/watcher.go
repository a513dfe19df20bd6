package keywatch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/scribe-flow/internal/logger"
)

type implWatcher struct {
	keyFile string
	handler KeyHandler
	logger  logger.Logger
	watcher *fsnotify.Watcher
}

// Start blocks, dispatching key changes to the handler until ctx is done.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "API key watcher started: %s", w.keyFile)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "API key watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if filepath.Clean(event.Name) != w.keyFile {
				continue
			}

			switch {
			case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
				key, err := os.ReadFile(w.keyFile)
				if err != nil {
					w.logger.Warn(ctx, "Failed to read key file %s: %v", w.keyFile, err)
					continue
				}
				w.logger.Info(ctx, "API key file changed, reloading")
				w.handler(ctx, strings.TrimSpace(string(key)))

			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				w.logger.Warn(ctx, "API key file removed: %s", w.keyFile)
				w.handler(ctx, "")
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}
