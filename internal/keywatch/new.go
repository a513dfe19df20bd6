package keywatch

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/scribe-flow/internal/logger"
)

// New creates a Watcher for the given key file. The parent directory is
// watched rather than the file itself so atomic replace-by-rename edits are
// still observed.
func New(keyFile string, handler KeyHandler, log logger.Logger) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	dir := filepath.Dir(keyFile)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	return &implWatcher{
		keyFile: filepath.Clean(keyFile),
		handler: handler,
		logger:  log,
		watcher: watcher,
	}, nil
}
