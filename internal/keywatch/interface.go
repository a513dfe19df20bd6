package keywatch

import "context"

// Watcher monitors the API key file for changes.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// KeyHandler receives the new key contents whenever the file changes.
// An empty key means the file was removed or emptied.
type KeyHandler func(ctx context.Context, key string)
