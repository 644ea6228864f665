// ABOUTME: Key-value contract shared by every local storage backend.
// ABOUTME: Values are opaque JSON blobs; each call is atomic on its own.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by KV.Get for unknown keys.
	ErrNotFound = errors.New("not found")

	// ErrReadOnly is returned by writes when another process holds the database lock.
	ErrReadOnly = errors.New("cannot write: database is locked by another process (MCP server?)")
)

// KV is a durable key-value store.
//
// Every call is atomic with respect to itself. Nothing is atomic across
// keys: callers that need cross-key consistency must sequence calls and
// tolerate partial completion.
type KV interface {
	// Get returns the value for key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists every key under management.
	Keys(ctx context.Context) ([]string, error)
	// Clear removes every key under management.
	Clear(ctx context.Context) error
	// Close releases the backend.
	Close() error
}
