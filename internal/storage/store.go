// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
)

// KV defines the key-value contract the ledger persists through.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// in-memory) without changing the ledger.
type KV interface {
	// Get returns the value stored under key.
	// ok is false when nothing has been stored under key yet.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Close releases any resources held by the store.
	Close() error
}
