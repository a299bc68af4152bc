// Package cache stores rendered output keyed by content fingerprint so
// unchanged documents are not recompiled.
package cache

import (
	"context"
	"time"
)

// Key identifies one rendered output. Settings captures everything besides
// the source that affects the output: renderer options, transforms and the
// compiler version.
type Key struct {
	Fingerprint string
	Target      string
	Settings    string
}

// Entry is a cached output.
type Entry struct {
	Key       Key
	Output    string
	CreatedAt time.Time
}

// Stats summarizes the cache contents.
type Stats struct {
	Entries int
	Bytes   int64
}

// Store is a render cache.
type Store interface {
	Get(ctx context.Context, key Key) (Entry, bool, error)
	Put(ctx context.Context, key Key, output string) error
	Prune(ctx context.Context, olderThan time.Time) (int64, error)
	Stats(ctx context.Context) (Stats, error)
	Close() error
}
