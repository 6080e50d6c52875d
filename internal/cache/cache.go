// Package cache provides the whole-object storage the stores read and write
// their files through: a local directory, process memory or Azure Blob Storage.
package cache

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("cache: key not found")

// Cache stores opaque documents by key. Put replaces the whole document.
type Cache interface {
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Readyable backends can report whether they are reachable.
type Readyable interface {
	Ready(ctx context.Context) error
}
