package cache

import (
	"bytes"
	"context"
	"io"
	"sync"
)

// InMemoryCache stores documents in process memory.
type InMemoryCache struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ Cache = (*InMemoryCache)(nil)
var _ Readyable = (*InMemoryCache)(nil)

func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		data: make(map[string][]byte),
	}
}

func (c *InMemoryCache) Get(_ context.Context, key string) (io.ReadCloser, error) {
	c.mu.RLock()
	value, ok := c.data[key]
	c.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(value)), nil
}

func (c *InMemoryCache) Put(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = bytes.Clone(value)
	return nil
}

func (c *InMemoryCache) Ready(context.Context) error { return nil }
