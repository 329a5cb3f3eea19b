// Package cache provides the pass-through key-value store that holds
// the latest pipeline output (alerts, data summary) between API calls.
// Values are opaque serialized bytes; the cache never interprets them.
package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store is a pass-through KV store with per-entry TTL.
type Store interface {
	// Get returns the cached value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value under key for the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// Cache keys used by the pipeline and API.
const (
	KeyAlerts  = "firesight:alerts"
	KeySummary = "firesight:summary"
)

// Memory is the in-process Store used when Redis is not configured.
type Memory struct {
	inner *gocache.Cache
}

// NewMemory creates an in-memory store. defaultTTL applies when Set is
// called with a non-positive TTL.
func NewMemory(defaultTTL time.Duration) *Memory {
	return &Memory{
		inner: gocache.New(defaultTTL, 2*defaultTTL),
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.inner.Get(key)
	if !ok {
		return nil, false, nil
	}
	return v.([]byte), true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.inner.Set(key, value, ttl)
	return nil
}

func (m *Memory) Close() error {
	m.inner.Flush()
	return nil
}
