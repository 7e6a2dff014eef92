package cache

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is a process-local Cache backed by go-cache
type Memory struct {
	store *gocache.Cache
}

// NewMemory creates a cache whose entries expire after defaultTTL unless
// Set is given its own ttl. Expired entries are purged every cleanup.
func NewMemory(defaultTTL, cleanup time.Duration) *Memory {
	return &Memory{store: gocache.New(defaultTTL, cleanup)}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok := m.store.Get(key)
	if !ok {
		return nil, false, nil
	}
	raw, ok := v.([]byte)
	return raw, ok, nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	m.store.Set(key, value, ttl)
	return nil
}

func (m *Memory) DeletePrefix(ctx context.Context, prefix string) error {
	for key := range m.store.Items() {
		if strings.HasPrefix(key, prefix) {
			m.store.Delete(key)
		}
	}
	return nil
}

func (m *Memory) HealthCheck(ctx context.Context) error {
	return nil
}

// Len returns the number of unexpired entries
func (m *Memory) Len() int {
	return m.store.ItemCount()
}
