// Package cache holds the durable last-known-value store used by the FX adapter.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"StockMetrics/pkg/cache"
)

// MemoryKV keeps JSON values for the process lifetime.
type MemoryKV struct {
	mu sync.RWMutex
	m  map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{m: make(map[string][]byte)}
}

func (s *MemoryKV) GetJSON(_ context.Context, key string, dest interface{}) error {
	s.mu.RLock()
	b, ok := s.m[key]
	s.mu.RUnlock()
	if !ok {
		return cache.ErrCacheMiss
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return fmt.Errorf("kv decode %s: %w", key, err)
	}
	return nil
}

func (s *MemoryKV) PutJSON(_ context.Context, key string, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv encode %s: %w", key, err)
	}
	s.mu.Lock()
	s.m[key] = b
	s.mu.Unlock()
	return nil
}
