package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iho/marathon-wallet/internal/usecase"
)

// MockIDGenerator hands out predictable, ordered IDs.
type MockIDGenerator struct {
	mu   sync.Mutex
	next int
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (g *MockIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("id-%04d", g.next)
}

// MockCache is a map-backed usecase.Cache. Entries never expire.
type MockCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{entries: map[string][]byte{}}
}

func (c *MockCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	if !ok {
		return nil, usecase.ErrCacheMiss
	}
	return v, nil
}

func (c *MockCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *MockCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// Has reports whether key is cached.
func (c *MockCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}
