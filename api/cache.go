// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package api

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// CacheTTL is how long a cacheable query's result remains valid.
const CacheTTL = time.Hour

// CacheKey identifies a cacheable query: which controller, which opcode,
// against which request payload.
type CacheKey struct {
	ControllerID int
	Opcode       byte
	Payload      string // string(payload bytes); comparable, usable as a map key
}

type cacheEntry struct {
	data     []byte
	respType byte
	ts       time.Time
}

// Cache is a concurrency-safe, read-mostly store of decoded command
// results, exported so an external persistence layer can snapshot and
// restore it without reaching into Protocol internals. Eviction is lazy: a
// stale entry is simply treated as a miss on lookup, matching spec's
// "eviction is lazy on read" resource-model note.
type Cache struct {
	clock clockwork.Clock

	mu      sync.RWMutex
	entries map[CacheKey]cacheEntry
}

// NewCache constructs an empty Cache using the real wall clock.
func NewCache() *Cache {
	return &Cache{clock: clockwork.NewRealClock(), entries: map[CacheKey]cacheEntry{}}
}

// SetClock overrides the clock used for TTL checks; intended for tests.
func (c *Cache) SetClock(clock clockwork.Clock) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clock = clock
}

// Get returns the cached result for key if present and not yet expired.
func (c *Cache) Get(key CacheKey) (data []byte, respType byte, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, found := c.entries[key]
	if !found || c.clock.Now().Sub(e.ts) > CacheTTL {
		return nil, 0, false
	}
	return e.data, e.respType, true
}

// Set stores a result for key, timestamped now.
func (c *Cache) Set(key CacheKey, data []byte, respType byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = map[CacheKey]cacheEntry{}
	}
	c.entries[key] = cacheEntry{data: data, respType: respType, ts: c.clock.Now()}
}

// Export returns a snapshot of every entry, for an external persistence
// layer to serialize. The on-disk format is explicitly out of scope; this
// only exposes the in-memory contents.
func (c *Cache) Export() map[CacheKey][]byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[CacheKey][]byte, len(c.entries))
	for k, e := range c.entries {
		out[k] = e.data
	}
	return out
}
