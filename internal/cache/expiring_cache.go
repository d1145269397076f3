package cache

import (
	"sync"

	"node-cache-api/internal/clock"
)

// ExpiringCache is a map-backed Cache with lazy, on-read expiry.
// There is no janitor: an expired entry stays in the map until its key is
// requested again or removed.
type ExpiringCache struct {
	// If muPtr is nil, the cache is NOT goroutine-safe.
	// If muPtr is non-nil, it is held for the whole of every call.
	muPtr *sync.Mutex

	clock clock.Clock
	items map[int]*Entry
}

// Options controls construction of an ExpiringCache.
type Options struct {
	// ConcurrencySafe serializes every call behind a single mutex.
	// Leave it false when the cache is only touched from one goroutine.
	ConcurrencySafe bool
}

// NewExpiringCache constructs an empty cache reading time from c.
func NewExpiringCache(c clock.Clock, opts Options) *ExpiringCache {
	var mu *sync.Mutex
	if opts.ConcurrencySafe {
		mu = &sync.Mutex{}
	}
	return &ExpiringCache{
		muPtr: mu,
		clock: c,
		items: make(map[int]*Entry),
	}
}

func (c *ExpiringCache) lock() func() {
	if c.muPtr == nil {
		return func() {}
	}
	c.muPtr.Lock()
	return c.muPtr.Unlock
}

// GetOrAdd implements Cache.GetOrAdd.
func (c *ExpiringCache) GetOrAdd(id int) *Entry {
	e, _ := c.Fetch(id)
	return e
}

// Fetch is GetOrAdd that also reports whether the returned entry was created
// by this call.
func (c *ExpiringCache) Fetch(id int) (*Entry, bool) {
	unlock := c.lock()
	defer unlock()

	now := c.clock.Now()
	if e, ok := c.items[id]; ok {
		// expiry is exclusive: an entry expiring exactly now is dead
		if e.ExpiresAt.After(now) {
			return e, false
		}
		delete(c.items, id)
	}

	e := &Entry{
		ID:        id,
		ExpiresAt: now.Add(TTL),
	}
	c.items[id] = e
	return e, true
}

// Remove implements Cache.Remove.
func (c *ExpiringCache) Remove(id int) {
	c.Delete(id)
}

// Delete is Remove that reports whether an entry was stored for id.
// An expired entry that was never observed still counts as stored.
func (c *ExpiringCache) Delete(id int) bool {
	unlock := c.lock()
	defer unlock()
	_, ok := c.items[id]
	delete(c.items, id)
	return ok
}

// Len implements Cache.Len.
func (c *ExpiringCache) Len() int {
	unlock := c.lock()
	defer unlock()
	return len(c.items)
}

// Ensure ExpiringCache implements Cache at compile time.
var _ Cache = (*ExpiringCache)(nil)
