package handlers

import (
	"node-cache-api/internal/cache"
	"node-cache-api/internal/clock"
)

// Handlers share one clock and one entry cache. gin serves requests
// concurrently, so the cache is built concurrency-safe.
var (
	serverClock clock.Clock = clock.System()
	entries                 = cache.NewExpiringCache(serverClock, cache.Options{ConcurrencySafe: true})
)

// EntryCount reports how many node entries the cache currently holds.
func EntryCount() int {
	return entries.Len()
}
