package cache

import "time"

// TTL is how long an entry stays live after it is created.
const TTL = 5 * time.Minute

// Entry pairs a key with the instant it stops being served.
// Entries are never modified after creation; an expired one is replaced.
type Entry struct {
	ID        int       `json:"id"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Cache hands out one live Entry per integer key.
type Cache interface {
	// GetOrAdd returns the live entry for id, creating a fresh one if the key
	// is absent or its entry has expired.
	GetOrAdd(id int) *Entry

	// Remove deletes id if present.
	Remove(id int)

	// Len returns the number of stored entries, expired or not.
	Len() int
}
