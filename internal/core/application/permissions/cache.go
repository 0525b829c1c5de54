// Package permissions answers "may this user do that" for the HTTP layer.
//
// Role-based checks are an optional shop feature switched by the
// user_roles_management flag. Any failure to read flags or grants allows the
// action and is reported as AllowByDefault, so callers and tests can tell a
// fail-open answer apart from a real grant.
//
// The checker trusts the kernel.Actor it is given, and an admin role bypasses
// every grant. Establishing that the actor is genuine is the job of whatever
// authenticates the request before it reaches the service.
package permissions

import (
	"slices"
	"sync"
	"time"
)

// CacheTTL is how long a user's permission list is reused before it is reloaded.
const CacheTTL = 60 * time.Second

// Clock returns the current time.
type Clock func() time.Time

// Cache is an immutable snapshot of one user's permission codes.
type Cache struct {
	entries   []string
	fetchedAt time.Time
}

// NewCache sorts and de-duplicates entries so Has can binary search.
func NewCache(entries []string, fetchedAt time.Time) Cache {
	sorted := slices.Clone(entries)
	slices.Sort(sorted)
	return Cache{entries: slices.Compact(sorted), fetchedAt: fetchedAt}
}

// Entries returns a sorted copy of the permission codes.
func (c Cache) Entries() []string {
	return slices.Clone(c.entries)
}

// FetchedAt returns when the snapshot was loaded.
func (c Cache) FetchedAt() time.Time {
	return c.fetchedAt
}

// IsFresh reports whether the snapshot was loaded less than ttl before now. The
// zero Cache is never fresh.
func (c Cache) IsFresh(now time.Time, ttl time.Duration) bool {
	if c.fetchedAt.IsZero() {
		return false
	}
	return now.Sub(c.fetchedAt) < ttl
}

// Has reports whether the snapshot grants code.
func (c Cache) Has(code string) bool {
	_, found := slices.BinarySearch(c.entries, code)
	return found
}

// CacheStore keeps the latest Cache of each user.
type CacheStore struct {
	mu     sync.RWMutex
	caches map[string]Cache
}

// NewCacheStore returns an empty store, safe for concurrent use.
func NewCacheStore() *CacheStore {
	return &CacheStore{caches: make(map[string]Cache)}
}

// Get returns the stored snapshot, or the zero Cache when there is none.
func (s *CacheStore) Get(userID string) Cache {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.caches[userID]
}

// Put replaces the snapshot of userID.
func (s *CacheStore) Put(userID string, cache Cache) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.caches[userID] = cache
}

// Clear drops every cached snapshot, e.g. after roles were edited.
func (s *CacheStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.caches)
}

// Evict drops snapshots that are no longer fresh at now and returns how many
// were removed.
func (s *CacheStore) Evict(now time.Time, ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for userID, cache := range s.caches {
		if !cache.IsFresh(now, ttl) {
			delete(s.caches, userID)
			removed++
		}
	}
	return removed
}

// Len returns the number of cached users.
func (s *CacheStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.caches)
}
