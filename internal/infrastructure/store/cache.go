package store

import (
	"sync"
	"time"

	"github.com/garyjia/school-leave/internal/domain/entity"
)

// DefaultCacheTTL is how long a fetched list is served without a remote read
const DefaultCacheTTL = 60 * time.Second

// Cache holds the last list read from the remote store. It is safe for
// concurrent use and hands out copies only.
type Cache struct {
	mu         sync.RWMutex
	ttl        time.Duration
	now        func() time.Time
	data       []entity.LeaveRequest
	present    bool
	fetchedAt  time.Time
	generation uint64
}

// NewCache creates an empty cache. A nil clock means time.Now.
func NewCache(ttl time.Duration, now func() time.Time) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Cache{ttl: ttl, now: now}
}

// Fresh returns the cached list if one is present and younger than the TTL
func (c *Cache) Fresh() ([]entity.LeaveRequest, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.present || c.now().Sub(c.fetchedAt) >= c.ttl {
		return nil, false
	}
	return cloneLeaves(c.data), true
}

// Stale returns the cached list regardless of age
func (c *Cache) Stale() ([]entity.LeaveRequest, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.present {
		return nil, false
	}
	return cloneLeaves(c.data), true
}

// Generation identifies the current cache epoch; Invalidate starts a new one
func (c *Cache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// Store replaces the cached list wholesale and resets its age. It is a
// no-op when the cache was invalidated after generation was read, so a
// read that raced with a write cannot repopulate pre-write data.
func (c *Cache) Store(list []entity.LeaveRequest, generation uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation {
		return false
	}
	c.data = cloneLeaves(list)
	c.present = true
	c.fetchedAt = c.now()
	return true
}

// Invalidate drops the cached list and its timestamp
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = nil
	c.present = false
	c.fetchedAt = time.Time{}
	c.generation++
}

// Age returns how old the cached list is, or false when nothing is cached
func (c *Cache) Age() (time.Duration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.present {
		return 0, false
	}
	return c.now().Sub(c.fetchedAt), true
}

func cloneLeaves(list []entity.LeaveRequest) []entity.LeaveRequest {
	if list == nil {
		return []entity.LeaveRequest{}
	}
	return append(make([]entity.LeaveRequest, 0, len(list)), list...)
}
