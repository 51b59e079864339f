package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_FreshAndStale(t *testing.T) {
	clock := newFakeClock()
	cache := NewCache(time.Minute, clock.Now)

	_, ok := cache.Fresh()
	assert.False(t, ok)

	assert.True(t, cache.Store(sampleLeaves("1"), cache.Generation()))

	list, ok := cache.Fresh()
	assert.True(t, ok)
	assert.Len(t, list, 1)

	clock.Advance(time.Minute)
	_, ok = cache.Fresh()
	assert.False(t, ok)

	list, ok = cache.Stale()
	assert.True(t, ok)
	assert.Len(t, list, 1)
}

func TestCache_EmptyListIsCached(t *testing.T) {
	cache := NewCache(0, newFakeClock().Now)

	cache.Store(nil, cache.Generation())

	list, ok := cache.Fresh()
	assert.True(t, ok)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestCache_StoreRejectsOldGeneration(t *testing.T) {
	cache := NewCache(time.Minute, newFakeClock().Now)
	gen := cache.Generation()

	cache.Invalidate()

	assert.False(t, cache.Store(sampleLeaves("1"), gen))
	_, ok := cache.Stale()
	assert.False(t, ok)
}

func TestCache_Age(t *testing.T) {
	clock := newFakeClock()
	cache := NewCache(time.Minute, clock.Now)

	_, ok := cache.Age()
	assert.False(t, ok)

	cache.Store(sampleLeaves("1"), cache.Generation())
	clock.Advance(15 * time.Second)

	age, ok := cache.Age()
	assert.True(t, ok)
	assert.Equal(t, 15*time.Second, age)
}
