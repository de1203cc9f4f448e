package querycache_test

import (
	"testing"
	"time"

	"github.com/ezsplit/ezsplit-go/internal/querycache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSet(t *testing.T) {
	c := querycache.New[string](10, time.Minute)

	_, ok := c.Get("groups")
	assert.False(t, ok)

	c.Set("groups", "cached")
	got, ok := c.Get("groups")
	require.True(t, ok)
	assert.Equal(t, "cached", got)
}

func TestInvalidatePattern(t *testing.T) {
	c := querycache.New[int](10, time.Minute)
	c.Set("expenses?page=1", 1)
	c.Set("expenses?page=2", 2)
	c.Set("expenses/42", 3)
	c.Set("groups/7", 4)

	removed := c.Invalidate("expenses*")
	assert.Equal(t, 3, removed)

	_, ok := c.Get("expenses?page=1")
	assert.False(t, ok)
	_, ok = c.Get("expenses/42")
	assert.False(t, ok)

	// Unrelated queries survive.
	got, ok := c.Get("groups/7")
	require.True(t, ok)
	assert.Equal(t, 4, got)
}

func TestTTLExpiry(t *testing.T) {
	c := querycache.New[string](10, 10*time.Millisecond)
	c.Set("session", "user")

	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("session")
	assert.False(t, ok)
}

func TestLRUEviction(t *testing.T) {
	c := querycache.New[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	// Touch "a" so "b" is the eviction candidate.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("c", 3)
	assert.Equal(t, 2, c.Size())

	_, ok = c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
}

func TestCleanExpired(t *testing.T) {
	c := querycache.New[int](10, 10*time.Millisecond)
	c.Set("a", 1)
	c.Set("b", 2)

	time.Sleep(20 * time.Millisecond)
	c.Set("fresh", 3)

	assert.Equal(t, 2, c.CleanExpired())
	assert.Equal(t, 1, c.Size())
}
