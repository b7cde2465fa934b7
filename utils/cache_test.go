package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Without a configured Redis host the cache layer must behave as a silent
// pass-through: misses on read, no-ops on write and invalidation. Handlers
// call these unconditionally, so the nil path has to be safe.
func TestCacheIsNoOpWithoutRedis(t *testing.T) {
	assert.Nil(t, GetRedis())

	b, ok := CacheGetBytes("cache:posts:anon")
	assert.False(t, ok)
	assert.Nil(t, b)

	CacheSetBytes("cache:posts:anon", []byte(`[]`), time.Minute)
	CacheSetJSON("cache:posts:anon", []string{"x"}, 0)
	InvalidateByPrefix("cache:posts")

	_, ok = CacheGetBytes("cache:posts:anon")
	assert.False(t, ok)
}

func TestCacheSetJSONSkipsUnmarshalable(t *testing.T) {
	// Marshal failure must not reach the store at all.
	CacheSetJSON("cache:bad", func() {}, time.Minute)
}
