package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	SetClient(rdb)
	t.Cleanup(func() { SetClient(nil) })

	return mr
}

type cachedPayload struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func TestGetSetJSON(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	var out cachedPayload
	assert.False(t, GetJSON(ctx, "posts:1", &out), "miss before set")

	SetJSON(ctx, "posts:1", cachedPayload{ID: 1, Title: "hello"}, time.Minute)
	assert.True(t, GetJSON(ctx, "posts:1", &out))
	assert.Equal(t, "hello", out.Title)

	// Corrupt entries are evicted rather than returned.
	mr.Set("posts:1", "{not json")
	assert.False(t, GetJSON(ctx, "posts:1", &out))
	assert.False(t, mr.Exists("posts:1"))
}

func TestGetSetJSON_NilClient(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	var out cachedPayload
	assert.False(t, GetJSON(ctx, "posts:1", &out))
	SetJSON(ctx, "posts:1", cachedPayload{ID: 1}, time.Minute) // must not panic
}

func TestAside(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	loads := 0
	load := func(dest *cachedPayload) func() error {
		return func() error {
			loads++
			*dest = cachedPayload{ID: 2, Title: "loaded"}
			return nil
		}
	}

	var first cachedPayload
	require.NoError(t, Aside(ctx, "posts:2", &first, time.Minute, load(&first)))
	assert.Equal(t, "loaded", first.Title)
	assert.Equal(t, 1, loads)

	var second cachedPayload
	require.NoError(t, Aside(ctx, "posts:2", &second, time.Minute, load(&second)))
	assert.Equal(t, "loaded", second.Title)
	assert.Equal(t, 1, loads, "second read must come from the cache")
}

func TestAside_LoadErrorNotCached(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	boom := errors.New("db down")
	var out cachedPayload
	err := Aside(ctx, "posts:3", &out, time.Minute, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("posts:3"))
}

func TestInvalidatePost(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	SetJSON(ctx, PostKey(5), cachedPayload{ID: 5}, time.Minute)
	SetJSON(ctx, PostVotesKey(5), cachedPayload{ID: 5}, time.Minute)

	InvalidatePost(ctx, 5)
	assert.False(t, mr.Exists(PostKey(5)))
	assert.False(t, mr.Exists(PostVotesKey(5)))
}
