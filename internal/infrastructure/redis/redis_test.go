package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/noteplus/internal/domain"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestClient_Ping(t *testing.T) {
	c, mr := newTestClient(t)
	require.NoError(t, c.Ping(context.Background()))

	mr.Close()
	assert.Error(t, c.Ping(context.Background()))
}

func TestFixedWindowLimiter_NilClient_Allows(t *testing.T) {
	l := NewFixedWindowLimiter(nil)

	d, err := l.Allow(context.Background(), "k", 10, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 10, d.Remaining)
}

func TestFixedWindowLimiter_LimitZero_Allows(t *testing.T) {
	c, _ := newTestClient(t)
	d, err := NewFixedWindowLimiter(c).Allow(context.Background(), "k", 0, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestFixedWindowLimiter_BlocksAfterLimit_ThenResets(t *testing.T) {
	c, mr := newTestClient(t)
	l := NewFixedWindowLimiter(c)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		d, err := l.Allow(ctx, "rl:login:1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, d.Allowed, "hit %d", i)
		assert.Equal(t, 3-i, d.Remaining)
	}

	d, err := l.Allow(ctx, "rl:login:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.Equal(t, 4, d.Count)
	assert.Greater(t, d.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, d.RetryAfter, time.Minute)

	// other keys are independent
	d, err = l.Allow(ctx, "rl:login:5.6.7.8", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	mr.FastForward(time.Minute + time.Second)
	d, err = l.Allow(ctx, "rl:login:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Count)
}

func TestFixedWindowLimiter_RedisDown_ReturnsError(t *testing.T) {
	c, mr := newTestClient(t)
	mr.Close()

	_, err := NewFixedWindowLimiter(c).Allow(context.Background(), "k", 1, time.Minute)
	assert.Error(t, err)
}

func TestNoteCache_SetGetInvalidate(t *testing.T) {
	c, mr := newTestClient(t)
	cache := NewNoteCache(c, 30*time.Second)
	ctx := context.Background()

	_, ver, ok, err := cache.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(0), ver)

	created := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)
	notes := []domain.Note{
		{ID: "n2", OwnerEmail: "a@x.com", Category: "งาน", Title: "T2", Content: "C2", CreatedAt: created.Add(time.Minute), UpdatedAt: &updated},
		{ID: "n1", OwnerEmail: "a@x.com", Category: "อื่นๆ", Title: "T1", Content: "C1", CreatedAt: created},
	}
	require.NoError(t, cache.Set(ctx, "a@x.com", ver, notes))
	assert.Equal(t, 30*time.Second, mr.TTL(noteListKey("a@x.com")))

	got, _, ok, err := cache.Get(ctx, "a@x.com")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, "n2", got[0].ID)
	assert.Equal(t, "งาน", got[0].Category)
	require.NotNil(t, got[0].UpdatedAt)
	assert.True(t, updated.Equal(*got[0].UpdatedAt))
	assert.Nil(t, got[1].UpdatedAt)

	require.NoError(t, cache.Invalidate(ctx, "a@x.com"))
	_, ver, ok, err = cache.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(1), ver)
}

func TestNoteCache_SetWithStaleVersionIsDropped(t *testing.T) {
	c, mr := newTestClient(t)
	cache := NewNoteCache(c, 30*time.Second)
	ctx := context.Background()

	// reader takes the version before its store read
	_, readerVer, ok, err := cache.Get(ctx, "a@x.com")
	require.NoError(t, err)
	require.False(t, ok)

	// a writer commits and invalidates while the reader is still in the store
	require.NoError(t, cache.Invalidate(ctx, "a@x.com"))

	// the reader's pre-write snapshot must not land in the cache
	require.NoError(t, cache.Set(ctx, "a@x.com", readerVer, []domain.Note{{ID: "old"}}))
	assert.False(t, mr.Exists(noteListKey("a@x.com")))

	_, ver, ok, err := cache.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, ok)

	// a reader that started after the write may populate
	require.NoError(t, cache.Set(ctx, "a@x.com", ver, []domain.Note{{ID: "old"}, {ID: "new"}}))
	got, _, ok, err := cache.Get(ctx, "a@x.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, got, 2)
}

func TestNoteCache_InvalidateSetsVersionTTL(t *testing.T) {
	c, mr := newTestClient(t)
	cache := NewNoteCache(c, 0)

	require.NoError(t, cache.Invalidate(context.Background(), "a@x.com"))
	assert.Equal(t, versionTTL, mr.TTL(noteVersionKey("a@x.com")))
}

func TestNoteCache_CorruptEntryIsDropped(t *testing.T) {
	c, mr := newTestClient(t)
	cache := NewNoteCache(c, 0)
	require.NoError(t, mr.Set(noteListKey("a@x.com"), "{not json"))

	_, _, ok, err := cache.Get(context.Background(), "a@x.com")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists(noteListKey("a@x.com")))
}

func TestNoteCache_Expires(t *testing.T) {
	c, mr := newTestClient(t)
	cache := NewNoteCache(c, time.Second)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a@x.com", 0, []domain.Note{{ID: "n1"}}))
	mr.FastForward(2 * time.Second)

	_, _, ok, err := cache.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, ok)
}
