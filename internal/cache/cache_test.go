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
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	SetClient(rdb)
	t.Cleanup(func() {
		SetClient(nil)
		_ = rdb.Close()
	})
	return mr
}

type fakeProfile struct {
	Nickname string `json:"nickname"`
	Points   int    `json:"points"`
}

func TestAsideFillsAndCaches(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	calls := 0
	var got fakeProfile
	fill := func() error {
		calls++
		got = fakeProfile{Nickname: "ada", Points: 7}
		return nil
	}

	require.NoError(t, Aside(ctx, ProfileKey(1), &got, ProfileTTL, fill))
	assert.Equal(t, "ada", got.Nickname)
	assert.Equal(t, 1, calls)

	// Second read is served from the cache.
	var cached fakeProfile
	require.NoError(t, Aside(ctx, ProfileKey(1), &cached, ProfileTTL, fill))
	assert.Equal(t, 7, cached.Points)
	assert.Equal(t, 1, calls)
}

func TestAsideExpiry(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	calls := 0
	var got int
	fill := func() error {
		calls++
		got = calls
		return nil
	}

	require.NoError(t, Aside(ctx, "counter", &got, time.Minute, fill))

	mr.FastForward(2 * time.Minute)

	require.NoError(t, Aside(ctx, "counter", &got, time.Minute, fill))
	assert.Equal(t, 2, got)
}

func TestAsidePropagatesFillError(t *testing.T) {
	setupMiniredis(t)

	wantErr := errors.New("db down")
	var dest int
	err := Aside(context.Background(), "boom", &dest, time.Minute, func() error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestAsideWithoutClient(t *testing.T) {
	SetClient(nil)

	var got string
	err := Aside(context.Background(), "nocache", &got, time.Minute, func() error {
		got = "direct"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "direct", got)
}

func TestPostsListKeyChangesOnInvalidate(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	before := PostsListKey(ctx, "main", 1, 20)
	InvalidatePostsList(ctx)
	after := PostsListKey(ctx, "main", 1, 20)

	assert.NotEqual(t, before, after)
}

func TestInvalidateUserClearsProfile(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, UserKey(3), "u", 0).Err())
	require.NoError(t, client.Set(ctx, ProfileKey(3), "p", 0).Err())

	InvalidateUser(ctx, 3)

	assert.False(t, mr.Exists(UserKey(3)))
	assert.False(t, mr.Exists(ProfileKey(3)))
}
