package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix    = "user:%d"
	ProfileKeyPrefix = "profile:%d"
	PostKeyPrefix    = "post:%d"
	LabelKeyPrefix   = "label:%d"

	// Post listing pages are version-stamped; bumping the version key
	// invalidates every cached page at once.
	PostsListVersionKey = "posts:lists:ver"
	PostsListPrefix     = "posts:%s:v%d:p%d:l%d"
)

const (
	UserTTL     = 5 * time.Minute
	ProfileTTL  = 2 * time.Minute
	PostTTL     = 30 * time.Minute
	LabelTTL    = time.Hour
	PostListTTL = time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func ProfileKey(userID uint) string {
	return fmt.Sprintf(ProfileKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func LabelKey(wikidataID int64) string {
	return fmt.Sprintf(LabelKeyPrefix, wikidataID)
}

// PostsListKey returns the cache key for one page of a post listing.
// scope identifies the listing ("main", "user:5", "tag:42").
func PostsListKey(ctx context.Context, scope string, page, limit int) string {
	return fmt.Sprintf(PostsListPrefix, scope, listVersion(ctx), page, limit)
}

func listVersion(ctx context.Context) int64 {
	if client == nil {
		return 0
	}
	v, err := client.Get(ctx, PostsListVersionKey).Int64()
	if err != nil {
		return 0
	}
	return v
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
	Invalidate(ctx, ProfileKey(userID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

// InvalidatePostsList bumps the listing version so stale pages fall out of rotation.
func InvalidatePostsList(ctx context.Context) {
	if client != nil {
		client.Incr(ctx, PostsListVersionKey)
	}
}
