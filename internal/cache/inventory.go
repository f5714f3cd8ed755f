package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix      = "user:%d"
	PostKeyPrefix      = "post:%d"
	PostVotesKeyPrefix = "post:%d:votes"
	PostsListKeyName   = "posts:first_page"
	AnnouncementsKey   = "announcements:active"
)

const (
	UserTTL          = 5 * time.Minute
	PostTTL          = 30 * time.Minute
	PostVotesTTL     = 30 * time.Second
	ListTTL          = 1 * time.Minute
	AnnouncementsTTL = 5 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func PostVotesKey(postID uint) string {
	return fmt.Sprintf(PostVotesKeyPrefix, postID)
}

func PostsListKey() string {
	return PostsListKeyName
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
	Invalidate(ctx, PostVotesKey(postID))
}

func InvalidatePostsList(ctx context.Context) {
	Invalidate(ctx, PostsListKey())
}

func InvalidateAnnouncements(ctx context.Context) {
	Invalidate(ctx, AnnouncementsKey)
}
