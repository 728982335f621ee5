package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	PostListKey    = "posts:list"
	PostKeyPrefix  = "post:%d"
	CommentsPrefix = "post:%d:comments"
	SurveyPrefix   = "survey:%s:results"
)

const (
	PostListTTL = 30 * time.Second
	PostTTL     = time.Minute
	CommentsTTL = time.Minute
	SurveyTTL   = 2 * time.Minute
)

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func CommentsKey(postID uint) string {
	return fmt.Sprintf(CommentsPrefix, postID)
}

// SurveyResultsKey names the cached tally of a college survey.
func SurveyResultsKey(college string) string {
	return fmt.Sprintf(SurveyPrefix, college)
}

// Invalidate deletes keys, ignoring a nil client.
func Invalidate(ctx context.Context, rdb *redis.Client, keys ...string) {
	if rdb == nil || len(keys) == 0 {
		return
	}
	rdb.Del(ctx, keys...)
}

// InvalidatePost drops every cached view that embeds the post.
func InvalidatePost(ctx context.Context, rdb *redis.Client, postID uint) {
	Invalidate(ctx, rdb, PostListKey, PostKey(postID), CommentsKey(postID))
}
