package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"studentvoice/internal/cache"
	"studentvoice/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestCreatePost_RejectsBlankTextBeforeWriting(t *testing.T) {
	t.Parallel()
	repo := noopPostRepo()
	repo.createFn = func(context.Context, *models.Post) error {
		t.Fatal("repository must not be called for blank text")
		return nil
	}
	svc := NewPostService(repo, newPointsRepoStub(), nil)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := svc.CreatePost(context.Background(), CreatePostInput{UserID: 1, Text: text})
		assertAppErrorCode(t, err, models.CodeValidation)
	}
}

func TestCreatePost_TrimsAwardsAndReturnsView(t *testing.T) {
	t.Parallel()
	var stored *models.Post
	repo := noopPostRepo()
	repo.createFn = func(_ context.Context, p *models.Post) error {
		p.ID = 42
		stored = p
		return nil
	}
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, Text: stored.Text, UserID: 7, User: models.User{ID: 7, Name: "Asha", IsVerified: true}}, nil
	}
	points := newPointsRepoStub()
	svc := NewPostService(repo, points, nil)

	view, err := svc.CreatePost(context.Background(), CreatePostInput{UserID: 7, Text: "  hello campus  "})
	require.NoError(t, err)
	assert.Equal(t, "hello campus", stored.Text)
	assert.Equal(t, "42", view.ID)
	assert.Equal(t, "Asha", view.Author.Name)
	assert.True(t, view.Author.Verified)
	assert.NotNil(t, view.LikedBy)
	assert.Equal(t, models.AwardPost, points.added[models.PointsCommunity])
}

func TestCreatePost_PointsFailureDoesNotFailPost(t *testing.T) {
	t.Parallel()
	points := newPointsRepoStub()
	points.addErr = errors.New("db down")
	svc := NewPostService(noopPostRepo(), points, nil)

	_, err := svc.CreatePost(context.Background(), CreatePostInput{UserID: 1, Text: "ok"})
	assert.NoError(t, err)
}

func TestToggleLike_NotFound(t *testing.T) {
	t.Parallel()
	repo := noopPostRepo()
	repo.getByIDFn = func(context.Context, uint) (*models.Post, error) { return nil, gorm.ErrRecordNotFound }
	repo.toggleLikeFn = func(context.Context, uint, uint) (bool, error) {
		t.Fatal("toggle must not run for a missing post")
		return false, nil
	}
	svc := NewPostService(repo, nil, nil)

	_, _, err := svc.ToggleLike(context.Background(), 1, 9)
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func TestToggleLike_ReturnsAuthoritativePost(t *testing.T) {
	t.Parallel()
	likes := []models.Like{}
	repo := noopPostRepo()
	repo.toggleLikeFn = func(_ context.Context, userID, postID uint) (bool, error) {
		likes = append(likes, models.Like{UserID: userID, PostID: postID})
		return true, nil
	}
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, Likes: likes, User: models.User{ID: 2, Name: "Ravi"}}, nil
	}
	svc := NewPostService(repo, nil, nil)

	view, liked, err := svc.ToggleLike(context.Background(), 5, 3)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, []string{"5"}, view.LikedBy)
}

func TestListPosts_CacheAsideAndInvalidation(t *testing.T) {
	t.Parallel()
	_, rdb := newMiniRedis(t)

	calls := 0
	repo := noopPostRepo()
	repo.listFn = func(_ context.Context, limit, offset int) ([]*models.Post, error) {
		calls++
		assert.Equal(t, DefaultPageSize, limit)
		return []*models.Post{
			{ID: 2, Text: "b", CreatedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
			{ID: 1, Text: "a", CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		}, nil
	}
	svc := NewPostService(repo, nil, rdb)
	ctx := context.Background()

	first, err := svc.ListPosts(ctx, ListPostsInput{})
	require.NoError(t, err)
	second, err := svc.ListPosts(ctx, ListPostsInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	require.Len(t, second, 2)
	assert.Equal(t, first[0].ID, second[0].ID)

	exists, err := rdb.Exists(ctx, cache.PostListKey).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)

	_, err = svc.CreatePost(ctx, CreatePostInput{UserID: 1, Text: "new"})
	require.NoError(t, err)

	_, err = svc.ListPosts(ctx, ListPostsInput{})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestListPosts_OffsetBypassesCache(t *testing.T) {
	t.Parallel()
	_, rdb := newMiniRedis(t)

	calls := 0
	repo := noopPostRepo()
	repo.listFn = func(_ context.Context, _, offset int) ([]*models.Post, error) {
		calls++
		assert.Equal(t, 50, offset)
		return nil, nil
	}
	svc := NewPostService(repo, nil, rdb)

	for range 2 {
		views, err := svc.ListPosts(context.Background(), ListPostsInput{Offset: 50})
		require.NoError(t, err)
		assert.NotNil(t, views)
	}
	assert.Equal(t, 2, calls)
}

func TestGetPost_CachedUntilLiked(t *testing.T) {
	t.Parallel()
	mr, rdb := newMiniRedis(t)

	gets := 0
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		gets++
		return &models.Post{ID: id, Text: "cached", User: models.User{ID: 1, Name: "Asha"}}, nil
	}
	svc := NewPostService(repo, nil, rdb)
	ctx := context.Background()

	for range 2 {
		view, err := svc.GetPost(ctx, 8)
		require.NoError(t, err)
		assert.Equal(t, "cached", view.Text)
	}
	assert.Equal(t, 1, gets)
	assert.True(t, mr.Exists(cache.PostKey(8)))

	// existence check, then the refreshed view
	_, _, err := svc.ToggleLike(ctx, 1, 8)
	require.NoError(t, err)
	assert.Equal(t, 3, gets)

	_, err = svc.GetPost(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, 3, gets)
}

func TestGetPost_NotFoundIsNotCached(t *testing.T) {
	t.Parallel()
	mr, rdb := newMiniRedis(t)
	repo := noopPostRepo()
	repo.getByIDFn = func(context.Context, uint) (*models.Post, error) { return nil, gorm.ErrRecordNotFound }
	svc := NewPostService(repo, nil, rdb)

	_, err := svc.GetPost(context.Background(), 9)
	assertAppErrorCode(t, err, models.CodeNotFound)
	assert.False(t, mr.Exists(cache.PostKey(9)))
}
