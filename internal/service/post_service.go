// Package service implements the community API's use cases on top of the repositories.
package service

import (
	"context"
	"errors"

	"studentvoice/internal/cache"
	"studentvoice/internal/middleware"
	"studentvoice/internal/models"
	"studentvoice/internal/repository"
	"studentvoice/internal/validation"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// DefaultPageSize is the feed page served when the caller does not ask for one.
const DefaultPageSize = 50

type PostService struct {
	postRepo   repository.PostRepository
	pointsRepo repository.PointsRepository
	rdb        *redis.Client
}

type CreatePostInput struct {
	UserID uint
	Text   string
}

type ListPostsInput struct {
	Limit  int
	Offset int
}

func NewPostService(
	postRepo repository.PostRepository,
	pointsRepo repository.PointsRepository,
	rdb *redis.Client,
) *PostService {
	return &PostService{
		postRepo:   postRepo,
		pointsRepo: pointsRepo,
		rdb:        rdb,
	}
}

// ListPosts returns posts newest first. The first default-sized page is served cache-aside.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]models.PostView, error) {
	if in.Limit <= 0 || in.Limit > DefaultPageSize {
		in.Limit = DefaultPageSize
	}
	if in.Offset < 0 {
		in.Offset = 0
	}

	fetch := func() ([]models.PostView, error) {
		posts, err := s.postRepo.List(ctx, in.Limit, in.Offset)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		return models.PostViews(posts), nil
	}

	if in.Offset != 0 || in.Limit != DefaultPageSize {
		return fetch()
	}

	var views []models.PostView
	err := cache.Aside(ctx, s.rdb, cache.PostListKey, &views, cache.PostListTTL, func() error {
		var fetchErr error
		views, fetchErr = fetch()
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.PostView, error) {
	text, err := validation.NormalizeText(in.Text)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	post := &models.Post{Text: text, UserID: in.UserID}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	cache.Invalidate(ctx, s.rdb, cache.PostListKey)
	s.award(ctx, in.UserID, models.PointsCommunity, models.AwardPost)

	return s.GetPost(ctx, post.ID)
}

// GetPost returns one post, served cache-aside. Every write touching the
// post drops the entry through cache.InvalidatePost.
func (s *PostService) GetPost(ctx context.Context, postID uint) (*models.PostView, error) {
	var view models.PostView
	err := cache.Aside(ctx, s.rdb, cache.PostKey(postID), &view, cache.PostTTL, func() error {
		post, err := s.postRepo.GetByID(ctx, postID)
		if err != nil {
			return mapNotFound(err, "Post", postID)
		}
		view = post.View()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// ToggleLike flips the user's like and returns the authoritative post.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (*models.PostView, bool, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, false, mapNotFound(err, "Post", postID)
	}
	liked, err := s.postRepo.ToggleLike(ctx, userID, postID)
	if err != nil {
		return nil, false, models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, s.rdb, postID)

	view, err := s.GetPost(ctx, postID)
	if err != nil {
		return nil, false, err
	}
	return view, liked, nil
}

func (s *PostService) award(ctx context.Context, userID uint, category string, amount int) {
	if s.pointsRepo == nil {
		return
	}
	if err := s.pointsRepo.Add(ctx, userID, category, amount); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to award points",
			"user_id", userID, "category", category, "error", err)
	}
}

func mapNotFound(err error, resource string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return models.NewInternalError(err)
}
