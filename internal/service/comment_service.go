package service

import (
	"context"

	"studentvoice/internal/cache"
	"studentvoice/internal/middleware"
	"studentvoice/internal/models"
	"studentvoice/internal/repository"
	"studentvoice/internal/validation"

	"github.com/redis/go-redis/v9"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	pointsRepo  repository.PointsRepository
	rdb         *redis.Client
}

type CreateCommentInput struct {
	UserID uint
	PostID uint
	Text   string
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	pointsRepo repository.PointsRepository,
	rdb *redis.Client,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		pointsRepo:  pointsRepo,
		rdb:         rdb,
	}
}

// ListComments returns the full comment list of a post, oldest first.
func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]models.CommentView, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, mapNotFound(err, "Post", postID)
	}

	var views []models.CommentView
	err := cache.Aside(ctx, s.rdb, cache.CommentsKey(postID), &views, cache.CommentsTTL, func() error {
		comments, err := s.commentRepo.ListByPost(ctx, postID)
		if err != nil {
			return models.NewInternalError(err)
		}
		views = models.CommentViews(comments)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.CommentView, error) {
	text, err := validation.NormalizeText(in.Text)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, mapNotFound(err, "Post", in.PostID)
	}

	comment := &models.Comment{Text: text, UserID: in.UserID, PostID: in.PostID}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, s.rdb, in.PostID)

	if s.pointsRepo != nil {
		if err := s.pointsRepo.Add(ctx, in.UserID, models.PointsCommunity, models.AwardComment); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to award comment points", "user_id", in.UserID, "error", err)
		}
	}

	created, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	view := created.View()
	return &view, nil
}
