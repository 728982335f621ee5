package repository

import (
	"context"

	"studentvoice/internal/models"

	"gorm.io/gorm"
)

// MentorRepository stores AI mentor exchanges.
type MentorRepository interface {
	Create(ctx context.Context, chat *models.MentorChat) error
	ListByUser(ctx context.Context, userID uint, limit int) ([]*models.MentorChat, error)
}

type mentorRepository struct {
	db *gorm.DB
}

func NewMentorRepository(db *gorm.DB) MentorRepository {
	return &mentorRepository{db: db}
}

func (r *mentorRepository) Create(ctx context.Context, chat *models.MentorChat) error {
	return r.db.WithContext(ctx).Create(chat).Error
}

// ListByUser returns the most recent exchanges first.
func (r *mentorRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]*models.MentorChat, error) {
	var chats []*models.MentorChat
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&chats).Error
	return chats, err
}
