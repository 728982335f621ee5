package repository

import (
	"context"

	"studentvoice/internal/models"
	"studentvoice/internal/observability"

	"gorm.io/gorm"
)

// ScheduleRepository stores learning schedules generated by the mentor.
type ScheduleRepository interface {
	Create(ctx context.Context, schedule *models.LearningSchedule) error
	ListByUser(ctx context.Context, userID uint) ([]*models.LearningSchedule, error)
	// Delete removes the schedule only when userID owns it.
	Delete(ctx context.Context, id, userID uint) (bool, error)
}

type scheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) Create(ctx context.Context, schedule *models.LearningSchedule) error {
	defer observability.TrackQuery("create", "learning_schedules")()
	return r.db.WithContext(ctx).Create(schedule).Error
}

// ListByUser returns the newest schedules first.
func (r *scheduleRepository) ListByUser(ctx context.Context, userID uint) ([]*models.LearningSchedule, error) {
	defer observability.TrackQuery("list", "learning_schedules")()
	var schedules []*models.LearningSchedule
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&schedules).Error
	return schedules, err
}

func (r *scheduleRepository) Delete(ctx context.Context, id, userID uint) (bool, error) {
	defer observability.TrackQuery("delete", "learning_schedules")()
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.LearningSchedule{})
	return res.RowsAffected > 0, res.Error
}
