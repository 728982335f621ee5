package repository

import (
	"context"
	"errors"
	"fmt"

	"studentvoice/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var pointColumns = map[string]string{
	models.PointsSurveys:    "surveys",
	models.PointsCommunity:  "community",
	models.PointsAIUsage:    "ai_usage",
	models.PointsDailyLogin: "daily_login",
}

// PointsRepository maintains per-user gamification totals.
type PointsRepository interface {
	Get(ctx context.Context, userID uint) (*models.UserPoints, error)
	Add(ctx context.Context, userID uint, category string, amount int) error
	// AwardDailyLogin adds the daily award unless it was already given on day (YYYY-MM-DD).
	AwardDailyLogin(ctx context.Context, userID uint, day string, amount int) (bool, error)
}

type pointsRepository struct {
	db *gorm.DB
}

func NewPointsRepository(db *gorm.DB) PointsRepository {
	return &pointsRepository{db: db}
}

// Get returns zero totals for users that never earned points.
func (r *pointsRepository) Get(ctx context.Context, userID uint) (*models.UserPoints, error) {
	var p models.UserPoints
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.UserPoints{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pointsRepository) Add(ctx context.Context, userID uint, category string, amount int) error {
	col, ok := pointColumns[category]
	if !ok {
		return fmt.Errorf("unknown points category %q", category)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureRow(tx, userID); err != nil {
			return err
		}
		return tx.Model(&models.UserPoints{}).
			Where("user_id = ?", userID).
			UpdateColumn(col, gorm.Expr(col+" + ?", amount)).Error
	})
}

func (r *pointsRepository) AwardDailyLogin(ctx context.Context, userID uint, day string, amount int) (bool, error) {
	awarded := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureRow(tx, userID); err != nil {
			return err
		}
		res := tx.Model(&models.UserPoints{}).
			Where("user_id = ? AND (last_daily_login IS NULL OR last_daily_login <> ?)", userID, day).
			UpdateColumns(map[string]any{
				"daily_login":      gorm.Expr("daily_login + ?", amount),
				"last_daily_login": day,
			})
		if res.Error != nil {
			return res.Error
		}
		awarded = res.RowsAffected > 0
		return nil
	})
	return awarded, err
}

func ensureRow(tx *gorm.DB, userID uint) error {
	return tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.UserPoints{UserID: userID}).Error
}
