package service

import (
	"context"

	"studentvoice/internal/models"
	"studentvoice/internal/repository"
)

type PointsService struct {
	pointsRepo repository.PointsRepository
}

func NewPointsService(pointsRepo repository.PointsRepository) *PointsService {
	return &PointsService{pointsRepo: pointsRepo}
}

func (s *PointsService) GetPoints(ctx context.Context, userID uint) (models.PointsView, error) {
	p, err := s.pointsRepo.Get(ctx, userID)
	if err != nil {
		return models.PointsView{}, models.NewInternalError(err)
	}
	return p.View(), nil
}
