package server

import (
	"studentvoice/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetPoints godoc
// @Summary Get points
// @Description Get a user's points by category
// @Tags points
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} models.PointsView
// @Failure 400 {object} models.ErrorResponse
// @Router /points/{userId} [get]
func (s *Server) GetPoints(c *fiber.Ctx) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}

	points, err := s.pointsService.GetPoints(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(points)
}
