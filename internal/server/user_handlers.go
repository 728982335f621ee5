package server

import (
	"studentvoice/internal/models"
	"studentvoice/internal/service"

	"github.com/gofiber/fiber/v2"
)

// VerifyRequest carries the two photos as base64 strings or data URLs.
type VerifyRequest struct {
	Selfie string `json:"selfie"`
	IDCard string `json:"id_card"`
}

// VerifyIdentity godoc
// @Summary Verify identity
// @Description Compare a selfie with an ID card photo
// @Tags users
// @Accept json
// @Produce json
// @Param request body VerifyRequest true "Base64 images"
// @Success 200 {object} models.VerificationResult
// @Failure 400 {object} models.ErrorResponse
// @Router /user/verify [post]
// @Security BearerAuth
func (s *Server) VerifyIdentity(c *fiber.Ctx) error {
	var req VerifyRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if req.Selfie == "" || req.IDCard == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("selfie and id_card are required"))
	}

	result, err := s.verificationService.Verify(c.UserContext(), service.VerifyInput{
		UserID: currentUserID(c),
		Selfie: req.Selfie,
		IDCard: req.IDCard,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(result)
}
