package server

import (
	"time"

	"studentvoice/internal/auth"
	"studentvoice/internal/middleware"
	"studentvoice/internal/models"
	"studentvoice/internal/service"

	"github.com/gofiber/fiber/v2"
)

// LoginRequest is the body of POST /api/user/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /api/user/userlogin.
type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	CollegeID   string `json:"college_id"`
	CollegeName string `json:"college_name"`
}

// Login godoc
// @Summary Login
// @Description Authenticate with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} models.AuthResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /user/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	resp, err := s.userService.Login(c.UserContext(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(resp)
}

// Register godoc
// @Summary Register
// @Description Create an account, seed the college survey and return a token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Account"
// @Success 201 {object} models.AuthResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /user/userlogin [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	resp, err := s.userService.Register(c.UserContext(), service.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Role:        req.Role,
		CollegeID:   req.CollegeID,
		CollegeName: req.CollegeName,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	if resp.User != nil && resp.User.CollegeName != "" {
		if err := s.surveyService.EnsureCollege(c.UserContext(), resp.User.CollegeName); err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "failed to create college survey",
				"college", resp.User.CollegeName, "error", err)
		}
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Logout godoc
// @Summary Logout
// @Description Revoke the current token
// @Tags auth
// @Success 204
// @Router /user/logout [post]
// @Security BearerAuth
func (s *Server) Logout(c *fiber.Ctx) error {
	claims, ok := c.Locals("tokenClaims").(*auth.Claims)
	if ok && claims.JTI != "" && s.redis != nil {
		if ttl := time.Until(claims.ExpiresAt); ttl > 0 {
			if err := s.redis.Set(c.UserContext(), middleware.BlacklistKey(claims.JTI), "1", ttl).Err(); err != nil {
				middleware.Logger.WarnContext(c.UserContext(), "failed to revoke token", "error", err)
				return models.RespondWithError(c, fiber.StatusServiceUnavailable,
					models.NewUnavailableError("Could not revoke token", err))
			}
		}
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetMe godoc
// @Summary Current user
// @Description Get the authenticated user
// @Tags users
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} models.ErrorResponse
// @Router /user/getme [get]
// @Security BearerAuth
func (s *Server) GetMe(c *fiber.Ctx) error {
	user, err := s.userService.GetMe(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}
