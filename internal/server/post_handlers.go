package server

import (
	"studentvoice/internal/models"
	"studentvoice/internal/service"

	"github.com/gofiber/fiber/v2"
)

// TextRequest is the body shared by post and comment creation.
type TextRequest struct {
	Text string `json:"text"`
}

// ListPosts godoc
// @Summary List posts
// @Description List posts newest first
// @Tags posts
// @Produce json
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} models.PostView
// @Router /post/allpostlist [get]
func (s *Server) ListPosts(c *fiber.Ctx) error {
	page := parsePagination(c, service.DefaultPageSize)

	posts, err := s.postService.ListPosts(c.UserContext(), service.ListPostsInput{
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(posts)
}

// GetPost godoc
// @Summary Get post
// @Description Get one post, including posts beyond the first feed page
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.PostView
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /post/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), postID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(post)
}

// CreatePost godoc
// @Summary Create post
// @Description Create a post and award community points
// @Tags posts
// @Accept json
// @Produce json
// @Param request body TextRequest true "Post body"
// @Success 201 {object} models.PostView
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /post/postcreate [post]
// @Security BearerAuth
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req TextRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID: currentUserID(c),
		Text:   req.Text,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	s.publishBroadcastEvent(c.UserContext(), models.EventPostCreated, post)
	return c.Status(fiber.StatusCreated).JSON(post)
}

// ToggleLike godoc
// @Summary Toggle like
// @Description Toggle the caller's like on a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.PostView
// @Failure 404 {object} models.ErrorResponse
// @Router /post/{id}/like [post]
// @Security BearerAuth
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	post, _, err := s.postService.ToggleLike(c.UserContext(), currentUserID(c), postID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	s.publishBroadcastEvent(c.UserContext(), models.EventPostReactionUpdated, post)
	return c.JSON(post)
}
