package server

import (
	"studentvoice/internal/models"
	"studentvoice/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AskRequest is the body of POST /api/ai/ask.
type AskRequest struct {
	Question string `json:"question"`
}

// AskMentor godoc
// @Summary Ask the AI mentor
// @Description Send a question to the AI mentor and store the exchange
// @Tags mentor
// @Accept json
// @Produce json
// @Param request body AskRequest true "Question"
// @Success 200 {object} models.MentorAnswer
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /ai/ask [post]
// @Security BearerAuth
func (s *Server) AskMentor(c *fiber.Ctx) error {
	var req AskRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	answer, err := s.mentorService.Ask(c.UserContext(), service.AskInput{
		UserID:   currentUserID(c),
		Question: req.Question,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(answer)
}

// MentorHistory godoc
// @Summary Mentor history
// @Description List the caller's previous mentor exchanges, newest first
// @Tags mentor
// @Produce json
// @Success 200 {array} models.MentorAnswer
// @Failure 401 {object} models.ErrorResponse
// @Router /ai/history [get]
// @Security BearerAuth
func (s *Server) MentorHistory(c *fiber.Ctx) error {
	history, err := s.mentorService.History(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(history)
}

// ScheduleRequest is the body of POST /api/ai/schedule.
type ScheduleRequest struct {
	Topic string `json:"topic"`
}

// CreateSchedule godoc
// @Summary Create learning schedule
// @Description Ask the AI mentor for a day-by-day study plan and store it
// @Tags mentor
// @Accept json
// @Produce json
// @Param request body ScheduleRequest true "Topic"
// @Success 201 {object} models.LearningSchedule
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /ai/schedule [post]
// @Security BearerAuth
func (s *Server) CreateSchedule(c *fiber.Ctx) error {
	var req ScheduleRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	schedule, err := s.scheduleService.Create(c.UserContext(), service.ScheduleInput{
		UserID: currentUserID(c),
		Topic:  req.Topic,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(schedule)
}

// ListSchedules godoc
// @Summary List learning schedules
// @Description List the caller's learning schedules, newest first
// @Tags mentor
// @Produce json
// @Success 200 {array} models.LearningSchedule
// @Router /ai/schedule [get]
// @Security BearerAuth
func (s *Server) ListSchedules(c *fiber.Ctx) error {
	schedules, err := s.scheduleService.List(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(schedules)
}

// DeleteSchedule godoc
// @Summary Delete learning schedule
// @Description Delete one of the caller's learning schedules
// @Tags mentor
// @Param id path int true "Schedule ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /ai/schedule/{id} [delete]
// @Security BearerAuth
func (s *Server) DeleteSchedule(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.scheduleService.Delete(c.UserContext(), currentUserID(c), id); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
