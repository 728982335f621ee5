package server

import (
	"net/url"

	"studentvoice/internal/models"
	"studentvoice/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AnswerRequest is the body of POST /api/questions/{id}/answer.
type AnswerRequest struct {
	Choice *int `json:"choice"`
}

// ListColleges godoc
// @Summary List colleges
// @Description List every college that has a survey
// @Tags surveys
// @Produce json
// @Success 200 {array} string
// @Router /questions/allcollege [get]
func (s *Server) ListColleges(c *fiber.Ctx) error {
	colleges, err := s.surveyService.Colleges(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(colleges)
}

// ListQuestions godoc
// @Summary List survey questions
// @Description List a college's survey questions; signed-in callers see their own choices
// @Tags surveys
// @Produce json
// @Param college query string true "College name"
// @Success 200 {array} models.SurveyQuestion
// @Failure 400 {object} models.ErrorResponse
// @Router /questions [get]
func (s *Server) ListQuestions(c *fiber.Ctx) error {
	questions, err := s.surveyService.Questions(c.UserContext(), c.Query("college"), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(questions)
}

// SurveyResults godoc
// @Summary Survey results
// @Description Tally the answers to a college survey
// @Tags surveys
// @Produce json
// @Param college path string true "College name"
// @Success 200 {object} models.SurveyResults
// @Failure 404 {object} models.ErrorResponse
// @Router /questions/result/{college} [get]
func (s *Server) SurveyResults(c *fiber.Ctx) error {
	college, err := url.PathUnescape(c.Params("college"))
	if err != nil {
		return models.RespondWithAppError(c, models.NewValidationError("Invalid college name"))
	}

	results, err := s.surveyService.Results(c.UserContext(), college)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(results)
}

// AnswerQuestion godoc
// @Summary Answer survey question
// @Description Record the caller's choice; the first answer earns survey points
// @Tags surveys
// @Accept json
// @Produce json
// @Param id path int true "Question ID"
// @Param request body AnswerRequest true "Zero-based option index"
// @Success 200 {object} models.AnswerResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /questions/{id}/answer [post]
// @Security BearerAuth
func (s *Server) AnswerQuestion(c *fiber.Ctx) error {
	questionID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req AnswerRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if req.Choice == nil {
		return models.RespondWithAppError(c, models.NewValidationError("Choice is required"))
	}

	result, err := s.surveyService.Answer(c.UserContext(), service.AnswerInput{
		UserID:     currentUserID(c),
		QuestionID: questionID,
		Choice:     *req.Choice,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(result)
}

// ListSurveys godoc
// @Summary List surveys
// @Description Describe every college survey
// @Tags surveys
// @Produce json
// @Success 200 {array} models.SurveySummary
// @Router /surveys [get]
func (s *Server) ListSurveys(c *fiber.Ctx) error {
	surveys, err := s.surveyService.Surveys(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(surveys)
}
