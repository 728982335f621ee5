package service

import (
	"context"
	"fmt"
	"strings"

	"studentvoice/internal/cache"
	"studentvoice/internal/middleware"
	"studentvoice/internal/models"
	"studentvoice/internal/repository"

	"github.com/redis/go-redis/v9"
)

type questionTemplate struct {
	text    string
	options []string
}

var ratingOptions = []string{"Excellent", "Good", "Average", "Poor"}

// defaultQuestions seeds every new college survey.
var defaultQuestions = []questionTemplate{
	{"How would you rate the teaching quality at %s?", ratingOptions},
	{"How would you rate the library and lab facilities at %s?", ratingOptions},
	{"How would you rate placement support at %s?", ratingOptions},
	{"How safe do you feel on the %s campus?", []string{"Very safe", "Safe", "Unsafe", "Very unsafe"}},
	{"Would you recommend %s to a friend?", []string{"Yes", "Maybe", "No"}},
}

// SurveyService runs the per-college student surveys.
type SurveyService struct {
	surveyRepo repository.SurveyRepository
	userRepo   repository.UserRepository
	pointsRepo repository.PointsRepository
	rdb        *redis.Client
}

type AnswerInput struct {
	UserID     uint
	QuestionID uint
	Choice     int
}

func NewSurveyService(
	surveyRepo repository.SurveyRepository,
	userRepo repository.UserRepository,
	pointsRepo repository.PointsRepository,
	rdb *redis.Client,
) *SurveyService {
	return &SurveyService{
		surveyRepo: surveyRepo,
		userRepo:   userRepo,
		pointsRepo: pointsRepo,
		rdb:        rdb,
	}
}

// EnsureCollege creates the default questions for a college that has none.
// It is safe to call repeatedly.
func (s *SurveyService) EnsureCollege(ctx context.Context, college string) error {
	college = strings.TrimSpace(college)
	if college == "" {
		return nil
	}
	n, err := s.surveyRepo.CountQuestions(ctx, college)
	if err != nil {
		return models.NewInternalError(err)
	}
	if n > 0 {
		return nil
	}

	questions := make([]*models.SurveyQuestion, 0, len(defaultQuestions))
	for i, tmpl := range defaultQuestions {
		questions = append(questions, &models.SurveyQuestion{
			College:  college,
			Position: i + 1,
			Text:     fmt.Sprintf(tmpl.text, college),
			Options:  append([]string(nil), tmpl.options...),
		})
	}
	if err := s.surveyRepo.CreateQuestions(ctx, questions); err != nil {
		return models.NewInternalError(err)
	}
	middleware.Logger.InfoContext(ctx, "created college survey", "college", college, "questions", len(questions))
	return nil
}

// Colleges lists every college that has a survey.
func (s *SurveyService) Colleges(ctx context.Context) ([]string, error) {
	colleges, err := s.surveyRepo.ListColleges(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if colleges == nil {
		colleges = []string{}
	}
	return colleges, nil
}

// Surveys describes every college survey.
func (s *SurveyService) Surveys(ctx context.Context) ([]models.SurveySummary, error) {
	colleges, err := s.Colleges(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.SurveySummary, 0, len(colleges))
	for _, college := range colleges {
		n, err := s.surveyRepo.CountQuestions(ctx, college)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		out = append(out, models.SurveySummary{
			College:     college,
			Title:       college + " Student Survey",
			Description: fmt.Sprintf("Tell other students what %s is really like.", college),
			Questions:   int(n),
		})
	}
	return out, nil
}

// Questions returns the college's questions in order. A non-zero viewerID
// fills in that user's previous choices.
func (s *SurveyService) Questions(ctx context.Context, college string, viewerID uint) ([]*models.SurveyQuestion, error) {
	college = strings.TrimSpace(college)
	if college == "" {
		return nil, models.NewValidationError("College is required")
	}
	questions, err := s.surveyRepo.ListQuestions(ctx, college)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if questions == nil {
		questions = []*models.SurveyQuestion{}
	}
	if viewerID == 0 || len(questions) == 0 {
		return questions, nil
	}

	ids := make([]uint, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}
	mine, err := s.surveyRepo.AnswersByUser(ctx, viewerID, ids)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, q := range questions {
		if choice, ok := mine[q.ID]; ok {
			q.MyChoice = &choice
		}
	}
	return questions, nil
}

// Answer records the user's choice. Only the first answer to a question earns
// survey points; answering again replaces the choice.
func (s *SurveyService) Answer(ctx context.Context, in AnswerInput) (*models.AnswerResult, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if user.IsViewer() {
		return nil, models.NewForbiddenError("Viewers cannot answer surveys")
	}

	question, err := s.surveyRepo.GetQuestion(ctx, in.QuestionID)
	if err != nil {
		return nil, mapNotFound(err, "Question", in.QuestionID)
	}
	if in.Choice < 0 || in.Choice >= len(question.Options) {
		return nil, models.NewValidationError(
			fmt.Sprintf("Choice must be between 0 and %d", len(question.Options)-1))
	}

	first, err := s.surveyRepo.SaveAnswer(ctx, &models.SurveyAnswer{
		QuestionID: question.ID,
		UserID:     user.ID,
		Choice:     in.Choice,
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	cache.Invalidate(ctx, s.rdb, cache.SurveyResultsKey(question.College))

	result := &models.AnswerResult{QuestionID: question.ID, Choice: in.Choice}
	if first && s.pointsRepo != nil {
		if err := s.pointsRepo.Add(ctx, user.ID, models.PointsSurveys, models.AwardSurvey); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to award survey points", "user_id", user.ID, "error", err)
		} else {
			result.Awarded = models.AwardSurvey
		}
	}
	return result, nil
}

// Results tallies the college survey, served cache-aside until the next answer.
func (s *SurveyService) Results(ctx context.Context, college string) (*models.SurveyResults, error) {
	college = strings.TrimSpace(college)
	if college == "" {
		return nil, models.NewValidationError("College is required")
	}

	var results models.SurveyResults
	err := cache.Aside(ctx, s.rdb, cache.SurveyResultsKey(college), &results, cache.SurveyTTL, func() error {
		fetched, err := s.tally(ctx, college)
		if err != nil {
			return err
		}
		results = *fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &results, nil
}

func (s *SurveyService) tally(ctx context.Context, college string) (*models.SurveyResults, error) {
	questions, err := s.surveyRepo.ListQuestions(ctx, college)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(questions) == 0 {
		return nil, models.NewNotFoundError("Survey", college)
	}
	counts, err := s.surveyRepo.Tally(ctx, college)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	respondents, err := s.surveyRepo.CountRespondents(ctx, college)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	byQuestion := make(map[uint]*models.QuestionResult, len(questions))
	out := &models.SurveyResults{
		College:   college,
		Responses: int(respondents),
		Questions: make([]models.QuestionResult, len(questions)),
	}
	for i, q := range questions {
		out.Questions[i] = models.QuestionResult{
			QuestionID: q.ID,
			Text:       q.Text,
			Options:    q.Options,
			Counts:     make([]int, len(q.Options)),
		}
		byQuestion[q.ID] = &out.Questions[i]
	}
	for _, c := range counts {
		r, ok := byQuestion[c.QuestionID]
		if !ok || c.Choice < 0 || c.Choice >= len(r.Counts) {
			continue
		}
		r.Counts[c.Choice] += c.Count
		r.Total += c.Count
	}
	return out, nil
}
