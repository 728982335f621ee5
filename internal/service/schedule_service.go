package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"studentvoice/internal/middleware"
	"studentvoice/internal/models"
	"studentvoice/internal/repository"
	"studentvoice/internal/validation"
)

// ScheduleService asks the mentor for day-by-day study plans.
type ScheduleService struct {
	generator    TextGenerator
	mentorRepo   repository.MentorRepository
	scheduleRepo repository.ScheduleRepository
	userRepo     repository.UserRepository
	pointsRepo   repository.PointsRepository
	now          func() time.Time
}

type ScheduleInput struct {
	UserID uint
	Topic  string
}

func NewScheduleService(
	generator TextGenerator,
	mentorRepo repository.MentorRepository,
	scheduleRepo repository.ScheduleRepository,
	userRepo repository.UserRepository,
	pointsRepo repository.PointsRepository,
) *ScheduleService {
	return &ScheduleService{
		generator:    generator,
		mentorRepo:   mentorRepo,
		scheduleRepo: scheduleRepo,
		userRepo:     userRepo,
		pointsRepo:   pointsRepo,
		now:          time.Now,
	}
}

// Create generates and stores a schedule for the topic. The exchange is also
// kept in the mentor history and counts as AI usage.
func (s *ScheduleService) Create(ctx context.Context, in ScheduleInput) (*models.LearningSchedule, error) {
	topic, err := validation.NormalizeText(in.Topic)
	if errors.Is(err, validation.ErrEmptyText) {
		return nil, models.NewValidationError("Topic is required")
	} else if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if user.IsViewer() {
		return nil, models.NewForbiddenError("Viewers cannot use the AI mentor")
	}

	raw, err := s.generator.Generate(ctx, buildSchedulePrompt(user, topic))
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "schedule generation failed", "user_id", user.ID, "error", err)
		return nil, models.NewUnavailableError("AI mentor is unavailable", err)
	}

	schedule := parseScheduleReply(raw, topic)
	schedule.UserID = user.ID
	schedule.CreatedAt = s.now()
	if err := s.scheduleRepo.Create(ctx, &schedule); err != nil {
		return nil, models.NewInternalError(err)
	}

	chat := &models.MentorChat{
		UserID:    user.ID,
		Question:  "Learning schedule for " + topic,
		Response:  raw,
		CreatedAt: schedule.CreatedAt,
	}
	if err := s.mentorRepo.Create(ctx, chat); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to record schedule chat", "user_id", user.ID, "error", err)
	}

	if s.pointsRepo != nil {
		if err := s.pointsRepo.Add(ctx, user.ID, models.PointsAIUsage, models.AwardMentorAsk); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to award schedule points", "user_id", user.ID, "error", err)
		}
	}
	return &schedule, nil
}

// List returns the user's schedules, newest first.
func (s *ScheduleService) List(ctx context.Context, userID uint) ([]*models.LearningSchedule, error) {
	schedules, err := s.scheduleRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if schedules == nil {
		schedules = []*models.LearningSchedule{}
	}
	return schedules, nil
}

// Delete removes one of the user's schedules. Schedules owned by someone else
// are reported as missing.
func (s *ScheduleService) Delete(ctx context.Context, userID, id uint) error {
	ok, err := s.scheduleRepo.Delete(ctx, id, userID)
	if err != nil {
		return models.NewInternalError(err)
	}
	if !ok {
		return models.NewNotFoundError("Schedule", id)
	}
	return nil
}

func buildSchedulePrompt(user *models.User, topic string) string {
	var b strings.Builder
	b.WriteString("You are a mentor for college students. Build a day-by-day learning schedule. ")
	b.WriteString("Reply only with a JSON object of the form ")
	b.WriteString(`{"topic": string, "totalDays": number, "schedule": [{"day": string, "learningGoal": string, "details": string, "resources": [string]}], "advice": string}.`)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Student: %s", user.Name)
	if user.CollegeName != "" {
		fmt.Fprintf(&b, " (%s)", user.CollegeName)
	}
	fmt.Fprintf(&b, "\nTopic: %s\n", topic)
	return b.String()
}
