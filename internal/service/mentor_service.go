package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"studentvoice/internal/middleware"
	"studentvoice/internal/models"
	"studentvoice/internal/repository"
	"studentvoice/internal/validation"
)

const (
	mentorContextTurns = 5
	mentorHistoryLimit = 20
)

// TextGenerator produces model text for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type MentorService struct {
	generator  TextGenerator
	mentorRepo repository.MentorRepository
	userRepo   repository.UserRepository
	pointsRepo repository.PointsRepository
	now        func() time.Time
}

type AskInput struct {
	UserID   uint
	Question string
}

func NewMentorService(
	generator TextGenerator,
	mentorRepo repository.MentorRepository,
	userRepo repository.UserRepository,
	pointsRepo repository.PointsRepository,
) *MentorService {
	return &MentorService{
		generator:  generator,
		mentorRepo: mentorRepo,
		userRepo:   userRepo,
		pointsRepo: pointsRepo,
		now:        time.Now,
	}
}

// Ask forwards the question to the model, stores the exchange and awards ai_usage points.
// Malformed model output never fails the call; it is returned as plain advice.
func (s *MentorService) Ask(ctx context.Context, in AskInput) (*models.MentorAnswer, error) {
	question, err := validation.NormalizeText(in.Question)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if user.IsViewer() {
		return nil, models.NewForbiddenError("Viewers cannot use the AI mentor")
	}

	previous, err := s.mentorRepo.ListByUser(ctx, user.ID, mentorContextTurns)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	raw, err := s.generator.Generate(ctx, buildMentorPrompt(user, previous, question))
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "mentor generation failed", "user_id", user.ID, "error", err)
		return nil, models.NewUnavailableError("AI mentor is unavailable", err)
	}

	chat := &models.MentorChat{UserID: user.ID, Question: question, Response: raw, CreatedAt: s.now()}
	if err := s.mentorRepo.Create(ctx, chat); err != nil {
		return nil, models.NewInternalError(err)
	}

	if s.pointsRepo != nil {
		if err := s.pointsRepo.Add(ctx, user.ID, models.PointsAIUsage, models.AwardMentorAsk); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to award mentor points", "user_id", user.ID, "error", err)
		}
	}

	answer := parseMentorReply(raw)
	answer.Question = question
	answer.AskedAt = chat.CreatedAt
	return &answer, nil
}

// History returns the user's past exchanges, newest first.
func (s *MentorService) History(ctx context.Context, userID uint) ([]models.MentorAnswer, error) {
	chats, err := s.mentorRepo.ListByUser(ctx, userID, mentorHistoryLimit)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	out := make([]models.MentorAnswer, 0, len(chats))
	for _, c := range chats {
		a := parseMentorReply(c.Response)
		a.Question = c.Question
		a.AskedAt = c.CreatedAt
		out = append(out, a)
	}
	return out, nil
}

func buildMentorPrompt(user *models.User, previous []*models.MentorChat, question string) string {
	var b strings.Builder
	b.WriteString("You are a mentor for college students. Reply only with a JSON object of the form ")
	b.WriteString(`{"advice": string, "learning_plan": array or null, "chart_data": object or null, "youtube_links": [string]}.`)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Student: %s", user.Name)
	if user.CollegeName != "" {
		fmt.Fprintf(&b, " (%s)", user.CollegeName)
	}
	b.WriteString("\n")

	if len(previous) > 0 {
		b.WriteString("\nEarlier conversation:\n")
		for i := len(previous) - 1; i >= 0; i-- {
			fmt.Fprintf(&b, "Q: %s\nA: %s\n", previous[i].Question, previous[i].Response)
		}
	}

	fmt.Fprintf(&b, "\nQuestion: %s\n", question)
	return b.String()
}
