package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"studentvoice/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn     func(context.Context, *models.Post) error
	getByIDFn    func(context.Context, uint) (*models.Post, error)
	listFn       func(context.Context, int, int) ([]*models.Post, error)
	toggleLikeFn func(context.Context, uint, uint) (bool, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *postRepoStub) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	return s.toggleLikeFn(ctx, userID, postID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, p *models.Post) error { p.ID = 1; return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, Text: "t", User: models.User{ID: 1, Name: "Asha"}}, nil
		},
		listFn:       func(_ context.Context, _, _ int) ([]*models.Post, error) { return nil, nil },
		toggleLikeFn: func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint) ([]*models.Comment, error)
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}

// pointsRepoStub records awards.
type pointsRepoStub struct {
	added  map[string]int
	days   map[string]bool
	addErr error
}

func newPointsRepoStub() *pointsRepoStub {
	return &pointsRepoStub{added: map[string]int{}, days: map[string]bool{}}
}

func (s *pointsRepoStub) Get(_ context.Context, userID uint) (*models.UserPoints, error) {
	return &models.UserPoints{
		UserID:     userID,
		Surveys:    s.added[models.PointsSurveys],
		Community:  s.added[models.PointsCommunity],
		AIUsage:    s.added[models.PointsAIUsage],
		DailyLogin: s.added[models.PointsDailyLogin],
	}, nil
}
func (s *pointsRepoStub) Add(_ context.Context, _ uint, category string, amount int) error {
	if s.addErr != nil {
		return s.addErr
	}
	s.added[category] += amount
	return nil
}
func (s *pointsRepoStub) AwardDailyLogin(_ context.Context, _ uint, day string, amount int) (bool, error) {
	if s.days[day] {
		return false, nil
	}
	s.days[day] = true
	s.added[models.PointsDailyLogin] += amount
	return true, nil
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	users    map[uint]*models.User
	verified map[uint]time.Time
}

func newUserRepoStub(users ...*models.User) *userRepoStub {
	s := &userRepoStub{users: map[uint]*models.User{}, verified: map[uint]time.Time{}}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *userRepoStub) GetByID(_ context.Context, id uint) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, models.NewNotFoundError("User", id)
}
func (s *userRepoStub) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, models.NewNotFoundError("User", email)
}
func (s *userRepoStub) Create(_ context.Context, u *models.User) error {
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return models.NewConflictError("Email already registered")
		}
	}
	u.ID = uint(len(s.users) + 1)
	s.users[u.ID] = u
	return nil
}
func (s *userRepoStub) MarkVerified(_ context.Context, id uint, at time.Time) error {
	if _, ok := s.users[id]; !ok {
		return models.NewNotFoundError("User", id)
	}
	s.verified[id] = at
	return nil
}

// mentorRepoStub keeps chats in memory, newest last.
type mentorRepoStub struct {
	chats []*models.MentorChat
}

func (s *mentorRepoStub) Create(_ context.Context, c *models.MentorChat) error {
	c.ID = uint(len(s.chats) + 1)
	s.chats = append(s.chats, c)
	return nil
}
func (s *mentorRepoStub) ListByUser(_ context.Context, userID uint, limit int) ([]*models.MentorChat, error) {
	var out []*models.MentorChat
	for i := len(s.chats) - 1; i >= 0 && len(out) < limit; i-- {
		if s.chats[i].UserID == userID {
			out = append(out, s.chats[i])
		}
	}
	return out, nil
}

type generatorFunc func(ctx context.Context, prompt string) (string, error)

func (f generatorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

type faceComparerFunc func(ctx context.Context, selfie, idCard []byte) (float64, error)

func (f faceComparerFunc) Compare(ctx context.Context, selfie, idCard []byte) (float64, error) {
	return f(ctx, selfie, idCard)
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

// scheduleRepoStub keeps schedules in memory, newest last.
type scheduleRepoStub struct {
	schedules []*models.LearningSchedule
	nextID    uint
}

func (s *scheduleRepoStub) Create(_ context.Context, sc *models.LearningSchedule) error {
	s.nextID++
	sc.ID = s.nextID
	s.schedules = append(s.schedules, sc)
	return nil
}
func (s *scheduleRepoStub) ListByUser(_ context.Context, userID uint) ([]*models.LearningSchedule, error) {
	var out []*models.LearningSchedule
	for i := len(s.schedules) - 1; i >= 0; i-- {
		if s.schedules[i].UserID == userID {
			out = append(out, s.schedules[i])
		}
	}
	return out, nil
}
func (s *scheduleRepoStub) Delete(_ context.Context, id, userID uint) (bool, error) {
	for i, sc := range s.schedules {
		if sc.ID == id && sc.UserID == userID {
			s.schedules = append(s.schedules[:i], s.schedules[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
