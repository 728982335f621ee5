package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"studentvoice/internal/auth"
	"studentvoice/internal/middleware"
	"studentvoice/internal/models"
	"studentvoice/internal/repository"
	"studentvoice/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo   repository.UserRepository
	pointsRepo repository.PointsRepository
	tokens     *auth.Manager
	now        func() time.Time
	hashCost   int
}

type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	Role        string
	CollegeID   string
	CollegeName string
}

type LoginInput struct {
	Email    string
	Password string
}

func NewUserService(
	userRepo repository.UserRepository,
	pointsRepo repository.PointsRepository,
	tokens *auth.Manager,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		pointsRepo: pointsRepo,
		tokens:     tokens,
		now:        time.Now,
		hashCost:   bcrypt.DefaultCost,
	}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.AuthResponse, error) {
	name := strings.TrimSpace(in.Name)
	email := validation.NormalizeEmail(in.Email)

	if err := validation.ValidateName(name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	role := strings.ToLower(strings.TrimSpace(in.Role))
	if role == "" {
		role = models.RoleStudent
	}
	if !models.ValidRole(role) {
		return nil, models.NewValidationError("role must be student or viewer")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Name:        name,
		Email:       email,
		Password:    string(hash),
		Role:        role,
		CollegeID:   strings.TrimSpace(in.CollegeID),
		CollegeName: strings.TrimSpace(in.CollegeName),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issue(user)
}

// Login checks credentials and grants the daily login award at most once per UTC day.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*models.AuthResponse, error) {
	email := validation.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, models.NewValidationError("email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
			return nil, models.NewUnauthorizedError("Invalid credentials")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	if s.pointsRepo != nil {
		day := s.now().UTC().Format(time.DateOnly)
		if _, err := s.pointsRepo.AwardDailyLogin(ctx, user.ID, day, models.AwardDailyLogin); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to award daily login", "user_id", user.ID, "error", err)
		}
	}

	return s.issue(user)
}

func (s *UserService) GetMe(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *UserService) issue(user *models.User) (*models.AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID, user.Name, user.Role)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}
