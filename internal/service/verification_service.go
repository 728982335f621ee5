package service

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"studentvoice/internal/gateway/facepp"
	"studentvoice/internal/middleware"
	"studentvoice/internal/models"
	"studentvoice/internal/repository"
)

// FaceComparer scores how likely two photos show the same person (0-100).
type FaceComparer interface {
	Compare(ctx context.Context, selfie, idCard []byte) (float64, error)
}

type VerificationService struct {
	faces     FaceComparer
	userRepo  repository.UserRepository
	threshold float64
	now       func() time.Time
}

type VerifyInput struct {
	UserID uint
	Selfie string
	IDCard string
}

func NewVerificationService(faces FaceComparer, userRepo repository.UserRepository, threshold float64) *VerificationService {
	return &VerificationService{
		faces:     faces,
		userRepo:  userRepo,
		threshold: threshold,
		now:       time.Now,
	}
}

// Verify compares the selfie with the ID card photo and marks the user verified on a match.
// Gateway failures are reported as an unverified result rather than an error.
func (s *VerificationService) Verify(ctx context.Context, in VerifyInput) (*models.VerificationResult, error) {
	selfie, err := decodeImagePayload(in.Selfie)
	if err != nil {
		return nil, models.NewValidationError("selfie must be a base64 encoded image")
	}
	idCard, err := decodeImagePayload(in.IDCard)
	if err != nil {
		return nil, models.NewValidationError("id_card must be a base64 encoded image")
	}

	confidence, err := s.faces.Compare(ctx, selfie, idCard)
	if err != nil {
		if errors.Is(err, facepp.ErrUnsupportedImage) {
			return nil, models.NewValidationError(err.Error())
		}
		middleware.Logger.WarnContext(ctx, "face comparison failed", "user_id", in.UserID, "error", err)
		return &models.VerificationResult{Verified: false, Confidence: 0}, nil
	}

	result := &models.VerificationResult{
		Verified:   confidence >= s.threshold,
		Confidence: confidence,
	}
	if result.Verified {
		if err := s.userRepo.MarkVerified(ctx, in.UserID, s.now()); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// decodeImagePayload accepts raw base64 or a data URL.
func decodeImagePayload(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		comma := strings.IndexByte(s, ',')
		if comma < 0 {
			return nil, errors.New("malformed data url")
		}
		s = s[comma+1:]
	}
	if s == "" {
		return nil, errors.New("empty image")
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
	}
	return data, nil
}
