package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"testing"

	"studentvoice/internal/gateway/facepp"
	"studentvoice/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	selfieB64 = base64.StdEncoding.EncodeToString([]byte("selfie-bytes"))
	idCardB64 = base64.StdEncoding.EncodeToString([]byte("id-card-bytes"))
)

func TestVerify_MatchMarksUserVerified(t *testing.T) {
	t.Parallel()
	users := newUserRepoStub(&models.User{ID: 1, Name: "Asha"})
	faces := faceComparerFunc(func(_ context.Context, selfie, idCard []byte) (float64, error) {
		assert.Equal(t, "selfie-bytes", string(selfie))
		assert.Equal(t, "id-card-bytes", string(idCard))
		return 75, nil
	})
	svc := NewVerificationService(faces, users, 75)

	res, err := svc.Verify(context.Background(), VerifyInput{
		UserID: 1,
		Selfie: "data:image/jpeg;base64," + selfieB64,
		IDCard: idCardB64,
	})
	require.NoError(t, err)
	assert.True(t, res.Verified)
	assert.InDelta(t, 75, res.Confidence, 0.001)
	assert.Contains(t, users.verified, uint(1))
}

func TestVerify_BelowThreshold(t *testing.T) {
	t.Parallel()
	users := newUserRepoStub(&models.User{ID: 1})
	faces := faceComparerFunc(func(context.Context, []byte, []byte) (float64, error) { return 74.9, nil })
	svc := NewVerificationService(faces, users, 75)

	res, err := svc.Verify(context.Background(), VerifyInput{UserID: 1, Selfie: selfieB64, IDCard: idCardB64})
	require.NoError(t, err)
	assert.False(t, res.Verified)
	assert.Empty(t, users.verified)
}

func TestVerify_GatewayErrorIsUnverified(t *testing.T) {
	t.Parallel()
	faces := faceComparerFunc(func(context.Context, []byte, []byte) (float64, error) {
		return 0, errors.New("facepp: CONCURRENCY_LIMIT_EXCEEDED")
	})
	svc := NewVerificationService(faces, newUserRepoStub(&models.User{ID: 1}), 75)

	res, err := svc.Verify(context.Background(), VerifyInput{UserID: 1, Selfie: selfieB64, IDCard: idCardB64})
	require.NoError(t, err)
	assert.Equal(t, &models.VerificationResult{Verified: false, Confidence: 0}, res)
}

func TestVerify_BadInput(t *testing.T) {
	t.Parallel()
	faces := faceComparerFunc(func(context.Context, []byte, []byte) (float64, error) {
		return 0, fmt.Errorf("selfie: %w", facepp.ErrUnsupportedImage)
	})
	svc := NewVerificationService(faces, newUserRepoStub(), 75)
	ctx := context.Background()

	_, err := svc.Verify(ctx, VerifyInput{UserID: 1, Selfie: "", IDCard: idCardB64})
	assertAppErrorCode(t, err, models.CodeValidation)

	_, err = svc.Verify(ctx, VerifyInput{UserID: 1, Selfie: selfieB64, IDCard: "%%%not-base64"})
	assertAppErrorCode(t, err, models.CodeValidation)

	_, err = svc.Verify(ctx, VerifyInput{UserID: 1, Selfie: selfieB64, IDCard: idCardB64})
	assertAppErrorCode(t, err, models.CodeValidation)
}
