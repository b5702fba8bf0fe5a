package service

import (
	"context"
	"testing"
	"time"

	"finatlas/internal/dto"
	"finatlas/pkg/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthFixture() (*AuthService, *fakeUserRepo) {
	repo := &fakeUserRepo{}
	jwtManager := auth.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	return NewAuthService(repo, jwtManager, zap.NewNop()), repo
}

func registerRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Username:    "demo",
		Email:       "demo@example.com",
		Password:    "correct-horse",
		Name:        "Demo",
		Surname:     "User",
		DateOfBirth: "1990-05-20",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, repo := newAuthFixture()
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "demo", resp.User.Username)

	// Password is stored hashed, never verbatim.
	stored, err := repo.GetByEmail(ctx, "demo@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "correct-horse", stored.Password)

	login, err := svc.Login(ctx, &dto.LoginRequest{
		Email:    "demo@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerRequest())
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	// Fresh email, taken username: the email pre-check passes and the
	// unique constraint fires instead.
	req := registerRequest()
	req.Email = "other@example.com"
	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestRegisterInvalidDateOfBirth(t *testing.T) {
	svc, _ := newAuthFixture()

	req := registerRequest()
	req.DateOfBirth = "20-05-1990"
	_, err := svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	_, err = svc.Login(ctx, &dto.LoginRequest{
		Email:    "demo@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "correct-horse",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshToken(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, resp.User.ID, refreshed.User.ID)

	_, err = svc.RefreshToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
