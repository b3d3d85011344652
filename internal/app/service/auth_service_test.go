package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registreqc/registreqc-backend/internal/app/model"
	"github.com/registreqc/registreqc-backend/internal/app/repository"
	"github.com/registreqc/registreqc-backend/internal/db"
	"github.com/registreqc/registreqc-backend/pkg/util"
)

const testJWTSecret = "test-secret"

func setupAuthTest(t *testing.T) AuthService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	return NewAuthService(userRepo, testJWTSecret, 15*time.Minute, 7*24*time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	svc := setupAuthTest(t)

	user, tokens, err := svc.Register(RegisterInput{
		Email:    "marie@example.com",
		Password: "motdepasse123",
		Name:     "Marie Tremblay",
	})
	require.NoError(t, err)
	require.NotNil(t, user)
	require.NotNil(t, tokens)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "marie@example.com", user.Email)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NotEqual(t, "motdepasse123", user.PasswordHash)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	claims, err := util.ValidateToken(tokens.AccessToken, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, string(model.RoleUser), claims.Role)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc := setupAuthTest(t)

	_, _, err := svc.Register(RegisterInput{Email: "marie@example.com", Password: "motdepasse123", Name: "Marie"})
	require.NoError(t, err)

	_, _, err = svc.Register(RegisterInput{Email: "marie@example.com", Password: "autremotdepasse", Name: "Autre"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestAuthService_Login(t *testing.T) {
	svc := setupAuthTest(t)

	registered, _, err := svc.Register(RegisterInput{Email: "marie@example.com", Password: "motdepasse123", Name: "Marie"})
	require.NoError(t, err)

	user, tokens, err := svc.Login("marie@example.com", "motdepasse123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, tokens.AccessToken)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc := setupAuthTest(t)

	_, _, err := svc.Register(RegisterInput{Email: "marie@example.com", Password: "motdepasse123", Name: "Marie"})
	require.NoError(t, err)

	_, _, err = svc.Login("marie@example.com", "mauvais")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := setupAuthTest(t)

	_, _, err := svc.Login("inconnu@example.com", "motdepasse123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Refresh(t *testing.T) {
	svc := setupAuthTest(t)

	_, tokens, err := svc.Register(RegisterInput{Email: "marie@example.com", Password: "motdepasse123", Name: "Marie"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEmpty(t, refreshed.RefreshToken)
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	svc := setupAuthTest(t)

	_, tokens, err := svc.Register(RegisterInput{Email: "marie@example.com", Password: "motdepasse123", Name: "Marie"})
	require.NoError(t, err)

	// An access token is not usable as a refresh token.
	_, err = svc.Refresh(tokens.AccessToken)
	assert.ErrorIs(t, err, util.ErrInvalidToken)
}
