package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"fileapi/internal/auth"
	"fileapi/internal/config"
	"fileapi/internal/model"
	"fileapi/internal/repository"
	repoMocks "fileapi/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     10 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}
}

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockUserRepository)
		svc := NewAuthService(mRepo, auth.NewMemoryRegistry(), testAuthConfig())

		mRepo.On("FindByIdentifier", ctx, "ada@example.com").Return(nil, sql.ErrNoRows)
		mRepo.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
			return u.ID != "" &&
				u.Email == "ada@example.com" &&
				u.PasswordHash != "s3cret" &&
				auth.VerifyPassword("s3cret", u.PasswordHash)
		})).Return(&model.User{ID: "gen-id", Email: "ada@example.com"}, nil)

		user, err := svc.Signup(ctx, SignupInput{
			FirstName:   "Ada",
			LastName:    "Lovelace",
			Email:       "ada@example.com",
			PhoneNumber: "380501234567",
			Password:    "s3cret",
		})

		require.NoError(t, err)
		assert.Equal(t, "gen-id", user.ID)
		mRepo.AssertExpectations(t)
	})

	t.Run("email already registered", func(t *testing.T) {
		mRepo := new(repoMocks.MockUserRepository)
		svc := NewAuthService(mRepo, auth.NewMemoryRegistry(), testAuthConfig())

		mRepo.On("FindByIdentifier", ctx, "ada@example.com").
			Return(&model.User{ID: "existing"}, nil)

		_, err := svc.Signup(ctx, SignupInput{Email: "ada@example.com", Password: "s3cret"})

		assert.ErrorIs(t, err, ErrEmailTaken)
		mRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate insert losing the race still reports email taken", func(t *testing.T) {
		mRepo := new(repoMocks.MockUserRepository)
		svc := NewAuthService(mRepo, auth.NewMemoryRegistry(), testAuthConfig())

		// Pre-check sees no user, but a concurrent signup wins the insert.
		mRepo.On("FindByIdentifier", ctx, "ada@example.com").Return(nil, sql.ErrNoRows)
		mRepo.On("Create", ctx, mock.Anything).Return(nil, repository.ErrDuplicateEmail)

		_, err := svc.Signup(ctx, SignupInput{Email: "ada@example.com", Password: "s3cret"})

		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("insert error is surfaced", func(t *testing.T) {
		mRepo := new(repoMocks.MockUserRepository)
		svc := NewAuthService(mRepo, auth.NewMemoryRegistry(), testAuthConfig())

		mRepo.On("FindByIdentifier", ctx, "ada@example.com").Return(nil, sql.ErrNoRows)
		mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))

		_, err := svc.Signup(ctx, SignupInput{Email: "ada@example.com", Password: "s3cret"})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "db fail")
	})
}

func TestAuthService_Signin(t *testing.T) {
	ctx := context.Background()

	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	storedUser := &model.User{ID: "user-1", Email: "ada@example.com", PasswordHash: hash}

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockUserRepository)
		registry := auth.NewMemoryRegistry()
		cfg := testAuthConfig()
		svc := NewAuthService(mRepo, registry, cfg)

		mRepo.On("FindByIdentifier", ctx, "ada@example.com").Return(storedUser, nil)

		pair, err := svc.Signin(ctx, "ada@example.com", "s3cret")

		require.NoError(t, err)
		userID, err := auth.ParseToken(pair.AccessToken, []byte(cfg.AccessSecret))
		require.NoError(t, err)
		assert.Equal(t, "user-1", userID)
		assert.True(t, registry.IsValid(pair.RefreshToken))
	})

	t.Run("wrong password and unknown identifier are indistinguishable", func(t *testing.T) {
		mRepo := new(repoMocks.MockUserRepository)
		svc := NewAuthService(mRepo, auth.NewMemoryRegistry(), testAuthConfig())

		mRepo.On("FindByIdentifier", ctx, "ada@example.com").Return(storedUser, nil)
		mRepo.On("FindByIdentifier", ctx, "nobody@example.com").Return(nil, sql.ErrNoRows)

		_, errWrongPass := svc.Signin(ctx, "ada@example.com", "wrong")
		_, errUnknown := svc.Signin(ctx, "nobody@example.com", "s3cret")

		assert.ErrorIs(t, errWrongPass, ErrInvalidCredentials)
		assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
		assert.Equal(t, errWrongPass, errUnknown)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()
	cfg := testAuthConfig()

	t.Run("never registered", func(t *testing.T) {
		svc := NewAuthService(new(repoMocks.MockUserRepository), auth.NewMemoryRegistry(), cfg)

		_, err := svc.Refresh(ctx, "never-seen")
		assert.ErrorIs(t, err, ErrRefreshNotRegistered)
	})

	t.Run("registered but invalid token", func(t *testing.T) {
		registry := auth.NewMemoryRegistry()
		svc := NewAuthService(new(repoMocks.MockUserRepository), registry, cfg)

		expired, err := auth.GenerateToken("user-1", []byte(cfg.RefreshSecret), -time.Minute)
		require.NoError(t, err)
		registry.Register(expired)

		_, err = svc.Refresh(ctx, expired)
		assert.ErrorIs(t, err, ErrRefreshInvalid)
		// Bad tokens get kicked out of the registry.
		assert.False(t, registry.IsValid(expired))
	})

	t.Run("valid refresh mints new access token", func(t *testing.T) {
		registry := auth.NewMemoryRegistry()
		svc := NewAuthService(new(repoMocks.MockUserRepository), registry, cfg)

		refresh, err := auth.GenerateToken("user-1", []byte(cfg.RefreshSecret), time.Hour)
		require.NoError(t, err)
		registry.Register(refresh)

		access, err := svc.Refresh(ctx, refresh)
		require.NoError(t, err)

		userID, err := auth.ParseToken(access, []byte(cfg.AccessSecret))
		require.NoError(t, err)
		assert.Equal(t, "user-1", userID)
	})

	t.Run("logout then refresh", func(t *testing.T) {
		registry := auth.NewMemoryRegistry()
		svc := NewAuthService(new(repoMocks.MockUserRepository), registry, cfg)

		refresh, err := auth.GenerateToken("user-1", []byte(cfg.RefreshSecret), time.Hour)
		require.NoError(t, err)
		registry.Register(refresh)

		svc.Logout(ctx, refresh)

		_, err = svc.Refresh(ctx, refresh)
		assert.ErrorIs(t, err, ErrRefreshNotRegistered)
	})
}

func TestAuthService_LogoutUnknownToken(t *testing.T) {
	svc := NewAuthService(new(repoMocks.MockUserRepository), auth.NewMemoryRegistry(), testAuthConfig())
	// Must not panic or care whether the token was ever registered.
	svc.Logout(context.Background(), "never-registered")
}
