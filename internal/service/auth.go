package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fileapi/internal/auth"
	"fileapi/internal/config"
	"fileapi/internal/model"
	"fileapi/internal/repository"
)

var (
	// ErrInvalidCredentials is returned for both unknown identifiers and wrong
	// passwords so callers cannot tell which half failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken is returned when the signup email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrRefreshNotRegistered is returned when the refresh token is absent from the registry.
	ErrRefreshNotRegistered = errors.New("refresh token not registered")
	// ErrRefreshInvalid is returned when a registered refresh token fails verification.
	ErrRefreshInvalid = errors.New("refresh token invalid")
)

// TokenPair is the signin response payload.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// SignupInput carries the already-validated signup fields.
type SignupInput struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Password    string
}

// AuthService defines the authentication use cases.
type AuthService interface {
	// Signup hashes the password and creates the user row.
	Signup(ctx context.Context, in SignupInput) (*model.User, error)

	// Signin exchanges an identifier (email or phone) and password for a token
	// pair, registering the refresh token.
	Signin(ctx context.Context, identifier, password string) (*TokenPair, error)

	// Refresh exchanges a registered, valid refresh token for a new access token.
	Refresh(ctx context.Context, refreshToken string) (string, error)

	// Logout revokes the refresh token. Unknown tokens are ignored.
	Logout(ctx context.Context, refreshToken string)
}

type authService struct {
	users    repository.UserRepository
	registry auth.TokenRegistry
	cfg      config.AuthConfig
}

// NewAuthService constructs a new AuthService.
func NewAuthService(users repository.UserRepository, registry auth.TokenRegistry, cfg config.AuthConfig) AuthService {
	return &authService{users: users, registry: registry, cfg: cfg}
}

func (s *authService) Signup(ctx context.Context, in SignupInput) (*model.User, error) {
	// The column constraint is the real guard; this pre-check just turns the
	// common case into a clean client error.
	if _, err := s.users.FindByIdentifier(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lookup existing user: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PhoneNumber:  in.PhoneNumber,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	stored, err := s.users.Create(ctx, user)
	if err != nil {
		// A concurrent signup can slip past the pre-check; the constraint
		// still reports it as a duplicate, not a server fault.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return stored, nil
}

func (s *authService) Signin(ctx context.Context, identifier, password string) (*TokenPair, error) {
	user, err := s.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := auth.GenerateToken(user.ID, []byte(s.cfg.AccessSecret), s.cfg.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refreshToken, err := auth.GenerateToken(user.ID, []byte(s.cfg.RefreshSecret), s.cfg.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	s.registry.Register(refreshToken)

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if !s.registry.IsValid(refreshToken) {
		return "", ErrRefreshNotRegistered
	}

	userID, err := auth.ParseToken(refreshToken, []byte(s.cfg.RefreshSecret))
	if err != nil {
		// Expired or tampered tokens have no business staying registered.
		s.registry.Revoke(refreshToken)
		return "", ErrRefreshInvalid
	}

	accessToken, err := auth.GenerateToken(userID, []byte(s.cfg.AccessSecret), s.cfg.AccessTTL)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return accessToken, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) {
	s.registry.Revoke(refreshToken)
}
