package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"velan-store/internal/auth"
	"velan-store/internal/model"
	"velan-store/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// authService implements AuthService.
type authService struct {
	userRepo  repository.UserRepository
	tokens    *auth.Manager
	passwords *auth.Passwords
	logger    zerolog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	userRepo repository.UserRepository,
	tokens *auth.Manager,
	passwords *auth.Passwords,
	logger zerolog.Logger,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger.With().Str("service", "auth").Logger(),
	}
}

// Register creates an account and returns a signed token.
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if name == "" || email == "" || req.Password == "" {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "Name, email and password are required")
	}
	if len(req.Password) < 6 {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "Password must be at least 6 characters")
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	if existing != nil {
		s.logger.Warn().Str("email", email).Msg("registration with existing email")
		return nil, model.ErrDuplicateEmail
	}

	hash, err := s.passwords.Hash(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		Phone:        strings.TrimSpace(req.Phone),
		Addresses:    []model.Address{},
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	token, _, err := s.tokens.SignAccess(user.ID, user.Role)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to sign access token")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user registered")
	return &model.AuthResponse{Token: token, User: user}, nil
}

// Login verifies credentials and returns a signed token.
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "Email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to log in: %w", err)
	}
	if user == nil || !s.passwords.Compare(user.PasswordHash, req.Password) {
		s.logger.Warn().Str("email", email).Msg("failed login attempt")
		return nil, model.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		// Login still succeeds; the stamp is informational.
		s.logger.Warn().Err(err).Str("user_id", user.ID.String()).Msg("failed to stamp last login")
	} else {
		user.LastLogin = &now
	}

	token, _, err := s.tokens.SignAccess(user.ID, user.Role)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to sign access token")
		return nil, fmt.Errorf("failed to log in: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user logged in")
	return &model.AuthResponse{Token: token, User: user}, nil
}
