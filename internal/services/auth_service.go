package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/campuskit/school-service/internal/auth"
	"github.com/campuskit/school-service/internal/cache"
	"github.com/campuskit/school-service/internal/models"
	"github.com/campuskit/school-service/internal/repositories"
	"github.com/campuskit/school-service/internal/validator"
)

// LoginResult carries the issued token and the authenticated user.
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expires_in"`
	User      *models.User `json:"user"`
}

// AuthService owns credential login and identity administration.
type AuthService struct {
	users     repositories.UserRepository
	codec     *auth.Codec
	userCache *cache.Cache
	tokenTTL  time.Duration
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAuthService(users repositories.UserRepository, codec *auth.Codec, userCache *cache.Cache, tokenTTL time.Duration, logger *slog.Logger, v *validator.Validator) *AuthService {
	return &AuthService{
		users:     users,
		codec:     codec,
		userCache: userCache,
		tokenTTL:  tokenTTL,
		logger:    logger,
		validator: v,
	}
}

// Login checks the credential and the claimed role against the stored
// account and issues a token. Unknown username and wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req validator.LoginRequest) (*LoginResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	// No codec means tokens come from the external provider and local
	// credential login is disabled.
	if s.codec == nil {
		return nil, auth.ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login lookup: %w", err)
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		return nil, auth.ErrInvalidCredentials
	}
	if user.Role != models.UserRole(req.Role) {
		return nil, auth.ErrRoleMismatch
	}
	if !user.IsActive() {
		return nil, auth.ErrInactiveAccount
	}

	token, err := s.codec.Issue(user.ID, user.Role, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID, "role", user.Role)
	return &LoginResult{Token: token, ExpiresIn: int64(s.tokenTTL.Seconds()), User: user}, nil
}

// Register creates a new identity. Uniqueness violations surface as
// repositories.ErrConstraintViolation.
func (s *AuthService) Register(ctx context.Context, req validator.RegisterRequest) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         models.UserRole(req.Role),
		Status:       models.StatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// ChangePassword rotates the caller's own credential after re-checking it.
func (s *AuthService) ChangePassword(ctx context.Context, userID string, req validator.ChangePasswordRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := auth.CheckPassword(user.PasswordHash, req.CurrentPassword); err != nil {
		return auth.ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.SetPasswordHash(ctx, userID, hash)
}

// SetStatus transitions an account and drops its cached identity so the
// change takes effect on the next request, not at cache expiry.
func (s *AuthService) SetStatus(ctx context.Context, userID string, status models.UserStatus) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.users.SetStatus(ctx, userID, status); err != nil {
		return err
	}

	keys := []string{"id:" + userID}
	if user.Email != nil {
		keys = append(keys, "email:"+*user.Email)
	}
	s.userCache.Delete(ctx, keys...)

	s.logger.Info("user status changed", "user_id", userID, "status", status)
	return nil
}

// GetIdentity returns the stored user for a resolved identity id.
func (s *AuthService) GetIdentity(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// ListIdentities pages through identities for administration.
func (s *AuthService) ListIdentities(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	return s.users.List(ctx, filters)
}

// DeleteIdentity hard-deletes an account and its cached entries.
func (s *AuthService) DeleteIdentity(ctx context.Context, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return err
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}

	keys := []string{"id:" + userID}
	if user.Email != nil {
		keys = append(keys, "email:"+*user.Email)
	}
	s.userCache.Delete(ctx, keys...)
	return nil
}
