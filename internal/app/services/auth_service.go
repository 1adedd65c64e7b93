package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yigit/skillshare/internal/app/models"
	"github.com/yigit/skillshare/internal/app/models/dto"
	"github.com/yigit/skillshare/internal/pkg/apperrors"
	"github.com/yigit/skillshare/internal/pkg/auth"
)

// AuthService handles authentication operations
type AuthService struct {
	users      UserStore
	tokens     TokenStore
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserStore, tokens TokenStore, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		jwtService: jwtService,
		logger:     logger,
	}
}

// validatePassword checks if password meets requirements
func validatePassword(password string) error {
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	fields := map[string]string{}
	if len(password) < 8 {
		fields["password"] = "password must be at least 8 characters long"
	} else if !hasLetter || !hasDigit {
		fields["password"] = "password must contain at least one letter and one digit"
	}
	if len(fields) > 0 {
		return apperrors.NewValidationError("invalid password", fields)
	}
	return nil
}

// Register creates an account and signs the user in
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	roles := models.Roles{models.RoleLearner}
	if req.Instructor {
		roles = roles.With(models.RoleInstructor)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: hash,
		Roles:        roles,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("user creation error: %w", err)
	}

	s.logger.Info().Str("userID", user.ID).Strs("roles", user.Roles.Strings()).Msg("User registered")
	return s.issueTokens(ctx, user)
}

// Login authenticates a user by email and password
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Warn().Str("userID", user.ID).Msg("Failed login attempt")
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// RefreshToken rotates a refresh token and returns a new token pair
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	stored, err := s.tokens.GetTokenByValue(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if err := s.tokens.RevokeToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("error revoking refresh token: %w", err)
	}

	return s.issueTokens(ctx, user)
}

// BecomeInstructor grants the instructor role and returns tokens that carry it
func (s *AuthService) BecomeInstructor(ctx context.Context, userID string) (*dto.AuthResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !user.IsInstructor() {
		user.Roles = user.Roles.With(models.RoleInstructor)
		if err := s.users.UpdateRoles(ctx, user.ID, user.Roles); err != nil {
			return nil, fmt.Errorf("error granting instructor role: %w", err)
		}
		s.logger.Info().Str("userID", user.ID).Msg("Instructor role granted")
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes every refresh token of the user. Access tokens stay valid until they expire.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.tokens.RevokeAllUserTokens(ctx, userID); err != nil {
		return err
	}
	s.logger.Info().Str("userID", userID).Msg("User logged out")
	return nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	pair, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.CreateToken(ctx, pair.RefreshToken, user.ID, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken:           pair.AccessToken,
			TokenType:             "Bearer",
			ExpiresIn:             int64(pair.ExpiresIn),
			RefreshToken:          pair.RefreshToken,
			RefreshTokenExpiresIn: int64(pair.RefreshExpiresIn),
		},
		User: dto.NewUserResponse(user),
	}, nil
}
