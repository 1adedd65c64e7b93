package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/yigit/skillshare/internal/app/models"
	"github.com/yigit/skillshare/internal/db"
	"github.com/yigit/skillshare/internal/pkg/apperrors"
	"github.com/yigit/skillshare/internal/pkg/dberrors"
	"github.com/yigit/skillshare/internal/pkg/helpers"
	"github.com/yigit/skillshare/internal/pkg/logger"
)

// TokenRepository handles refresh token database operations
type TokenRepository struct {
	store
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(database *db.DB) *TokenRepository {
	return &TokenRepository{store: newStore(database)}
}

// CreateToken creates a new refresh token
func (r *TokenRepository) CreateToken(ctx context.Context, token, userID string, expiresAt time.Time) error {
	stmt := r.sb().Insert("refresh_tokens").
		Columns("token", "user_id", "expires_at", "revoked", "created_at").
		Values(token, userID, expiresAt.UTC(), false, helpers.Now())

	if _, err := r.exec(ctx, stmt); err != nil {
		if dberrors.IsUniqueViolation(err) {
			logger.Warn().Str("userID", userID).Msg("Attempted to create duplicate token")
			return apperrors.ErrTokenInvalid
		}
		logger.Error().Err(err).Str("userID", userID).Msg("Error executing create token query")
		return fmt.Errorf("error creating token: %w", err)
	}
	return nil
}

// GetTokenByValue returns a usable refresh token. Revoked and expired tokens are reported as errors.
func (r *TokenRepository) GetTokenByValue(ctx context.Context, token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	stmt := r.sb().Select("token", "user_id", "expires_at", "revoked", "created_at").
		From("refresh_tokens").
		Where(squirrel.Eq{"token": token})

	if err := r.get(ctx, &rt, stmt, apperrors.ErrTokenNotFound); err != nil {
		return nil, err
	}
	if rt.Revoked {
		return nil, apperrors.ErrTokenRevoked
	}
	if rt.ExpiresAt.Before(helpers.Now()) {
		return nil, apperrors.ErrTokenExpired
	}
	return &rt, nil
}

// RevokeToken revokes a token
func (r *TokenRepository) RevokeToken(ctx context.Context, token string) error {
	stmt := r.sb().Update("refresh_tokens").
		Set("revoked", true).
		Where(squirrel.Eq{"token": token})

	n, err := r.exec(ctx, stmt)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing revoke token query")
		return fmt.Errorf("error revoking token: %w", err)
	}
	if n == 0 {
		return apperrors.ErrTokenNotFound
	}
	return nil
}

// RevokeAllUserTokens revokes every active token of a user
func (r *TokenRepository) RevokeAllUserTokens(ctx context.Context, userID string) error {
	stmt := r.sb().Update("refresh_tokens").
		Set("revoked", true).
		Where(squirrel.Eq{"user_id": userID, "revoked": false})

	if _, err := r.exec(ctx, stmt); err != nil {
		logger.Error().Err(err).Str("userID", userID).Msg("Error executing revoke all user tokens query")
		return fmt.Errorf("error revoking user tokens: %w", err)
	}
	return nil
}

// CleanupExpiredTokens removes expired tokens and revoked tokens older than 30 days
func (r *TokenRepository) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	now := helpers.Now()
	stmt := r.sb().Delete("refresh_tokens").
		Where(squirrel.Or{
			squirrel.Lt{"expires_at": now},
			squirrel.And{
				squirrel.Eq{"revoked": true},
				squirrel.Lt{"created_at": now.Add(-30 * 24 * time.Hour)},
			},
		})

	n, err := r.exec(ctx, stmt)
	if err != nil {
		return 0, fmt.Errorf("error cleaning up tokens: %w", err)
	}
	return n, nil
}
