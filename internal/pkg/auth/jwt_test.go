package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/skillshare/internal/app/models"
	"github.com/yigit/skillshare/internal/pkg/apperrors"
)

func newService(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  exp,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "skillshare.test",
	})
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newService(time.Minute)
	user := &models.User{ID: "u-1", Email: "ada@example.com", Roles: models.Roles{models.RoleLearner, models.RoleInstructor}}

	pair, err := svc.GenerateTokenPair(user)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, 60, pair.ExpiresIn)

	claims, err := svc.ValidateAndExtractClaims(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.True(t, claims.HasRole(models.RoleInstructor))
}

func TestExpiredToken(t *testing.T) {
	svc := newService(-time.Minute)
	pair, err := svc.GenerateTokenPair(&models.User{ID: "u-1", Email: "a@b.c"})
	require.NoError(t, err)

	_, err = svc.ValidateAndExtractClaims(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestTokenSignedWithOtherSecret(t *testing.T) {
	pair, err := newService(time.Minute).GenerateTokenPair(&models.User{ID: "u-1", Email: "a@b.c"})
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Minute, TokenIssuer: "skillshare.test"})
	_, err = other.ValidateAndExtractClaims(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestExtractBearerToken(t *testing.T) {
	tok, err := ExtractBearerToken("Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, apperrors.ErrInvalidFormat)
	_, err = ExtractBearerToken("Bearer ")
	assert.ErrorIs(t, err, apperrors.ErrInvalidFormat)
}

func TestPasswordHashing(t *testing.T) {
	BcryptCost = bcrypt.MinCost
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
