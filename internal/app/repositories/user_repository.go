package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/yigit/skillshare/internal/app/models"
	"github.com/yigit/skillshare/internal/db"
	"github.com/yigit/skillshare/internal/pkg/apperrors"
	"github.com/yigit/skillshare/internal/pkg/dberrors"
	"github.com/yigit/skillshare/internal/pkg/helpers"
	"github.com/yigit/skillshare/internal/pkg/logger"
)

var userColumns = []string{
	"id", "name", "email", "password_hash", "roles", "title", "bio", "avatar_url", "created_at", "updated_at",
}

// UserRepository handles user database operations
type UserRepository struct {
	store
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(database *db.DB) *UserRepository {
	return &UserRepository{store: newStore(database)}
}

// WithTx returns a copy bound to tx.
func (r *UserRepository) WithTx(tx *sqlx.Tx) *UserRepository {
	return &UserRepository{store: r.withTx(tx)}
}

// Create inserts a new user. Emails are stored lower-cased.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if len(user.Roles) == 0 {
		user.Roles = models.Roles{models.RoleLearner}
	}
	now := helpers.Now()
	user.CreatedAt, user.UpdatedAt = now, now

	stmt := r.sb().Insert("users").
		Columns(userColumns...).
		Values(user.ID, user.Name, user.Email, user.PasswordHash, user.Roles, user.Title, user.Bio,
			user.AvatarURL, user.CreatedAt, user.UpdatedAt)

	if _, err := r.exec(ctx, stmt); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error creating user")
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	stmt := r.sb().Select(userColumns...).From("users").Where(squirrel.Eq{"id": id})
	if err := r.get(ctx, &user, stmt, apperrors.ErrUserNotFound); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by email, case-insensitively
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	stmt := r.sb().Select(userColumns...).From("users").
		Where(squirrel.Eq{"email": strings.ToLower(strings.TrimSpace(email))})
	if err := r.get(ctx, &user, stmt, apperrors.ErrUserNotFound); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByIDs loads the given users keyed by id. Unknown ids are skipped.
func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	out := make(map[string]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var users []models.User
	stmt := r.sb().Select(userColumns...).From("users").Where(squirrel.Eq{"id": ids})
	if err := r.selectAll(ctx, &users, stmt); err != nil {
		return nil, fmt.Errorf("error loading users: %w", err)
	}
	for i := range users {
		out[users[i].ID] = &users[i]
	}
	return out, nil
}

// UpdateProfile stores the editable profile fields.
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	user.UpdatedAt = helpers.Now()
	stmt := r.sb().Update("users").
		Set("name", user.Name).
		Set("title", user.Title).
		Set("bio", user.Bio).
		Set("avatar_url", user.AvatarURL).
		Set("updated_at", user.UpdatedAt).
		Where(squirrel.Eq{"id": user.ID})

	n, err := r.exec(ctx, stmt)
	if err != nil {
		return fmt.Errorf("error updating profile: %w", err)
	}
	if n == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdateRoles replaces the role set of a user.
func (r *UserRepository) UpdateRoles(ctx context.Context, userID string, roles models.Roles) error {
	stmt := r.sb().Update("users").
		Set("roles", roles).
		Set("updated_at", helpers.Now()).
		Where(squirrel.Eq{"id": userID})

	n, err := r.exec(ctx, stmt)
	if err != nil {
		return fmt.Errorf("error updating roles: %w", err)
	}
	if n == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
