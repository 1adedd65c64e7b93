package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/yigit/skillshare/internal/app/models"
	"github.com/yigit/skillshare/internal/db"
	"github.com/yigit/skillshare/internal/pkg/apperrors"
	"github.com/yigit/skillshare/internal/pkg/helpers"
	"github.com/yigit/skillshare/internal/pkg/logger"
)

var skillColumns = []string{
	"id", "owner_id", "name", "description", "category", "level", "status", "rating", "rating_count",
	"views", "students", "image_url", "preview_video_url", "modules", "learning_outcomes", "prerequisites",
	"version", "published_at", "created_at", "updated_at",
}

// SkillFilter narrows a skill listing. Zero values mean "any".
type SkillFilter struct {
	OwnerID   string
	Statuses  []models.SkillStatus
	Category  models.Category
	ExcludeID string
}

// SkillRepository handles skill database operations. Content and status writes are
// compare-and-swap on the version column.
type SkillRepository struct {
	store
}

// NewSkillRepository creates a new SkillRepository
func NewSkillRepository(database *db.DB) *SkillRepository {
	return &SkillRepository{store: newStore(database)}
}

// WithTx returns a copy bound to tx.
func (r *SkillRepository) WithTx(tx *sqlx.Tx) *SkillRepository {
	return &SkillRepository{store: r.withTx(tx)}
}

// Create inserts a new skill at version 1.
func (r *SkillRepository) Create(ctx context.Context, skill *models.Skill) error {
	now := helpers.Now()
	if skill.CreatedAt.IsZero() {
		skill.CreatedAt = now
	}
	skill.UpdatedAt = now
	skill.Version = 1

	stmt := r.sb().Insert("skills").
		Columns(skillColumns...).
		Values(skill.ID, skill.OwnerID, skill.Name, skill.Description, skill.Category, skill.Level, skill.Status,
			skill.Rating, skill.RatingCount, skill.Views, skill.Students, skill.ImageURL, skill.PreviewVideoURL,
			skill.Modules, skill.LearningOutcomes, skill.Prerequisites, skill.Version, skill.PublishedAt,
			skill.CreatedAt, skill.UpdatedAt)

	if _, err := r.exec(ctx, stmt); err != nil {
		logger.Error().Err(err).Str("ownerID", skill.OwnerID).Msg("Error creating skill")
		return fmt.Errorf("error creating skill: %w", err)
	}
	return nil
}

// GetByID retrieves a skill by ID regardless of status
func (r *SkillRepository) GetByID(ctx context.Context, id string) (*models.Skill, error) {
	var skill models.Skill
	stmt := r.sb().Select(skillColumns...).From("skills").Where(squirrel.Eq{"id": id})
	if err := r.get(ctx, &skill, stmt, apperrors.ErrSkillNotFound); err != nil {
		return nil, err
	}
	return &skill, nil
}

// List returns the skills matching filter. Ordering is left to the catalog engine.
func (r *SkillRepository) List(ctx context.Context, filter SkillFilter) ([]models.Skill, error) {
	stmt := r.sb().Select(skillColumns...).From("skills")
	if filter.OwnerID != "" {
		stmt = stmt.Where(squirrel.Eq{"owner_id": filter.OwnerID})
	}
	if len(filter.Statuses) > 0 {
		stmt = stmt.Where(squirrel.Eq{"status": filter.Statuses})
	}
	if filter.Category != "" {
		stmt = stmt.Where(squirrel.Eq{"category": filter.Category})
	}
	if filter.ExcludeID != "" {
		stmt = stmt.Where(squirrel.NotEq{"id": filter.ExcludeID})
	}

	skills := []models.Skill{}
	if err := r.selectAll(ctx, &skills, stmt); err != nil {
		return nil, fmt.Errorf("error listing skills: %w", err)
	}
	return skills, nil
}

// Update writes the content and status of skill if the stored row still has expectedStatus
// and expectedVersion. It reports false when the guard did not match. On success skill.Version
// is advanced to the stored value.
func (r *SkillRepository) Update(ctx context.Context, skill *models.Skill, expectedStatus models.SkillStatus, expectedVersion int) (bool, error) {
	now := helpers.Now()
	stmt := r.sb().Update("skills").
		Set("name", skill.Name).
		Set("description", skill.Description).
		Set("category", skill.Category).
		Set("level", skill.Level).
		Set("status", skill.Status).
		Set("preview_video_url", skill.PreviewVideoURL).
		Set("modules", skill.Modules).
		Set("learning_outcomes", skill.LearningOutcomes).
		Set("prerequisites", skill.Prerequisites).
		Set("published_at", skill.PublishedAt).
		Set("updated_at", now).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": skill.ID, "status": expectedStatus, "version": expectedVersion})

	n, err := r.exec(ctx, stmt)
	if err != nil {
		return false, fmt.Errorf("error updating skill: %w", err)
	}
	if n == 0 {
		return false, nil
	}
	skill.Version = expectedVersion + 1
	skill.UpdatedAt = now
	return true, nil
}

// Delete removes the skill if it is in one of allowed and still at expectedVersion.
// Reviews and sessions go with it through ON DELETE CASCADE.
func (r *SkillRepository) Delete(ctx context.Context, id string, allowed []models.SkillStatus, expectedVersion int) (bool, error) {
	stmt := r.sb().Delete("skills").
		Where(squirrel.Eq{"id": id, "status": allowed, "version": expectedVersion})

	n, err := r.exec(ctx, stmt)
	if err != nil {
		return false, fmt.Errorf("error deleting skill: %w", err)
	}
	return n > 0, nil
}

// SetImage stores a new cover image URL.
func (r *SkillRepository) SetImage(ctx context.Context, id, imageURL string) error {
	stmt := r.sb().Update("skills").
		Set("image_url", imageURL).
		Set("updated_at", helpers.Now()).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": id})

	n, err := r.exec(ctx, stmt)
	if err != nil {
		return fmt.Errorf("error updating skill image: %w", err)
	}
	if n == 0 {
		return apperrors.ErrSkillNotFound
	}
	return nil
}

// IncrementViews counts a public detail read. Only published skills are counted.
func (r *SkillRepository) IncrementViews(ctx context.Context, id string) error {
	stmt := r.sb().Update("skills").
		Set("views", squirrel.Expr("views + 1")).
		Where(squirrel.Eq{"id": id, "status": models.StatusPublished})

	if _, err := r.exec(ctx, stmt); err != nil {
		return fmt.Errorf("error incrementing views: %w", err)
	}
	return nil
}

// IncrementStudents counts a new learner for the skill.
func (r *SkillRepository) IncrementStudents(ctx context.Context, id string) error {
	stmt := r.sb().Update("skills").
		Set("students", squirrel.Expr("students + 1")).
		Where(squirrel.Eq{"id": id})

	if _, err := r.exec(ctx, stmt); err != nil {
		return fmt.Errorf("error incrementing students: %w", err)
	}
	return nil
}

// UpdateRating stores a new aggregate if the skill is published and its rating count is
// still expectedCount. It reports false when the guard did not match.
func (r *SkillRepository) UpdateRating(ctx context.Context, id string, rating float64, count, expectedCount int) (bool, error) {
	stmt := r.sb().Update("skills").
		Set("rating", rating).
		Set("rating_count", count).
		Where(squirrel.Eq{"id": id, "status": models.StatusPublished, "rating_count": expectedCount})

	n, err := r.exec(ctx, stmt)
	if err != nil {
		return false, fmt.Errorf("error updating rating: %w", err)
	}
	return n > 0, nil
}

// CountByStatus returns how many skills the owner has per status.
func (r *SkillRepository) CountByStatus(ctx context.Context, ownerID string) (map[models.SkillStatus]int, error) {
	var rows []struct {
		Status models.SkillStatus `db:"status"`
		Count  int                `db:"n"`
	}
	stmt := r.sb().Select("status", "COUNT(*) AS n").
		From("skills").
		Where(squirrel.Eq{"owner_id": ownerID}).
		GroupBy("status")

	if err := r.selectAll(ctx, &rows, stmt); err != nil {
		return nil, fmt.Errorf("error counting skills: %w", err)
	}

	out := make(map[models.SkillStatus]int, len(models.SkillStatuses))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

