package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/yigit/skillshare/internal/app/models"
	"github.com/yigit/skillshare/internal/db"
	"github.com/yigit/skillshare/internal/pkg/apperrors"
	"github.com/yigit/skillshare/internal/pkg/dberrors"
)

// ReviewRepository handles review database operations
type ReviewRepository struct {
	store
}

// NewReviewRepository creates a new ReviewRepository
func NewReviewRepository(database *db.DB) *ReviewRepository {
	return &ReviewRepository{store: newStore(database)}
}

// WithTx returns a copy bound to tx.
func (r *ReviewRepository) WithTx(tx *sqlx.Tx) *ReviewRepository {
	return &ReviewRepository{store: r.withTx(tx)}
}

// Create inserts a review. A second review by the same author on the same skill is rejected.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	stmt := r.sb().Insert("reviews").
		Columns("id", "skill_id", "author_id", "rating", "comment", "created_at").
		Values(review.ID, review.SkillID, review.AuthorID, review.Rating, review.Comment, review.CreatedAt)

	if _, err := r.exec(ctx, stmt); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrReviewAlreadyExists
		}
		return fmt.Errorf("error creating review: %w", err)
	}
	return nil
}

// ListBySkill returns one page of reviews, newest first, with the author's display fields.
func (r *ReviewRepository) ListBySkill(ctx context.Context, skillID string, offset, limit uint64) ([]models.ReviewWithAuthor, int64, error) {
	var total int64
	countStmt := r.sb().Select("COUNT(*)").From("reviews").Where(squirrel.Eq{"skill_id": skillID})
	if err := r.get(ctx, &total, countStmt, nil); err != nil {
		return nil, 0, fmt.Errorf("error counting reviews: %w", err)
	}

	reviews := []models.ReviewWithAuthor{}
	stmt := r.sb().Select(
		"r.id", "r.skill_id", "r.author_id", "r.rating", "r.comment", "r.created_at",
		"u.name AS author_name", "u.avatar_url AS author_avatar",
	).
		From("reviews r").
		Join("users u ON u.id = r.author_id").
		Where(squirrel.Eq{"r.skill_id": skillID}).
		OrderBy("r.created_at DESC", "r.id ASC").
		Offset(offset).
		Limit(limit)

	if err := r.selectAll(ctx, &reviews, stmt); err != nil {
		return nil, 0, fmt.Errorf("error listing reviews: %w", err)
	}
	return reviews, total, nil
}

// RatingDistribution counts reviews per star value (1 to 5).
func (r *ReviewRepository) RatingDistribution(ctx context.Context, skillID string) (map[int]int, error) {
	var rows []struct {
		Rating int `db:"rating"`
		Count  int `db:"n"`
	}
	stmt := r.sb().Select("rating", "COUNT(*) AS n").
		From("reviews").
		Where(squirrel.Eq{"skill_id": skillID}).
		GroupBy("rating")

	if err := r.selectAll(ctx, &rows, stmt); err != nil {
		return nil, fmt.Errorf("error loading rating distribution: %w", err)
	}

	out := make(map[int]int, 5)
	for star := 1; star <= 5; star++ {
		out[star] = 0
	}
	for _, row := range rows {
		out[row.Rating] = row.Count
	}
	return out, nil
}
