package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/yigit/skillshare/internal/app/catalog"
	"github.com/yigit/skillshare/internal/app/models"
	"github.com/yigit/skillshare/internal/app/models/dto"
	"github.com/yigit/skillshare/internal/app/repositories"
	"github.com/yigit/skillshare/internal/db"
	"github.com/yigit/skillshare/internal/pkg/apperrors"
	"github.com/yigit/skillshare/internal/pkg/helpers"
)

// ReviewService defines the review append operation
type ReviewService interface {
	AddReview(ctx context.Context, actorID, skillID string, req *dto.CreateReviewRequest) (*dto.CreateReviewResponse, error)
}

// reviewServiceImpl implements ReviewService
type reviewServiceImpl struct {
	db       *db.DB
	skills   *repositories.SkillRepository
	reviews  *repositories.ReviewRepository
	users    UserStore
	notifier Notifier
	logger   zerolog.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(database *db.DB, repos *repositories.Repositories, notifier Notifier, logger zerolog.Logger) ReviewService {
	return &reviewServiceImpl{
		db:       database,
		skills:   repos.SkillRepository,
		reviews:  repos.ReviewRepository,
		users:    repos.UserRepository,
		notifier: notifier,
		logger:   logger,
	}
}

// AddReview appends a review and folds its rating into the skill's running average
// in one transaction
func (s *reviewServiceImpl) AddReview(ctx context.Context, actorID, skillID string, req *dto.CreateReviewRequest) (*dto.CreateReviewResponse, error) {
	review := &models.Review{
		ID:        uuid.NewString(),
		SkillID:   skillID,
		AuthorID:  actorID,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
		CreatedAt: helpers.Now(),
	}

	var skill *models.Skill
	var rating float64
	var count int

	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		skills := s.skills.WithTx(tx)

		var err error
		skill, err = skills.GetByID(ctx, skillID)
		if err != nil {
			return err
		}
		if skill.Status != models.StatusPublished {
			return apperrors.ErrSkillNotFound
		}
		if skill.IsOwnedBy(actorID) {
			return apperrors.NewForbiddenError("you cannot review your own skill")
		}

		if err := s.reviews.WithTx(tx).Create(ctx, review); err != nil {
			return err
		}

		rating = catalog.RunningAverage(skill.Rating, skill.RatingCount, review.Rating)
		count = skill.RatingCount + 1
		ok, err := skills.UpdateRating(ctx, skill.ID, rating, count, skill.RatingCount)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.NewConflictError("the rating changed while your review was saved; please submit again")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("skillID", skillID).Str("authorID", actorID).Int("rating", review.Rating).Msg("Review added")

	s.notifier.Notify(ctx, skill.OwnerID, models.NotificationReviewReceived,
		fmt.Sprintf("New %d-star review on %q", review.Rating, skill.Name), "/skills/"+skill.ID)

	row := models.ReviewWithAuthor{Review: *review}
	if author, err := s.users.GetByID(ctx, actorID); err == nil {
		row.AuthorName = author.Name
		row.AuthorAvatar = author.AvatarURL
	}

	return &dto.CreateReviewResponse{
		Review:      dto.NewReviewResponse(&row),
		Rating:      dto.RoundRating(rating),
		RatingCount: count,
	}, nil
}
