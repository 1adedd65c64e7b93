package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/skillshare/internal/app/models"
	"github.com/yigit/skillshare/internal/app/models/dto"
	"github.com/yigit/skillshare/internal/pkg/apperrors"
)

func TestAddReviewUpdatesRunningAverage(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.user(t, "Owner", models.RoleInstructor)
	learner := env.user(t, "Learner")
	skill := env.publishedSkill(t, owner.ID)

	ok, err := env.repos.SkillRepository.UpdateRating(ctx, skill.ID, 4.0, 2, 0)
	require.NoError(t, err)
	require.True(t, ok)

	svc := NewReviewService(env.db, env.repos, env.notifier, zerolog.Nop())
	resp, err := svc.AddReview(ctx, learner.ID, skill.ID, &dto.CreateReviewRequest{Rating: 5, Comment: "  great  "})
	require.NoError(t, err)

	assert.Equal(t, 4.33, resp.Rating)
	assert.Equal(t, 3, resp.RatingCount)
	assert.Equal(t, "great", resp.Review.Comment)
	assert.Equal(t, "Learner", resp.Review.AuthorName)

	stored, err := env.repos.SkillRepository.GetByID(ctx, skill.ID)
	require.NoError(t, err)
	assert.InDelta(t, 13.0/3.0, stored.Rating, 1e-9)
	assert.Equal(t, 3, stored.RatingCount)
	assert.Equal(t, skill.Version, stored.Version)

	sent := env.notifier.of(models.NotificationReviewReceived)
	require.Len(t, sent, 1)
	assert.Equal(t, owner.ID, sent[0].UserID)
}

func TestAddReviewRejections(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.user(t, "Owner", models.RoleInstructor)
	learner := env.user(t, "Learner")
	skill := env.publishedSkill(t, owner.ID)
	svc := NewReviewService(env.db, env.repos, env.notifier, zerolog.Nop())

	_, err := svc.AddReview(ctx, owner.ID, skill.ID, &dto.CreateReviewRequest{Rating: 5})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.AddReview(ctx, learner.ID, skill.ID, &dto.CreateReviewRequest{Rating: 3})
	require.NoError(t, err)
	_, err = svc.AddReview(ctx, learner.ID, skill.ID, &dto.CreateReviewRequest{Rating: 1})
	assert.ErrorIs(t, err, apperrors.ErrReviewAlreadyExists)
	assert.ErrorIs(t, err, apperrors.ErrResourceAlreadyExists)

	stored, err := env.repos.SkillRepository.GetByID(ctx, skill.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.RatingCount)
	assert.Equal(t, 3.0, stored.Rating)

	draft, err := env.lifecycle().Create(ctx, owner.ID, completeDraft("Draft"))
	require.NoError(t, err)
	_, err = svc.AddReview(ctx, learner.ID, draft.ID, &dto.CreateReviewRequest{Rating: 4})
	assert.ErrorIs(t, err, apperrors.ErrSkillNotFound)

	_, err = svc.AddReview(ctx, learner.ID, uuid.NewString(), &dto.CreateReviewRequest{Rating: 4})
	assert.ErrorIs(t, err, apperrors.ErrSkillNotFound)

	page, err := env.catalog().ListReviews(ctx, skill.ID, 1, 10)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}
