package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/skillshare/internal/app/models"
	"github.com/yigit/skillshare/internal/app/models/dto"
	"github.com/yigit/skillshare/internal/pkg/apperrors"
)

func TestCatalogListSkills(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.user(t, "Owner", models.RoleInstructor)
	svc := env.lifecycle()

	react, err := svc.Create(ctx, owner.ID, completeDraft("React Hooks"))
	require.NoError(t, err)
	_, err = svc.Apply(ctx, owner.ID, react.ID, CommandPublish)
	require.NoError(t, err)

	design := completeDraft("Figma")
	design.Category = string(models.CategoryDesign)
	figma, err := svc.Create(ctx, owner.ID, design)
	require.NoError(t, err)
	_, err = svc.Apply(ctx, owner.ID, figma.ID, CommandPublish)
	require.NoError(t, err)

	_, err = svc.Create(ctx, owner.ID, completeDraft("React Draft"))
	require.NoError(t, err)

	all, err := env.catalog().ListSkills(ctx, &dto.SkillQueryRequest{}, 1, 20)
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)

	found, err := env.catalog().ListSkills(ctx, &dto.SkillQueryRequest{Search: "REACT"}, 1, 20)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, react.ID, found.Items[0].ID)

	byCategory, err := env.catalog().ListSkills(ctx, &dto.SkillQueryRequest{Category: "design", SortBy: "nonsense"}, 1, 20)
	require.NoError(t, err)
	require.Len(t, byCategory.Items, 1)
	assert.Equal(t, figma.ID, byCategory.Items[0].ID)

	paged, err := env.catalog().ListSkills(ctx, &dto.SkillQueryRequest{}, 2, 1)
	require.NoError(t, err)
	assert.Len(t, paged.Items, 1)
	assert.Equal(t, int64(2), paged.Pagination.TotalItems)
	assert.Equal(t, 2, paged.Pagination.TotalPages)
}

func TestCatalogGetSkill(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.user(t, "Owner", models.RoleInstructor)
	learner := env.user(t, "Learner")
	skill := env.publishedSkill(t, owner.ID)

	reviews := NewReviewService(env.db, env.repos, env.notifier, zerolog.Nop())
	_, err := reviews.AddReview(ctx, learner.ID, skill.ID, &dto.CreateReviewRequest{Rating: 4})
	require.NoError(t, err)

	detail, err := env.catalog().GetSkill(ctx, skill.ID, learner.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.Views)
	assert.Equal(t, 2, detail.LessonCount)
	assert.Equal(t, 20, detail.TotalMinutes)
	assert.Equal(t, 100.0, detail.RatingDistribution[4])
	assert.Equal(t, 0.0, detail.RatingDistribution[1])
	require.NotNil(t, detail.Instructor)
	assert.Equal(t, "Owner", detail.Instructor.Name)

	_, err = env.catalog().GetSkill(ctx, skill.ID, owner.ID)
	require.NoError(t, err)
	_, err = env.catalog().GetSkill(ctx, skill.ID, "")
	require.NoError(t, err)

	stored, err := env.repos.SkillRepository.GetByID(ctx, skill.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Views)

	_, err = env.lifecycle().Apply(ctx, owner.ID, skill.ID, CommandArchive)
	require.NoError(t, err)
	_, err = env.catalog().GetSkill(ctx, skill.ID, learner.ID)
	assert.ErrorIs(t, err, apperrors.ErrSkillNotFound)
	_, err = env.catalog().ListReviews(ctx, skill.ID, 1, 10)
	assert.ErrorIs(t, err, apperrors.ErrSkillNotFound)
}

func TestCatalogGetRelated(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.user(t, "Owner", models.RoleInstructor)

	first := env.publishedSkill(t, owner.ID)
	second := env.publishedSkill(t, owner.ID)
	third := env.publishedSkill(t, owner.ID)
	ok, err := env.repos.SkillRepository.UpdateRating(ctx, third.ID, 5, 1, 0)
	require.NoError(t, err)
	require.True(t, ok)

	related, err := env.catalog().GetRelated(ctx, first.ID, 0)
	require.NoError(t, err)
	require.Len(t, related, 2)
	assert.Equal(t, third.ID, related[0].ID)
	assert.Equal(t, second.ID, related[1].ID)

	one, err := env.catalog().GetRelated(ctx, first.ID, 1)
	require.NoError(t, err)
	assert.Len(t, one, 1)
}

func TestDistributionPercentages(t *testing.T) {
	got := distributionPercentages(map[int]int{5: 2, 4: 1})
	assert.Equal(t, map[int]float64{1: 0, 2: 0, 3: 0, 4: 33.3, 5: 66.7}, got)
	assert.Equal(t, map[int]float64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}, distributionPercentages(nil))
}
