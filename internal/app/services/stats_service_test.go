package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yigit/skillshare/internal/app/models"
	"github.com/yigit/skillshare/internal/app/repositories"
)

func TestTeachingStats(t *testing.T) {
	ctx := context.Background()
	skills := new(MockSkillStore)
	sessions := new(MockStatsReader)

	skills.On("CountByStatus", ctx, "owner").Return(map[models.SkillStatus]int{
		models.StatusPublished: 2,
		models.StatusDraft:     1,
	}, nil)
	skills.On("List", ctx, repositories.SkillFilter{OwnerID: "owner"}).Return([]models.Skill{
		{ID: "a", Rating: 4.0, RatingCount: 3},
		{ID: "b", Rating: 5.0, RatingCount: 1},
		{ID: "c"},
	}, nil)
	sessions.On("StatsForInstructor", ctx, "owner").Return(repositories.SessionStats{
		Completed:    2,
		NotCancelled: 3,
		Minutes:      135,
		Learners:     2,
	}, nil)

	stats, err := NewStatsService(skills, sessions).TeachingStats(ctx, "owner")
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalSkills)
	assert.Equal(t, 2, stats.PublishedSkills)
	assert.Equal(t, 1, stats.DraftSkills)
	assert.Equal(t, 0, stats.ArchivedSkills)
	assert.Equal(t, 2, stats.TotalStudents)
	assert.Equal(t, 2.3, stats.TotalHours)
	assert.Equal(t, 4.25, stats.Rating)
	assert.Equal(t, 4, stats.Reviews)
	assert.Equal(t, 66, stats.CompletionRate)

	skills.AssertExpectations(t)
	sessions.AssertExpectations(t)
}

func TestTeachingStatsEmptyAndFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("no activity", func(t *testing.T) {
		skills := new(MockSkillStore)
		sessions := new(MockStatsReader)
		skills.On("CountByStatus", ctx, "owner").Return(map[models.SkillStatus]int{}, nil)
		skills.On("List", ctx, mock.Anything).Return([]models.Skill{}, nil)
		sessions.On("StatsForInstructor", ctx, "owner").Return(repositories.SessionStats{}, nil)

		stats, err := NewStatsService(skills, sessions).TeachingStats(ctx, "owner")
		require.NoError(t, err)
		assert.Zero(t, stats.Rating)
		assert.Zero(t, stats.CompletionRate)
	})

	t.Run("storage error", func(t *testing.T) {
		skills := new(MockSkillStore)
		skills.On("CountByStatus", ctx, "owner").Return(nil, errors.New("boom"))

		_, err := NewStatsService(skills, new(MockStatsReader)).TeachingStats(ctx, "owner")
		assert.Error(t, err)
	})
}
