package services

import (
	"context"
	"fmt"
	"math"

	"github.com/yigit/skillshare/internal/app/models"
	"github.com/yigit/skillshare/internal/app/models/dto"
	"github.com/yigit/skillshare/internal/app/repositories"
)

// StatsService computes the teaching dashboard summary
type StatsService interface {
	TeachingStats(ctx context.Context, ownerID string) (*dto.TeachingStatsResponse, error)
}

type statsServiceImpl struct {
	skills   SkillStore
	sessions StatsReader
}

// NewStatsService creates a new StatsService
func NewStatsService(skills SkillStore, sessions StatsReader) StatsService {
	return &statsServiceImpl{skills: skills, sessions: sessions}
}

// TeachingStats summarises the owner's skills and sessions
func (s *statsServiceImpl) TeachingStats(ctx context.Context, ownerID string) (*dto.TeachingStatsResponse, error) {
	counts, err := s.skills.CountByStatus(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error counting skills: %w", err)
	}
	owned, err := s.skills.List(ctx, repositories.SkillFilter{OwnerID: ownerID})
	if err != nil {
		return nil, fmt.Errorf("error loading skills: %w", err)
	}
	sessions, err := s.sessions.StatsForInstructor(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error loading session stats: %w", err)
	}

	resp := &dto.TeachingStatsResponse{
		PublishedSkills: counts[models.StatusPublished],
		DraftSkills:     counts[models.StatusDraft],
		ArchivedSkills:  counts[models.StatusArchived],
		TotalStudents:   sessions.Learners,
		TotalHours:      math.Round(float64(sessions.Minutes)/6) / 10,
	}
	resp.TotalSkills = resp.PublishedSkills + resp.DraftSkills + resp.ArchivedSkills

	var weighted float64
	for _, sk := range owned {
		weighted += sk.Rating * float64(sk.RatingCount)
		resp.Reviews += sk.RatingCount
	}
	if resp.Reviews > 0 {
		resp.Rating = dto.RoundRating(weighted / float64(resp.Reviews))
	}
	if sessions.NotCancelled > 0 {
		resp.CompletionRate = sessions.Completed * 100 / sessions.NotCancelled
	}
	return resp, nil
}
