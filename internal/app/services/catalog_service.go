package services

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/yigit/skillshare/internal/app/catalog"
	"github.com/yigit/skillshare/internal/app/models"
	"github.com/yigit/skillshare/internal/app/models/dto"
	"github.com/yigit/skillshare/internal/app/repositories"
	"github.com/yigit/skillshare/internal/pkg/apperrors"
	"github.com/yigit/skillshare/internal/pkg/helpers"
)

const (
	defaultRelatedLimit = 4
	maxRelatedLimit     = 20
)

// CatalogService defines the learner-facing read operations
type CatalogService interface {
	ListSkills(ctx context.Context, req *dto.SkillQueryRequest, page, size int) (*dto.SkillListResponse, error)
	GetSkill(ctx context.Context, id, viewerID string) (*dto.SkillDetailResponse, error)
	GetRelated(ctx context.Context, id string, limit int) ([]dto.SkillSummaryResponse, error)
	ListReviews(ctx context.Context, id string, page, size int) (*dto.ReviewListResponse, error)
}

// catalogServiceImpl implements CatalogService
type catalogServiceImpl struct {
	skills  SkillStore
	users   UserStore
	reviews ReviewReader
	logger  zerolog.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(skills SkillStore, users UserStore, reviews ReviewReader, logger zerolog.Logger) CatalogService {
	return &catalogServiceImpl{
		skills:  skills,
		users:   users,
		reviews: reviews,
		logger:  logger,
	}
}

// ListSkills runs a public catalog query and returns one page of it
func (s *catalogServiceImpl) ListSkills(ctx context.Context, req *dto.SkillQueryRequest, page, size int) (*dto.SkillListResponse, error) {
	params := catalog.ParseParams(req.Search, req.Category, req.Level, req.SortBy)
	params.Visibility = catalog.Public()

	snapshot, err := s.skills.List(ctx, repositories.SkillFilter{
		Statuses: []models.SkillStatus{models.StatusPublished},
		Category: params.Category,
	})
	if err != nil {
		return nil, fmt.Errorf("error loading catalog: %w", err)
	}

	result := catalog.Query(snapshot, params)
	start, end := helpers.CalculateSliceIndices(page, size, len(result))

	resp := &dto.SkillListResponse{
		Items:      make([]dto.SkillSummaryResponse, 0, end-start),
		Pagination: helpers.NewPaginationInfo(int64(len(result)), page, size),
	}
	for i := start; i < end; i++ {
		resp.Items = append(resp.Items, dto.NewSkillSummaryResponse(&result[i]))
	}
	return resp, nil
}

// GetSkill returns the detail page of a published skill and counts the view
// unless the viewer owns it
func (s *catalogServiceImpl) GetSkill(ctx context.Context, id, viewerID string) (*dto.SkillDetailResponse, error) {
	skill, err := s.publishedSkill(ctx, id)
	if err != nil {
		return nil, err
	}

	if !skill.IsOwnedBy(viewerID) {
		if err := s.skills.IncrementViews(ctx, skill.ID); err != nil {
			s.logger.Warn().Err(err).Str("skillID", skill.ID).Msg("Failed to count skill view")
		} else {
			skill.Views++
		}
	}

	resp := dto.NewSkillDetailResponse(skill)

	dist, err := s.reviews.RatingDistribution(ctx, skill.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading rating distribution: %w", err)
	}
	resp.RatingDistribution = distributionPercentages(dist)

	owner, err := s.users.GetByID(ctx, skill.OwnerID)
	switch {
	case err == nil:
		resp.Instructor = &dto.InstructorCard{
			ID:        owner.ID,
			Name:      owner.Name,
			Title:     owner.Title,
			Bio:       owner.Bio,
			AvatarURL: owner.AvatarURL,
		}
	case !apperrors.Is(err, apperrors.ErrResourceNotFound):
		return nil, fmt.Errorf("error loading instructor: %w", err)
	}

	return &resp, nil
}

// GetRelated returns published skills of the same category, best rated first
func (s *catalogServiceImpl) GetRelated(ctx context.Context, id string, limit int) ([]dto.SkillSummaryResponse, error) {
	if limit <= 0 || limit > maxRelatedLimit {
		limit = defaultRelatedLimit
	}

	skill, err := s.publishedSkill(ctx, id)
	if err != nil {
		return nil, err
	}

	candidates, err := s.skills.List(ctx, repositories.SkillFilter{
		Statuses:  []models.SkillStatus{models.StatusPublished},
		Category:  skill.Category,
		ExcludeID: skill.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("error loading related skills: %w", err)
	}

	related := catalog.Query(candidates, catalog.Params{Category: skill.Category, SortBy: catalog.SortRating})
	if len(related) > limit {
		related = related[:limit]
	}

	out := make([]dto.SkillSummaryResponse, 0, len(related))
	for i := range related {
		out = append(out, dto.NewSkillSummaryResponse(&related[i]))
	}
	return out, nil
}

// ListReviews returns one page of a published skill's reviews
func (s *catalogServiceImpl) ListReviews(ctx context.Context, id string, page, size int) (*dto.ReviewListResponse, error) {
	if _, err := s.publishedSkill(ctx, id); err != nil {
		return nil, err
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	items, total, err := s.reviews.ListBySkill(ctx, id, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing reviews: %w", err)
	}

	resp := &dto.ReviewListResponse{
		Items:      make([]dto.ReviewResponse, 0, len(items)),
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}
	for i := range items {
		resp.Items = append(resp.Items, dto.NewReviewResponse(&items[i]))
	}
	return resp, nil
}

// publishedSkill loads a skill that learners may see; anything else reads as missing
func (s *catalogServiceImpl) publishedSkill(ctx context.Context, id string) (*models.Skill, error) {
	skill, err := s.skills.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if skill.Status != models.StatusPublished {
		return nil, apperrors.ErrSkillNotFound
	}
	return skill, nil
}

// distributionPercentages converts star counts into percentages with one decimal
func distributionPercentages(counts map[int]int) map[int]float64 {
	total := 0
	for _, n := range counts {
		total += n
	}

	out := make(map[int]float64, 5)
	for star := 1; star <= 5; star++ {
		if total == 0 {
			out[star] = 0
			continue
		}
		out[star] = math.Round(float64(counts[star])*1000/float64(total)) / 10
	}
	return out
}
