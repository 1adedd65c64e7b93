package dto

import (
	"math"
	"time"
	"unicode/utf8"

	"github.com/yigit/skillshare/internal/app/models"
)

const shortDescriptionLength = 160

// SkillQueryRequest carries catalog query parameters. Unknown enum values are ignored.
type SkillQueryRequest struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Level    string `form:"level"`
	SortBy   string `form:"sortBy"`
	Status   string `form:"status"`
}

// LessonRequest is a lesson in a create/update payload
type LessonRequest struct {
	Title           string `json:"title" binding:"required,notblank,max=200"`
	Type            string `json:"type" binding:"required,oneof=video article quiz"`
	DurationMinutes int    `json:"durationMinutes" binding:"min=0,max=1440"`
	IsFree          bool   `json:"isFree"`
}

// ModuleRequest is a module in a create/update payload
type ModuleRequest struct {
	Title   string          `json:"title" binding:"required,notblank,max=200"`
	Lessons []LessonRequest `json:"lessons" binding:"dive"`
}

// SkillContentRequest holds the editable content fields of a skill. Drafts may be incomplete.
type SkillContentRequest struct {
	Name             string          `json:"name" binding:"max=200"`
	Description      string          `json:"description" binding:"max=10000"`
	Category         string          `json:"category" binding:"omitempty,skillcategory"`
	Level            string          `json:"level" binding:"omitempty,skilllevel"`
	PreviewVideoURL  string          `json:"previewVideoUrl" binding:"omitempty,url"`
	Modules          []ModuleRequest `json:"modules" binding:"dive"`
	LearningOutcomes []string        `json:"learningOutcomes" binding:"dive,max=300"`
	Prerequisites    []string        `json:"prerequisites" binding:"dive,max=300"`
}

// CreateSkillRequest creates a new draft
type CreateSkillRequest struct {
	SkillContentRequest
}

// UpdateSkillRequest edits a skill; Status requests a transition in the same write
type UpdateSkillRequest struct {
	SkillContentRequest
	Status string `json:"status" binding:"omitempty,oneof=draft published archived"`
}

// ToModules converts the request outline to the stored form
func (r *SkillContentRequest) ToModules() models.Modules {
	out := make(models.Modules, 0, len(r.Modules))
	for _, m := range r.Modules {
		mod := models.Module{Title: m.Title, Lessons: make([]models.Lesson, 0, len(m.Lessons))}
		for _, l := range m.Lessons {
			mod.Lessons = append(mod.Lessons, models.Lesson{
				Title:           l.Title,
				Type:            models.LessonType(l.Type),
				DurationMinutes: l.DurationMinutes,
				IsFree:          l.IsFree,
			})
		}
		out = append(out, mod)
	}
	return out
}

// SkillSummaryResponse is a catalog card
type SkillSummaryResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Category         string    `json:"category" example:"programming"`
	Level            string    `json:"level" example:"beginner"`
	Rating           float64   `json:"rating" example:"4.33"`
	RatingCount      int       `json:"ratingCount"`
	Views            int       `json:"views"`
	Students         int       `json:"students"`
	ShortDescription string    `json:"shortDescription"`
	ImageURL         string    `json:"imageUrl,omitempty"`
	OwnerID          string    `json:"ownerId"`
	CreatedAt        time.Time `json:"createdAt"`
}

// SkillListResponse is a page of catalog cards
type SkillListResponse struct {
	Items      []SkillSummaryResponse `json:"items"`
	Pagination PaginationInfo         `json:"pagination"`
}

// InstructorCard is the owner block of a skill detail page
type InstructorCard struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Title     string `json:"title,omitempty"`
	Bio       string `json:"bio,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// SkillDetailResponse is the public detail page of a skill
type SkillDetailResponse struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	Category           string          `json:"category"`
	Level              string          `json:"level"`
	Rating             float64         `json:"rating"`
	RatingCount        int             `json:"ratingCount"`
	RatingDistribution map[int]float64 `json:"ratingDistribution"`
	Views              int             `json:"views"`
	StudentCount       int             `json:"studentCount"`
	ImageURL           string          `json:"imageUrl,omitempty"`
	PreviewVideoURL    string          `json:"previewVideoUrl,omitempty"`
	Modules            models.Modules  `json:"modules"`
	LessonCount        int             `json:"lessonCount"`
	TotalMinutes       int             `json:"totalMinutes"`
	LearningOutcomes   []string        `json:"learningOutcomes"`
	Prerequisites      []string        `json:"prerequisites"`
	Instructor         *InstructorCard `json:"instructor,omitempty"`
	PublishedAt        *time.Time      `json:"publishedAt,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// OwnedSkillResponse is the instructor's view of their own skill
type OwnedSkillResponse struct {
	SkillDetailResponse
	Status  string `json:"status" example:"draft"`
	Version int    `json:"version"`
}

// OwnedSkillListResponse is one dashboard tab
type OwnedSkillListResponse struct {
	Items      []OwnedSkillResponse `json:"items"`
	Pagination PaginationInfo       `json:"pagination"`
}

// TeachingStatsResponse summarises an instructor's activity
type TeachingStatsResponse struct {
	TotalSkills     int     `json:"totalSkills"`
	PublishedSkills int     `json:"publishedSkills"`
	DraftSkills     int     `json:"draftSkills"`
	ArchivedSkills  int     `json:"archivedSkills"`
	TotalStudents   int     `json:"totalStudents"`
	TotalHours      float64 `json:"totalHours"`
	Rating          float64 `json:"rating"`
	Reviews         int     `json:"reviews"`
	CompletionRate  int     `json:"completionRate"`
}

// RoundRating presents a running average with two decimals
func RoundRating(r float64) float64 {
	return math.Round(r*100) / 100
}

// ShortDescription truncates a description on a rune boundary
func ShortDescription(s string) string {
	if utf8.RuneCountInString(s) <= shortDescriptionLength {
		return s
	}
	runes := []rune(s)
	return string(runes[:shortDescriptionLength-1]) + "…"
}

// NewSkillSummaryResponse maps a skill to a catalog card
func NewSkillSummaryResponse(s *models.Skill) SkillSummaryResponse {
	return SkillSummaryResponse{
		ID:               s.ID,
		Name:             s.Name,
		Category:         string(s.Category),
		Level:            string(s.Level),
		Rating:           RoundRating(s.Rating),
		RatingCount:      s.RatingCount,
		Views:            s.Views,
		Students:         s.Students,
		ShortDescription: ShortDescription(s.Description),
		ImageURL:         s.ImageURL,
		OwnerID:          s.OwnerID,
		CreatedAt:        s.CreatedAt,
	}
}

// NewSkillDetailResponse maps a skill to its detail page
func NewSkillDetailResponse(s *models.Skill) SkillDetailResponse {
	modules := s.Modules
	if modules == nil {
		modules = models.Modules{}
	}
	return SkillDetailResponse{
		ID:                 s.ID,
		Name:               s.Name,
		Description:        s.Description,
		Category:           string(s.Category),
		Level:              string(s.Level),
		Rating:             RoundRating(s.Rating),
		RatingCount:        s.RatingCount,
		RatingDistribution: map[int]float64{},
		Views:              s.Views,
		StudentCount:       s.Students,
		ImageURL:           s.ImageURL,
		PreviewVideoURL:    s.PreviewVideoURL,
		Modules:            modules,
		LessonCount:        modules.LessonCount(),
		TotalMinutes:       modules.TotalMinutes(),
		LearningOutcomes:   nonNil(s.LearningOutcomes),
		Prerequisites:      nonNil(s.Prerequisites),
		PublishedAt:        s.PublishedAt,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

// NewOwnedSkillResponse maps a skill to the owner's view
func NewOwnedSkillResponse(s *models.Skill) OwnedSkillResponse {
	return OwnedSkillResponse{
		SkillDetailResponse: NewSkillDetailResponse(s),
		Status:              string(s.Status),
		Version:             s.Version,
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
