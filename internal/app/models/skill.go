package models

import (
	"database/sql/driver"
	"time"
)

// Category groups skills in the catalog
type Category string

const (
	CategoryProgramming Category = "programming"
	CategoryDesign      Category = "design"
	CategoryMarketing   Category = "marketing"
	CategoryBusiness    Category = "business"
	CategoryLanguages   Category = "languages"
	CategoryOther       Category = "other"
)

// Categories lists every valid category.
var Categories = []Category{
	CategoryProgramming, CategoryDesign, CategoryMarketing,
	CategoryBusiness, CategoryLanguages, CategoryOther,
}

// Level is the expected proficiency of a learner
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Levels lists every valid level.
var Levels = []Level{LevelBeginner, LevelIntermediate, LevelAdvanced}

// SkillStatus is the publication state of a skill
type SkillStatus string

const (
	StatusDraft     SkillStatus = "draft"
	StatusPublished SkillStatus = "published"
	StatusArchived  SkillStatus = "archived"
)

// SkillStatuses lists every stored status.
var SkillStatuses = []SkillStatus{StatusDraft, StatusPublished, StatusArchived}

// LessonType is the medium of a lesson
type LessonType string

const (
	LessonVideo   LessonType = "video"
	LessonArticle LessonType = "article"
	LessonQuiz    LessonType = "quiz"
)

// Lesson is a single unit inside a module
type Lesson struct {
	Title           string     `json:"title"`
	Type            LessonType `json:"type"`
	DurationMinutes int        `json:"durationMinutes"`
	IsFree          bool       `json:"isFree"`
}

// Module is an ordered group of lessons
type Module struct {
	Title   string   `json:"title"`
	Lessons []Lesson `json:"lessons"`
}

// Modules is the course outline of a skill, stored as a JSON column.
type Modules []Module

// Value implements driver.Valuer
func (m Modules) Value() (driver.Value, error) {
	return jsonValue(m, "[]")
}

// Scan implements sql.Scanner
func (m *Modules) Scan(src interface{}) error {
	return jsonScan(src, m)
}

// LessonCount returns the number of lessons across all modules.
func (m Modules) LessonCount() int {
	n := 0
	for _, mod := range m {
		n += len(mod.Lessons)
	}
	return n
}

// TotalMinutes returns the summed lesson duration.
func (m Modules) TotalMinutes() int {
	n := 0
	for _, mod := range m {
		for _, l := range mod.Lessons {
			n += l.DurationMinutes
		}
	}
	return n
}

// Skill is a teachable listing owned by an instructor
type Skill struct {
	ID               string      `json:"id" db:"id"`
	OwnerID          string      `json:"ownerId" db:"owner_id"`
	Name             string      `json:"name" db:"name"`
	Description      string      `json:"description" db:"description"`
	Category         Category    `json:"category" db:"category"`
	Level            Level       `json:"level" db:"level"`
	Status           SkillStatus `json:"status" db:"status"`
	Rating           float64     `json:"rating" db:"rating"`
	RatingCount      int         `json:"ratingCount" db:"rating_count"`
	Views            int         `json:"views" db:"views"`
	Students         int         `json:"students" db:"students"`
	ImageURL         string      `json:"imageUrl" db:"image_url"`
	PreviewVideoURL  string      `json:"previewVideoUrl" db:"preview_video_url"`
	Modules          Modules     `json:"modules" db:"modules"`
	LearningOutcomes StringList  `json:"learningOutcomes" db:"learning_outcomes"`
	Prerequisites    StringList  `json:"prerequisites" db:"prerequisites"`
	Version          int         `json:"version" db:"version"`
	PublishedAt      *time.Time  `json:"publishedAt,omitempty" db:"published_at"`
	CreatedAt        time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time   `json:"updatedAt" db:"updated_at"`
}

// IsOwnedBy reports whether userID holds write authority over the skill.
func (s *Skill) IsOwnedBy(userID string) bool {
	return s.OwnerID != "" && s.OwnerID == userID
}
