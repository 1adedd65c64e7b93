// Package catalog filters and orders skill listings for the public catalog and
// the instructor dashboard. It performs no I/O and never mutates its input.
package catalog

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/yigit/skillshare/internal/app/models"
)

// SortBy selects the listing order
type SortBy string

const (
	SortRecent  SortBy = "recent"
	SortPopular SortBy = "popular"
	SortRating  SortBy = "rating"
)

// Visibility decides which statuses and owners a listing may show.
type Visibility struct {
	// OwnerID is empty for the public catalog.
	OwnerID string
	// Status restricts a dashboard listing to one tab; empty means every status.
	Status models.SkillStatus
}

// Public is the learner-facing catalog: published skills of every owner.
func Public() Visibility {
	return Visibility{}
}

// Dashboard is an owner's own listing, optionally restricted to one status tab.
func Dashboard(ownerID string, status models.SkillStatus) Visibility {
	return Visibility{OwnerID: ownerID, Status: status}
}

// IsDashboard reports whether v is owner scoped.
func (v Visibility) IsDashboard() bool {
	return v.OwnerID != ""
}

func (v Visibility) allows(s *models.Skill) bool {
	if !v.IsDashboard() {
		return s.Status == models.StatusPublished
	}
	if s.OwnerID != v.OwnerID {
		return false
	}
	return v.Status == "" || s.Status == v.Status
}

// Params are the listing criteria. The zero value lists the public catalog, most recent first.
type Params struct {
	SearchTerm string
	Category   models.Category
	Level      models.Level
	SortBy     SortBy
	Visibility Visibility
}

// ParseParams maps raw query values onto Params. Unknown enum values fall back to the
// field default instead of failing.
func ParseParams(search, category, level, sortBy string) Params {
	p := Params{
		SearchTerm: strings.TrimSpace(search),
		Category:   parseEnum(category, models.Categories),
		Level:      parseEnum(level, models.Levels),
		SortBy:     parseEnum(sortBy, []SortBy{SortRecent, SortPopular, SortRating}),
	}
	if p.SortBy == "" {
		p.SortBy = SortRecent
	}
	return p
}

// ParseStatus maps a dashboard tab name onto a status. Unknown or empty values mean all statuses.
// The tab label "drafts" is accepted for draft.
func ParseStatus(raw string) models.SkillStatus {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "drafts" {
		return models.StatusDraft
	}
	return parseEnum(raw, models.SkillStatuses)
}

func parseEnum[T ~string](raw string, valid []T) T {
	v := T(strings.ToLower(strings.TrimSpace(raw)))
	if slices.Contains(valid, v) {
		return v
	}
	var zero T
	return zero
}

// Query returns the skills matching every active criterion, sorted by p.SortBy with ties
// broken by id ascending. The result is a new slice; it is empty, never nil, when nothing matches.
func Query(skills []models.Skill, p Params) []models.Skill {
	// A Caser keeps state, so each call gets its own.
	fold := cases.Fold()
	term := fold.String(strings.TrimSpace(p.SearchTerm))

	out := make([]models.Skill, 0, len(skills))
	for i := range skills {
		s := &skills[i]
		if term != "" &&
			!strings.Contains(fold.String(s.Name), term) &&
			!strings.Contains(fold.String(s.Description), term) {
			continue
		}
		if p.Category != "" && s.Category != p.Category {
			continue
		}
		if p.Level != "" && s.Level != p.Level {
			continue
		}
		if !p.Visibility.allows(s) {
			continue
		}
		out = append(out, *s)
	}

	slices.SortStableFunc(out, compareBy(p.SortBy))
	return out
}

func compareBy(sortBy SortBy) func(a, b models.Skill) int {
	var primary func(a, b models.Skill) int
	switch sortBy {
	case SortPopular:
		primary = func(a, b models.Skill) int { return cmp.Compare(b.Views, a.Views) }
	case SortRating:
		primary = func(a, b models.Skill) int { return cmp.Compare(b.Rating, a.Rating) }
	default:
		primary = func(a, b models.Skill) int { return b.CreatedAt.Compare(a.CreatedAt) }
	}
	return func(a, b models.Skill) int {
		if c := primary(a, b); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	}
}

// RunningAverage folds one more rating into an average over count ratings.
func RunningAverage(avg float64, count int, rating int) float64 {
	if count <= 0 {
		return float64(rating)
	}
	return (avg*float64(count) + float64(rating)) / float64(count+1)
}
