package catalog

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/skillshare/internal/app/models"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func skill(id, name, desc string, cat models.Category, status models.SkillStatus, daysAgo int) models.Skill {
	return models.Skill{
		ID:          id,
		OwnerID:     "owner-1",
		Name:        name,
		Description: desc,
		Category:    cat,
		Level:       models.LevelBeginner,
		Status:      status,
		CreatedAt:   base.AddDate(0, 0, -daysAgo),
	}
}

func fixture() []models.Skill {
	return []models.Skill{
		skill("s1", "React Fundamentals", "Components and hooks", models.CategoryProgramming, models.StatusPublished, 10),
		skill("s2", "Advanced Hooks", "Deep dive into REACT internals", models.CategoryProgramming, models.StatusPublished, 2),
		skill("s3", "Reactive Branding", "Brand identity", models.CategoryDesign, models.StatusPublished, 1),
		skill("s4", "React Native Draft", "Mobile apps", models.CategoryProgramming, models.StatusDraft, 0),
		skill("s5", "Go Concurrency", "Channels and goroutines", models.CategoryProgramming, models.StatusPublished, 5),
	}
}

func ids(skills []models.Skill) []string {
	out := make([]string, len(skills))
	for i, s := range skills {
		out[i] = s.ID
	}
	return out
}

func TestQuerySearchAndCategory(t *testing.T) {
	got := Query(fixture(), Params{SearchTerm: "react", Category: models.CategoryProgramming})
	assert.Equal(t, []string{"s2", "s1"}, ids(got))
}

func TestQueryFilters(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   []string
	}{
		{"public default hides drafts", Params{}, []string{"s3", "s2", "s5", "s1"}},
		{"search matches description case-insensitively", Params{SearchTerm: "GOROUTINES"}, []string{"s5"}},
		{"category only", Params{Category: models.CategoryDesign}, []string{"s3"}},
		{"level mismatch", Params{Level: models.LevelAdvanced}, []string{}},
		{"dashboard all statuses", Params{Visibility: Dashboard("owner-1", "")}, []string{"s4", "s3", "s2", "s5", "s1"}},
		{"dashboard drafts tab", Params{Visibility: Dashboard("owner-1", models.StatusDraft)}, []string{"s4"}},
		{"dashboard of someone else", Params{Visibility: Dashboard("owner-2", "")}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Query(fixture(), tt.params)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestQueryUnicodeFolding(t *testing.T) {
	skills := []models.Skill{
		skill("a", "Straße bauen", "", models.CategoryOther, models.StatusPublished, 0),
		skill("b", "ΣΟΦΙΑ", "", models.CategoryOther, models.StatusPublished, 1),
	}
	assert.Equal(t, []string{"a"}, ids(Query(skills, Params{SearchTerm: "STRASSE"})))
	assert.Equal(t, []string{"b"}, ids(Query(skills, Params{SearchTerm: "σοφια"})))
}

func TestQuerySortOrders(t *testing.T) {
	skills := fixture()
	skills[0].Views, skills[1].Views, skills[2].Views, skills[4].Views = 50, 10, 50, 99
	skills[0].Rating, skills[1].Rating, skills[2].Rating, skills[4].Rating = 4.5, 4.9, 4.5, 3.0

	assert.Equal(t, []string{"s5", "s1", "s3", "s2"}, ids(Query(skills, Params{SortBy: SortPopular})))
	assert.Equal(t, []string{"s2", "s1", "s3", "s5"}, ids(Query(skills, Params{SortBy: SortRating})))
}

func TestQueryRecentOrderHolds(t *testing.T) {
	skills := make([]models.Skill, 0, 40)
	for i := 0; i < 40; i++ {
		s := skill(fmt.Sprintf("id-%02d", 39-i), "Skill", "", models.CategoryOther, models.StatusPublished, i%7)
		skills = append(skills, s)
	}

	got := Query(skills, Params{SortBy: SortRecent})
	require.Len(t, got, 40)
	for i := 1; i < len(got); i++ {
		a, b := got[i-1], got[i]
		require.False(t, a.CreatedAt.Before(b.CreatedAt), "position %d", i)
		if a.CreatedAt.Equal(b.CreatedAt) {
			require.Less(t, a.ID, b.ID)
		}
	}
}

func TestQueryIsIdempotentAndDoesNotMutate(t *testing.T) {
	skills := fixture()
	before := append([]models.Skill(nil), skills...)
	p := Params{SearchTerm: "react", SortBy: SortRating}

	first := Query(skills, p)
	second := Query(skills, p)

	assert.Equal(t, first, second)
	assert.Equal(t, before, skills)

	again := Query(first, p)
	assert.Equal(t, first, again)
}

func TestQueryEmptyInput(t *testing.T) {
	got := Query(nil, Params{})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseParams(t *testing.T) {
	p := ParseParams("  react ", "Programming", "bogus", "nonsense")
	assert.Equal(t, "react", p.SearchTerm)
	assert.Equal(t, models.CategoryProgramming, p.Category)
	assert.Equal(t, models.Level(""), p.Level)
	assert.Equal(t, SortRecent, p.SortBy)
	assert.False(t, p.Visibility.IsDashboard())

	assert.Equal(t, SortPopular, ParseParams("", "", "", "popular").SortBy)
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, models.StatusDraft, ParseStatus("drafts"))
	assert.Equal(t, models.StatusArchived, ParseStatus("Archived"))
	assert.Equal(t, models.SkillStatus(""), ParseStatus("all"))
}

func TestRunningAverage(t *testing.T) {
	got := RunningAverage(4.0, 2, 5)
	assert.InDelta(t, 13.0/3.0, got, 1e-12)
	assert.Equal(t, 4.33, math.Round(got*100)/100)

	assert.Equal(t, 3.0, RunningAverage(0, 0, 3))
}
