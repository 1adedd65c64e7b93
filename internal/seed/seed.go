package seed

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	appModels "github.com/yigit/skillshare/internal/app/models"
	appRepos "github.com/yigit/skillshare/internal/app/repositories"
	"github.com/yigit/skillshare/internal/db"
	"github.com/yigit/skillshare/internal/pkg/apperrors"
)

const (
	demoInstructorEmail = "instructor@skillshare.dev"
	demoLearnerEmail    = "learner@skillshare.dev"
	demoPassword        = "Password123!"
)

// CreateDefaultData creates a demo instructor and learner plus a handful of skills
// in every status. It does nothing when the demo instructor already exists.
func CreateDefaultData(ctx context.Context, database *db.DB, lgr zerolog.Logger) error {
	repos := appRepos.NewRepositories(database)

	lgr.Info().Msg("Checking/Creating demo data (users/skills)...")

	if _, err := repos.UserRepository.GetByEmail(ctx, demoInstructorEmail); err == nil {
		lgr.Info().Msg("Demo data already present, skipping")
		return nil
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	instructor := &appModels.User{
		ID:           uuid.NewString(),
		Name:         "Grace Hopper",
		Email:        demoInstructorEmail,
		PasswordHash: string(hash),
		Roles:        appModels.Roles{appModels.RoleLearner, appModels.RoleInstructor},
		Title:        "Compiler Engineer",
		Bio:          "Teaches programming from first principles.",
	}
	learner := &appModels.User{
		ID:           uuid.NewString(),
		Name:         "Alan Turing",
		Email:        demoLearnerEmail,
		PasswordHash: string(hash),
		Roles:        appModels.Roles{appModels.RoleLearner},
	}

	var finalErr error
	for _, u := range []*appModels.User{instructor, learner} {
		if err := repos.UserRepository.Create(ctx, u); err != nil && !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			lgr.Error().Err(err).Str("email", u.Email).Msg("Error creating demo user")
			finalErr = errors.Join(finalErr, err)
		}
	}
	if finalErr != nil {
		return finalErr
	}

	published := time.Now().UTC().Add(-72 * time.Hour)
	skills := []*appModels.Skill{
		demoSkill(instructor.ID, "Go for Backend Developers", appModels.CategoryProgramming, appModels.LevelIntermediate, appModels.StatusPublished, &published),
		demoSkill(instructor.ID, "Intro to Typography", appModels.CategoryDesign, appModels.LevelBeginner, appModels.StatusPublished, &published),
		demoSkill(instructor.ID, "Distributed Systems Notes", appModels.CategoryProgramming, appModels.LevelAdvanced, appModels.StatusDraft, nil),
		demoSkill(instructor.ID, "Spreadsheet Basics", appModels.CategoryBusiness, appModels.LevelBeginner, appModels.StatusArchived, &published),
	}
	for _, s := range skills {
		if err := repos.SkillRepository.Create(ctx, s); err != nil {
			lgr.Error().Err(err).Str("skill", s.Name).Msg("Error creating demo skill")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if finalErr == nil {
		lgr.Info().Int("skills", len(skills)).Str("instructor", demoInstructorEmail).Str("learner", demoLearnerEmail).
			Msg("Demo data created")
	}
	return finalErr
}

func demoSkill(ownerID, name string, category appModels.Category, level appModels.Level, status appModels.SkillStatus, publishedAt *time.Time) *appModels.Skill {
	return &appModels.Skill{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        name,
		Description: name + ": a hands-on course with short lessons and exercises.",
		Category:    category,
		Level:       level,
		Status:      status,
		Modules: appModels.Modules{
			{Title: "Getting started", Lessons: []appModels.Lesson{
				{Title: "Welcome", Type: appModels.LessonVideo, DurationMinutes: 5, IsFree: true},
				{Title: "Setup", Type: appModels.LessonArticle, DurationMinutes: 15},
			}},
			{Title: "Practice", Lessons: []appModels.Lesson{
				{Title: "Exercises", Type: appModels.LessonQuiz, DurationMinutes: 20},
			}},
		},
		LearningOutcomes: appModels.StringList{"Apply the basics on a real project"},
		Prerequisites:    appModels.StringList{},
		PublishedAt:      publishedAt,
	}
}
