package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yigit/skillshare/internal/app/models"
	"github.com/yigit/skillshare/internal/app/models/dto"
	"github.com/yigit/skillshare/internal/pkg/apperrors"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		from models.SkillStatus
		cmd  Command
		to   models.SkillStatus
		ok   bool
	}{
		{models.StatusDraft, CommandPublish, models.StatusPublished, true},
		{models.StatusArchived, CommandPublish, models.StatusPublished, true},
		{models.StatusPublished, CommandPublish, "", false},
		{models.StatusPublished, CommandArchive, models.StatusArchived, true},
		{models.StatusDraft, CommandArchive, "", false},
		{models.StatusArchived, CommandArchive, "", false},
		{models.StatusArchived, CommandRestore, models.StatusPublished, true},
		{models.StatusDraft, CommandRestore, "", false},
		{models.StatusDraft, CommandDelete, "", true},
		{models.StatusArchived, CommandDelete, "", true},
		{models.StatusPublished, CommandDelete, "", false},
		{models.StatusPublished, commandRevert, "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.cmd), func(t *testing.T) {
			to, ok := NextStatus(tt.from, tt.cmd)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.to, to)
		})
	}
}

func TestCommandFor(t *testing.T) {
	assert.Equal(t, Command(""), commandFor(models.StatusDraft, ""))
	assert.Equal(t, Command(""), commandFor(models.StatusPublished, models.StatusPublished))
	assert.Equal(t, CommandPublish, commandFor(models.StatusDraft, models.StatusPublished))
	assert.Equal(t, CommandRestore, commandFor(models.StatusArchived, models.StatusPublished))
	assert.Equal(t, CommandArchive, commandFor(models.StatusPublished, models.StatusArchived))
	assert.Equal(t, commandRevert, commandFor(models.StatusPublished, models.StatusDraft))
}

func TestLifecycleFullCycle(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.user(t, "Owner", models.RoleInstructor)
	svc := env.lifecycle()

	created, err := svc.Create(ctx, owner.ID, completeDraft("Go Basics"))
	require.NoError(t, err)
	assert.Equal(t, "draft", created.Status)
	assert.Equal(t, 1, created.Version)
	assert.Equal(t, "beginner", created.Level)
	assert.Equal(t, []string{"write a program"}, created.LearningOutcomes)
	assert.Nil(t, created.PublishedAt)

	published, err := svc.Apply(ctx, owner.ID, created.ID, CommandPublish)
	require.NoError(t, err)
	assert.Equal(t, "published", published.Status)
	assert.Equal(t, 2, published.Version)
	require.NotNil(t, published.PublishedAt)

	sent := env.notifier.of(models.NotificationSkillPublished)
	require.Len(t, sent, 1)
	assert.Equal(t, owner.ID, sent[0].UserID)
	assert.Equal(t, "/skills/"+created.ID, sent[0].Link)

	archived, err := svc.Apply(ctx, owner.ID, created.ID, CommandArchive)
	require.NoError(t, err)
	assert.Equal(t, "archived", archived.Status)

	restored, err := svc.Apply(ctx, owner.ID, created.ID, CommandRestore)
	require.NoError(t, err)
	assert.Equal(t, "published", restored.Status)
	assert.Len(t, env.notifier.of(models.NotificationSkillPublished), 2)

	_, err = svc.Apply(ctx, owner.ID, created.ID, CommandArchive)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, owner.ID, created.ID))

	_, err = svc.GetOwned(ctx, owner.ID, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrSkillNotFound)
}

func TestPublishMakesSkillVisibleInCatalog(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.user(t, "Owner", models.RoleInstructor)
	svc := env.lifecycle()

	created, err := svc.Create(ctx, owner.ID, completeDraft("Go Basics"))
	require.NoError(t, err)

	before, err := env.catalog().ListSkills(ctx, &dto.SkillQueryRequest{}, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, before.Items)

	_, err = svc.Apply(ctx, owner.ID, created.ID, CommandPublish)
	require.NoError(t, err)

	after, err := env.catalog().ListSkills(ctx, &dto.SkillQueryRequest{}, 1, 20)
	require.NoError(t, err)
	require.Len(t, after.Items, 1)
	assert.Equal(t, created.ID, after.Items[0].ID)
}

func TestPublishIncompleteDraftFailsValidation(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.user(t, "Owner", models.RoleInstructor)
	svc := env.lifecycle()

	created, err := svc.Create(ctx, owner.ID, &dto.CreateSkillRequest{})
	require.NoError(t, err)
	assert.Equal(t, "other", created.Category)

	_, err = svc.Apply(ctx, owner.ID, created.ID, CommandPublish)
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)

	ce, ok := apperrors.AsCustomError(err)
	require.True(t, ok)
	assert.Contains(t, ce.Details, "name")
	assert.Contains(t, ce.Details, "description")
	assert.Contains(t, ce.Details, "modules")

	stored, err := env.repos.SkillRepository.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, stored.Status)
	assert.Equal(t, 1, stored.Version)
	assert.Empty(t, env.notifier.of(models.NotificationSkillPublished))
}

func TestInvalidTransitions(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.user(t, "Owner", models.RoleInstructor)
	svc := env.lifecycle()

	draft, err := svc.Create(ctx, owner.ID, completeDraft("Draft"))
	require.NoError(t, err)

	_, err = svc.Apply(ctx, owner.ID, draft.ID, CommandArchive)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	_, err = svc.Apply(ctx, owner.ID, draft.ID, CommandRestore)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	published := env.publishedSkill(t, owner.ID)
	_, err = svc.Apply(ctx, owner.ID, published.ID, CommandPublish)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	err = svc.Delete(ctx, owner.ID, published.ID)
	require.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.Equal(t, "archive the skill before deleting it", err.Error())

	stored, err := env.repos.SkillRepository.GetByID(ctx, published.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, stored.Status)
}

func TestOwnershipIsEnforced(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	a := env.user(t, "A", models.RoleInstructor)
	b := env.user(t, "B", models.RoleInstructor)
	svc := env.lifecycle()

	skill := env.publishedSkill(t, a.ID)

	_, err := svc.Apply(ctx, b.ID, skill.ID, CommandArchive)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	_, err = svc.Edit(ctx, b.ID, skill.ID, &dto.UpdateSkillRequest{})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.ErrorIs(t, svc.Delete(ctx, b.ID, skill.ID), apperrors.ErrPermissionDenied)
	_, err = svc.Duplicate(ctx, b.ID, skill.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	_, err = svc.GetOwned(ctx, b.ID, skill.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	stored, err := env.repos.SkillRepository.GetByID(ctx, skill.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, stored.Status)
	assert.Equal(t, skill.Version, stored.Version)

	_, err = svc.Apply(ctx, a.ID, uuid.NewString(), CommandArchive)
	assert.ErrorIs(t, err, apperrors.ErrSkillNotFound)
}

func TestEdit(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.user(t, "Owner", models.RoleInstructor)
	svc := env.lifecycle()

	t.Run("content only keeps status and bumps version", func(t *testing.T) {
		skill := env.publishedSkill(t, owner.ID)
		req := &dto.UpdateSkillRequest{SkillContentRequest: completeDraft("Go Advanced").SkillContentRequest}
		req.Level = "advanced"

		updated, err := svc.Edit(ctx, owner.ID, skill.ID, req)
		require.NoError(t, err)
		assert.Equal(t, "Go Advanced", updated.Name)
		assert.Equal(t, "advanced", updated.Level)
		assert.Equal(t, "published", updated.Status)
		assert.Equal(t, skill.Version+1, updated.Version)
	})

	t.Run("published content must stay publishable", func(t *testing.T) {
		skill := env.publishedSkill(t, owner.ID)
		_, err := svc.Edit(ctx, owner.ID, skill.ID, &dto.UpdateSkillRequest{
			SkillContentRequest: dto.SkillContentRequest{Name: "No lessons", Description: "x"},
		})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("status in payload publishes a draft", func(t *testing.T) {
		draft, err := svc.Create(ctx, owner.ID, &dto.CreateSkillRequest{})
		require.NoError(t, err)

		req := &dto.UpdateSkillRequest{SkillContentRequest: completeDraft("Now complete").SkillContentRequest, Status: "published"}
		updated, err := svc.Edit(ctx, owner.ID, draft.ID, req)
		require.NoError(t, err)
		assert.Equal(t, "published", updated.Status)
		assert.NotNil(t, updated.PublishedAt)
	})

	t.Run("status in payload restores an archived skill", func(t *testing.T) {
		skill := env.publishedSkill(t, owner.ID)
		_, err := svc.Apply(ctx, owner.ID, skill.ID, CommandArchive)
		require.NoError(t, err)

		req := &dto.UpdateSkillRequest{SkillContentRequest: completeDraft("Back").SkillContentRequest, Status: "published"}
		updated, err := svc.Edit(ctx, owner.ID, skill.ID, req)
		require.NoError(t, err)
		assert.Equal(t, "published", updated.Status)
	})

	t.Run("nothing returns to draft", func(t *testing.T) {
		skill := env.publishedSkill(t, owner.ID)
		req := &dto.UpdateSkillRequest{SkillContentRequest: completeDraft("Go").SkillContentRequest, Status: "draft"}
		_, err := svc.Edit(ctx, owner.ID, skill.ID, req)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	})
}

func TestDuplicate(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.user(t, "Owner", models.RoleInstructor)
	svc := env.lifecycle()

	source := env.publishedSkill(t, owner.ID)
	ok, err := env.repos.SkillRepository.UpdateRating(ctx, source.ID, 4.5, 2, 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, env.repos.SkillRepository.IncrementViews(ctx, source.ID))
	require.NoError(t, env.repos.SkillRepository.IncrementStudents(ctx, source.ID))

	dup, err := svc.Duplicate(ctx, owner.ID, source.ID)
	require.NoError(t, err)

	assert.NotEqual(t, source.ID, dup.ID)
	assert.Equal(t, "Go Basics (Copy)", dup.Name)
	assert.Equal(t, "draft", dup.Status)
	assert.Equal(t, source.Description, dup.Description)
	assert.Equal(t, source.Modules, dup.Modules)
	assert.Zero(t, dup.Rating)
	assert.Zero(t, dup.RatingCount)
	assert.Zero(t, dup.Views)
	assert.Zero(t, dup.StudentCount)
	assert.Nil(t, dup.PublishedAt)

	stored, err := env.repos.SkillRepository.GetByID(ctx, source.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Views)
}

func TestDuplicateGetsItsOwnCover(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.user(t, "Owner", models.RoleInstructor)
	svc := env.lifecycle()

	source, err := svc.Create(ctx, owner.ID, completeDraft("Go"))
	require.NoError(t, err)
	source, err = svc.SetCover(ctx, owner.ID, source.ID, &multipart.FileHeader{Filename: "cover.png", Size: 1024})
	require.NoError(t, err)

	dup, err := svc.Duplicate(ctx, owner.ID, source.ID)
	require.NoError(t, err)
	require.NotEmpty(t, dup.ImageURL)
	assert.NotEqual(t, source.ImageURL, dup.ImageURL)

	require.NoError(t, svc.Delete(ctx, owner.ID, dup.ID))
	assert.Equal(t, []string{dup.ImageURL}, env.files.deleted)

	reloaded, err := svc.GetOwned(ctx, owner.ID, source.ID)
	require.NoError(t, err)
	assert.Equal(t, source.ImageURL, reloaded.ImageURL)
	assert.True(t, env.files.stored(reloaded.ImageURL))
}

func TestListOwnedTabs(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.user(t, "Owner", models.RoleInstructor)
	other := env.user(t, "Other", models.RoleInstructor)
	svc := env.lifecycle()

	env.publishedSkill(t, owner.ID)
	archived := env.publishedSkill(t, owner.ID)
	_, err := svc.Apply(ctx, owner.ID, archived.ID, CommandArchive)
	require.NoError(t, err)
	_, err = svc.Create(ctx, owner.ID, completeDraft("Draft"))
	require.NoError(t, err)
	env.publishedSkill(t, other.ID)

	tests := []struct {
		status string
		want   int
	}{
		{"", 3},
		{"published", 1},
		{"drafts", 1},
		{"draft", 1},
		{"archived", 1},
		{"bogus", 3},
	}
	for _, tt := range tests {
		t.Run("status="+tt.status, func(t *testing.T) {
			page, err := svc.ListOwned(ctx, owner.ID, &dto.SkillQueryRequest{Status: tt.status}, 1, 20)
			require.NoError(t, err)
			assert.Len(t, page.Items, tt.want)
			assert.Equal(t, int64(tt.want), page.Pagination.TotalItems)
			for _, item := range page.Items {
				assert.NotEqual(t, "", item.Status)
			}
		})
	}
}

func TestSetCover(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.user(t, "Owner", models.RoleInstructor)
	svc := env.lifecycle()

	created, err := svc.Create(ctx, owner.ID, completeDraft("Go"))
	require.NoError(t, err)

	first, err := svc.SetCover(ctx, owner.ID, created.ID, &multipart.FileHeader{Filename: "cover.PNG", Size: 1024})
	require.NoError(t, err)
	assert.Contains(t, first.ImageURL, "/uploads/covers/")
	assert.Equal(t, created.Version+1, first.Version)

	second, err := svc.SetCover(ctx, owner.ID, created.ID, &multipart.FileHeader{Filename: "new.jpg", Size: 1024})
	require.NoError(t, err)
	assert.NotEqual(t, first.ImageURL, second.ImageURL)
	assert.Equal(t, []string{first.ImageURL}, env.files.deleted)

	_, err = svc.SetCover(ctx, owner.ID, created.ID, &multipart.FileHeader{Filename: "doc.pdf", Size: 1024})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	_, err = svc.SetCover(ctx, owner.ID, created.ID, &multipart.FileHeader{Filename: "big.png", Size: maxCoverSize + 1})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	_, err = svc.SetCover(ctx, owner.ID, created.ID, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestConcurrentArchivesOnlyOneWins(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.user(t, "Owner", models.RoleInstructor)
	svc := env.lifecycle()
	skill := env.publishedSkill(t, owner.ID)

	const n = 8
	errs := make([]error, n)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = svc.Apply(ctx, owner.ID, skill.ID, CommandArchive)
		}(i)
	}
	close(start)
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	}
	assert.Equal(t, 1, wins)

	stored, err := env.repos.SkillRepository.GetByID(ctx, skill.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusArchived, stored.Status)
	assert.Equal(t, skill.Version+1, stored.Version)
}

func TestConcurrentRestoreAndDeleteOnlyOneWins(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.user(t, "Owner", models.RoleInstructor)
	svc := env.lifecycle()

	for round := 0; round < 5; round++ {
		skill := env.publishedSkill(t, owner.ID)
		_, err := svc.Apply(ctx, owner.ID, skill.ID, CommandArchive)
		require.NoError(t, err)

		var restoreErr, deleteErr error
		start := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			<-start
			_, restoreErr = svc.Apply(ctx, owner.ID, skill.ID, CommandRestore)
		}()
		go func() {
			defer wg.Done()
			<-start
			deleteErr = svc.Delete(ctx, owner.ID, skill.ID)
		}()
		close(start)
		wg.Wait()

		require.True(t, (restoreErr == nil) != (deleteErr == nil), "exactly one command must win: restore=%v delete=%v", restoreErr, deleteErr)
		if restoreErr == nil {
			assert.ErrorIs(t, deleteErr, apperrors.ErrInvalidTransition)
			stored, err := env.repos.SkillRepository.GetByID(ctx, skill.ID)
			require.NoError(t, err)
			assert.Equal(t, models.StatusPublished, stored.Status)
		} else {
			assert.ErrorIs(t, restoreErr, apperrors.ErrSkillNotFound)
			_, err := env.repos.SkillRepository.GetByID(ctx, skill.ID)
			assert.ErrorIs(t, err, apperrors.ErrSkillNotFound)
		}
	}
}

func TestLostRaceOutcomes(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.NewString()
	base := models.Skill{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        "Go",
		Description: "Learn Go",
		Status:      models.StatusDraft,
		Version:     3,
		Modules:     models.Modules{{Title: "m", Lessons: []models.Lesson{{Title: "l"}}}},
	}

	t.Run("concurrent content edit is a conflict", func(t *testing.T) {
		store := new(MockSkillStore)
		moved := base
		moved.Version = 4
		store.On("GetByID", ctx, base.ID).Return(&base, nil).Once()
		store.On("Update", ctx, mock.AnythingOfType("*models.Skill"), models.StatusDraft, 3).Return(false, nil).Once()
		store.On("GetByID", ctx, base.ID).Return(&moved, nil).Once()

		svc := NewLifecycleService(store, nil, &recordingNotifier{}, zerolog.Nop())
		_, err := svc.Apply(ctx, ownerID, base.ID, CommandPublish)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		store.AssertExpectations(t)
	})

	t.Run("status moved underneath is an invalid transition", func(t *testing.T) {
		store := new(MockSkillStore)
		moved := base
		moved.Status = models.StatusPublished
		moved.Version = 4
		store.On("GetByID", ctx, base.ID).Return(&base, nil).Once()
		store.On("Update", ctx, mock.AnythingOfType("*models.Skill"), models.StatusDraft, 3).Return(false, nil).Once()
		store.On("GetByID", ctx, base.ID).Return(&moved, nil).Once()

		notifier := &recordingNotifier{}
		svc := NewLifecycleService(store, nil, notifier, zerolog.Nop())
		_, err := svc.Apply(ctx, ownerID, base.ID, CommandPublish)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
		assert.Empty(t, notifier.sent)
		store.AssertExpectations(t)
	})

	t.Run("removed underneath is not found", func(t *testing.T) {
		store := new(MockSkillStore)
		store.On("GetByID", ctx, base.ID).Return(&base, nil).Once()
		store.On("Delete", ctx, base.ID, deletableStatuses, 3).Return(false, nil).Once()
		store.On("GetByID", ctx, base.ID).Return(nil, apperrors.ErrSkillNotFound).Once()

		svc := NewLifecycleService(store, nil, &recordingNotifier{}, zerolog.Nop())
		assert.ErrorIs(t, svc.Delete(ctx, ownerID, base.ID), apperrors.ErrSkillNotFound)
		store.AssertExpectations(t)
	})

	t.Run("storage failures pass through", func(t *testing.T) {
		store := new(MockSkillStore)
		store.On("GetByID", ctx, base.ID).Return(&base, nil).Once()
		store.On("Update", ctx, mock.AnythingOfType("*models.Skill"), models.StatusDraft, 3).
			Return(false, fmt.Errorf("error updating skill: %w", apperrors.ErrStorageTimeout)).Once()

		svc := NewLifecycleService(store, nil, &recordingNotifier{}, zerolog.Nop())
		_, err := svc.Apply(ctx, ownerID, base.ID, CommandPublish)
		assert.ErrorIs(t, err, apperrors.ErrStorageTimeout)
		assert.True(t, apperrors.IsRetryable(err))
		store.AssertExpectations(t)
	})
}
