package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yigit/skillshare/internal/app/auth"
	"github.com/yigit/skillshare/internal/app/catalog"
	"github.com/yigit/skillshare/internal/app/models"
	"github.com/yigit/skillshare/internal/app/models/dto"
	"github.com/yigit/skillshare/internal/app/repositories"
	"github.com/yigit/skillshare/internal/pkg/apperrors"
	"github.com/yigit/skillshare/internal/pkg/filestorage"
	"github.com/yigit/skillshare/internal/pkg/helpers"
)

// Command is a lifecycle operation on a skill
type Command string

const (
	CommandPublish Command = "publish"
	CommandArchive Command = "archive"
	CommandRestore Command = "restore"
	CommandDelete  Command = "delete"
	// requested through an edit with status "draft"; no status leads back to draft
	commandRevert Command = "move to draft"
)

// transitions maps a command and a current status to the resulting status.
var transitions = map[Command]map[models.SkillStatus]models.SkillStatus{
	CommandPublish: {
		models.StatusDraft:    models.StatusPublished,
		models.StatusArchived: models.StatusPublished,
	},
	CommandArchive: {
		models.StatusPublished: models.StatusArchived,
	},
	CommandRestore: {
		models.StatusArchived: models.StatusPublished,
	},
}

var deletableStatuses = []models.SkillStatus{models.StatusDraft, models.StatusArchived}

const maxCoverSize = 5 << 20

var coverExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}

// NextStatus reports the status cmd leads to from the given status.
func NextStatus(from models.SkillStatus, cmd Command) (models.SkillStatus, bool) {
	if cmd == CommandDelete {
		return "", slices.Contains(deletableStatuses, from)
	}
	to, ok := transitions[cmd][from]
	return to, ok
}

// commandFor resolves an edit's requested status into the command that reaches it.
func commandFor(from, to models.SkillStatus) Command {
	switch {
	case to == "" || to == from:
		return ""
	case to == models.StatusPublished && from == models.StatusArchived:
		return CommandRestore
	case to == models.StatusPublished:
		return CommandPublish
	case to == models.StatusArchived:
		return CommandArchive
	default:
		return commandRevert
	}
}

// LifecycleService defines the instructor-side operations on teaching content
type LifecycleService interface {
	ListOwned(ctx context.Context, actorID string, req *dto.SkillQueryRequest, page, size int) (*dto.OwnedSkillListResponse, error)
	GetOwned(ctx context.Context, actorID, id string) (*dto.OwnedSkillResponse, error)
	Create(ctx context.Context, actorID string, req *dto.CreateSkillRequest) (*dto.OwnedSkillResponse, error)
	Edit(ctx context.Context, actorID, id string, req *dto.UpdateSkillRequest) (*dto.OwnedSkillResponse, error)
	Apply(ctx context.Context, actorID, id string, cmd Command) (*dto.OwnedSkillResponse, error)
	Delete(ctx context.Context, actorID, id string) error
	Duplicate(ctx context.Context, actorID, id string) (*dto.OwnedSkillResponse, error)
	SetCover(ctx context.Context, actorID, id string, file *multipart.FileHeader) (*dto.OwnedSkillResponse, error)
}

// lifecycleServiceImpl implements LifecycleService
type lifecycleServiceImpl struct {
	skills   SkillStore
	files    filestorage.FileStorage
	notifier Notifier
	logger   zerolog.Logger
}

// NewLifecycleService creates a new LifecycleService
func NewLifecycleService(skills SkillStore, files filestorage.FileStorage, notifier Notifier, logger zerolog.Logger) LifecycleService {
	return &lifecycleServiceImpl{
		skills:   skills,
		files:    files,
		notifier: notifier,
		logger:   logger,
	}
}

// change describes one conditional write: an optional content edit and an optional
// command. target is an edit's requested status, resolved against the stored status.
type change struct {
	command Command
	target  models.SkillStatus
	edit    func(*models.Skill)
}

// ListOwned returns one page of the caller's dashboard tab
func (s *lifecycleServiceImpl) ListOwned(ctx context.Context, actorID string, req *dto.SkillQueryRequest, page, size int) (*dto.OwnedSkillListResponse, error) {
	params := catalog.ParseParams(req.Search, req.Category, req.Level, req.SortBy)
	params.Visibility = catalog.Dashboard(actorID, catalog.ParseStatus(req.Status))

	owned, err := s.skills.List(ctx, repositories.SkillFilter{OwnerID: actorID})
	if err != nil {
		return nil, fmt.Errorf("error loading owned skills: %w", err)
	}

	result := catalog.Query(owned, params)
	start, end := helpers.CalculateSliceIndices(page, size, len(result))

	resp := &dto.OwnedSkillListResponse{
		Items:      make([]dto.OwnedSkillResponse, 0, end-start),
		Pagination: helpers.NewPaginationInfo(int64(len(result)), page, size),
	}
	for i := start; i < end; i++ {
		resp.Items = append(resp.Items, dto.NewOwnedSkillResponse(&result[i]))
	}
	return resp, nil
}

// GetOwned returns one of the caller's skills in any status
func (s *lifecycleServiceImpl) GetOwned(ctx context.Context, actorID, id string) (*dto.OwnedSkillResponse, error) {
	skill, err := s.ownedSkill(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewOwnedSkillResponse(skill)
	return &resp, nil
}

// Create stores a new draft owned by the caller. Drafts may be incomplete.
func (s *lifecycleServiceImpl) Create(ctx context.Context, actorID string, req *dto.CreateSkillRequest) (*dto.OwnedSkillResponse, error) {
	skill := &models.Skill{
		ID:       uuid.NewString(),
		OwnerID:  actorID,
		Status:   models.StatusDraft,
		Category: models.CategoryOther,
		Level:    models.LevelBeginner,
	}
	applyContent(skill, &req.SkillContentRequest)

	if err := s.skills.Create(ctx, skill); err != nil {
		return nil, fmt.Errorf("error creating skill: %w", err)
	}

	s.logger.Info().Str("skillID", skill.ID).Str("ownerID", actorID).Msg("Skill draft created")
	resp := dto.NewOwnedSkillResponse(skill)
	return &resp, nil
}

// Edit replaces the content of a skill. A requested status is applied in the same write.
func (s *lifecycleServiceImpl) Edit(ctx context.Context, actorID, id string, req *dto.UpdateSkillRequest) (*dto.OwnedSkillResponse, error) {
	skill, err := s.apply(ctx, actorID, id, change{
		target: models.SkillStatus(req.Status),
		edit: func(sk *models.Skill) {
			applyContent(sk, &req.SkillContentRequest)
		},
	})
	if err != nil {
		return nil, err
	}
	resp := dto.NewOwnedSkillResponse(skill)
	return &resp, nil
}

// Apply runs a status command (publish, archive or restore)
func (s *lifecycleServiceImpl) Apply(ctx context.Context, actorID, id string, cmd Command) (*dto.OwnedSkillResponse, error) {
	if cmd == CommandDelete {
		return nil, s.Delete(ctx, actorID, id)
	}
	skill, err := s.apply(ctx, actorID, id, change{command: cmd})
	if err != nil {
		return nil, err
	}
	resp := dto.NewOwnedSkillResponse(skill)
	return &resp, nil
}

// Delete removes a draft or archived skill with its reviews
func (s *lifecycleServiceImpl) Delete(ctx context.Context, actorID, id string) error {
	current, err := s.ownedSkill(ctx, actorID, id)
	if err != nil {
		return err
	}

	if _, ok := NextStatus(current.Status, CommandDelete); !ok {
		return deleteRejected(current.Status)
	}

	ok, err := s.skills.Delete(ctx, id, deletableStatuses, current.Version)
	if err != nil {
		return fmt.Errorf("error deleting skill: %w", err)
	}
	if !ok {
		return s.lostRace(ctx, id, CommandDelete)
	}

	if current.ImageURL != "" {
		if err := s.files.DeleteFile(current.ImageURL); err != nil {
			s.logger.Warn().Err(err).Str("skillID", id).Msg("Failed to remove cover image of deleted skill")
		}
	}

	s.logger.Info().Str("skillID", id).Str("ownerID", actorID).Str("from", string(current.Status)).Msg("Skill deleted")
	return nil
}

// Duplicate copies a skill's content into a new draft with fresh counters
func (s *lifecycleServiceImpl) Duplicate(ctx context.Context, actorID, id string) (*dto.OwnedSkillResponse, error) {
	source, err := s.ownedSkill(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	dup := &models.Skill{
		ID:               uuid.NewString(),
		OwnerID:          actorID,
		Name:             source.Name + " (Copy)",
		Description:      source.Description,
		Category:         source.Category,
		Level:            source.Level,
		Status:           models.StatusDraft,
		PreviewVideoURL:  source.PreviewVideoURL,
		Modules:          cloneModules(source.Modules),
		LearningOutcomes: slices.Clone(source.LearningOutcomes),
		Prerequisites:    slices.Clone(source.Prerequisites),
	}
	if source.ImageURL != "" {
		url, err := s.files.CopyFile(source.ImageURL, "covers")
		if err != nil {
			s.logger.Warn().Err(err).Str("skillID", source.ID).Msg("Failed to copy cover image, duplicate has none")
		} else {
			dup.ImageURL = url
		}
	}
	if err := s.skills.Create(ctx, dup); err != nil {
		if dup.ImageURL != "" {
			_ = s.files.DeleteFile(dup.ImageURL)
		}
		return nil, fmt.Errorf("error duplicating skill: %w", err)
	}

	s.logger.Info().Str("skillID", dup.ID).Str("sourceID", source.ID).Msg("Skill duplicated")
	resp := dto.NewOwnedSkillResponse(dup)
	return &resp, nil
}

// SetCover stores an uploaded cover image and points the skill at it
func (s *lifecycleServiceImpl) SetCover(ctx context.Context, actorID, id string, file *multipart.FileHeader) (*dto.OwnedSkillResponse, error) {
	if err := validateCover(file); err != nil {
		return nil, err
	}

	current, err := s.ownedSkill(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	url, err := s.files.SaveFileWithPath(file, "covers")
	if err != nil {
		return nil, fmt.Errorf("error saving cover image: %w", err)
	}

	if err := s.skills.SetImage(ctx, id, url); err != nil {
		_ = s.files.DeleteFile(url)
		return nil, fmt.Errorf("error updating cover image: %w", err)
	}

	if current.ImageURL != "" {
		if err := s.files.DeleteFile(current.ImageURL); err != nil {
			s.logger.Warn().Err(err).Str("skillID", id).Msg("Failed to remove previous cover image")
		}
	}

	return s.GetOwned(ctx, actorID, id)
}

// apply performs one compare-and-swap write of ch against the stored skill.
func (s *lifecycleServiceImpl) apply(ctx context.Context, actorID, id string, ch change) (*models.Skill, error) {
	current, err := s.ownedSkill(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	cmd := ch.command
	if ch.target != "" {
		cmd = commandFor(current.Status, ch.target)
	}

	next := *current
	if ch.edit != nil {
		ch.edit(&next)
	}

	if cmd != "" {
		to, ok := NextStatus(current.Status, cmd)
		if !ok {
			return nil, apperrors.NewInvalidTransitionError(string(current.Status), string(cmd))
		}
		next.Status = to
		if to == models.StatusPublished {
			now := helpers.Now()
			next.PublishedAt = &now
		}
	}

	if next.Status == models.StatusPublished {
		if err := validateForPublish(&next); err != nil {
			return nil, err
		}
	}

	ok, err := s.skills.Update(ctx, &next, current.Status, current.Version)
	if err != nil {
		return nil, fmt.Errorf("error saving skill: %w", err)
	}
	if !ok {
		return nil, s.lostRace(ctx, id, cmd)
	}

	if cmd != "" {
		s.logger.Info().
			Str("skillID", id).
			Str("command", string(cmd)).
			Str("from", string(current.Status)).
			Str("to", string(next.Status)).
			Msg("Skill status changed")
	}
	if current.Status != models.StatusPublished && next.Status == models.StatusPublished {
		s.notifier.Notify(ctx, actorID, models.NotificationSkillPublished,
			fmt.Sprintf("Your skill %q is now live in the catalog", next.Name), "/skills/"+next.ID)
	}

	return &next, nil
}

// lostRace explains a conditional write that matched no row.
func (s *lifecycleServiceImpl) lostRace(ctx context.Context, id string, cmd Command) error {
	latest, err := s.skills.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if cmd != "" {
		if _, ok := NextStatus(latest.Status, cmd); !ok {
			if cmd == CommandDelete {
				return deleteRejected(latest.Status)
			}
			return apperrors.NewInvalidTransitionError(string(latest.Status), string(cmd))
		}
	}
	return apperrors.NewConflictError("the skill was modified by another request; reload and try again")
}

func (s *lifecycleServiceImpl) ownedSkill(ctx context.Context, actorID, id string) (*models.Skill, error) {
	skill, err := s.skills.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.ValidateSkillOwnership(skill, actorID); err != nil {
		return nil, err
	}
	return skill, nil
}

func deleteRejected(status models.SkillStatus) error {
	if status == models.StatusPublished {
		return apperrors.NewCustomError(apperrors.ErrInvalidTransition, "archive the skill before deleting it").
			WithDetails(map[string]interface{}{"status": string(status), "command": string(CommandDelete)})
	}
	return apperrors.NewInvalidTransitionError(string(status), string(CommandDelete))
}

// validateForPublish lists every field that keeps the skill from going live
func validateForPublish(skill *models.Skill) error {
	fields := map[string]string{}
	if strings.TrimSpace(skill.Name) == "" {
		fields["name"] = "name is required to publish"
	}
	if strings.TrimSpace(skill.Description) == "" {
		fields["description"] = "description is required to publish"
	}
	if skill.Modules.LessonCount() == 0 {
		fields["modules"] = "at least one lesson is required to publish"
	}
	if len(fields) > 0 {
		return apperrors.NewValidationError("skill is not ready to publish", fields)
	}
	return nil
}

func validateCover(file *multipart.FileHeader) error {
	if file == nil {
		return apperrors.NewValidationError("cover image is required", map[string]string{"file": "file is required"})
	}
	if file.Size > maxCoverSize {
		return apperrors.NewValidationError("cover image is too large", map[string]string{"file": "maximum size is 5 MB"})
	}
	if !slices.Contains(coverExtensions, strings.ToLower(filepath.Ext(file.Filename))) {
		return apperrors.NewValidationError("unsupported image type",
			map[string]string{"file": "allowed types: " + strings.Join(coverExtensions, ", ")})
	}
	return nil
}

// applyContent copies the editable fields of req onto skill. Empty category and level keep the stored value.
func applyContent(skill *models.Skill, req *dto.SkillContentRequest) {
	skill.Name = strings.TrimSpace(req.Name)
	skill.Description = strings.TrimSpace(req.Description)
	if req.Category != "" {
		skill.Category = models.Category(req.Category)
	}
	if req.Level != "" {
		skill.Level = models.Level(req.Level)
	}
	skill.PreviewVideoURL = strings.TrimSpace(req.PreviewVideoURL)
	skill.Modules = req.ToModules()
	skill.LearningOutcomes = trimList(req.LearningOutcomes)
	skill.Prerequisites = trimList(req.Prerequisites)
}

func trimList(in []string) models.StringList {
	out := make(models.StringList, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func cloneModules(in models.Modules) models.Modules {
	out := make(models.Modules, len(in))
	for i, m := range in {
		out[i] = models.Module{Title: m.Title, Lessons: slices.Clone(m.Lessons)}
	}
	return out
}
