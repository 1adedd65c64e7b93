package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/skillshare/internal/app/models/dto"
	"github.com/yigit/skillshare/internal/app/services"
	"github.com/yigit/skillshare/internal/middleware"
	"github.com/yigit/skillshare/internal/pkg/apperrors"
	"github.com/yigit/skillshare/internal/pkg/helpers"
)

// TeachController serves the instructor dashboard
type TeachController struct {
	lifecycle services.LifecycleService
	stats     services.StatsService
	logger    zerolog.Logger
}

// NewTeachController creates a new TeachController
func NewTeachController(lifecycle services.LifecycleService, stats services.StatsService, logger zerolog.Logger) *TeachController {
	return &TeachController{
		lifecycle: lifecycle,
		stats:     stats,
		logger:    logger,
	}
}

// ListSkills returns a dashboard tab
// @Summary List my skills
// @Description All of the caller's skills, or one tab when status is given.
// @Tags teach
// @Produce json
// @Security BearerAuth
// @Param status query string false "published, draft (or drafts) or archived"
// @Param search query string false "Case-insensitive match on name or description"
// @Param sortBy query string false "recent (default), popular or rating"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.OwnedSkillListResponse}
// @Failure 403 {object} dto.APIResponse "Instructor role required"
// @Router /teach/skills [get]
func (c *TeachController) ListSkills(ctx *gin.Context) {
	var req dto.SkillQueryRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.lifecycle.ListOwned(ctx.Request.Context(), middleware.CurrentUserID(ctx), &req, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Stats returns the dashboard summary
// @Summary Teaching stats
// @Tags teach
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.TeachingStatsResponse}
// @Router /teach/stats [get]
func (c *TeachController) Stats(ctx *gin.Context) {
	resp, err := c.stats.TeachingStats(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// CreateSkill stores a new draft
// @Summary Create a draft
// @Description Drafts may be incomplete; completeness is checked when publishing.
// @Tags teach
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSkillRequest true "Skill content"
// @Success 201 {object} dto.APIResponse{data=dto.OwnedSkillResponse}
// @Failure 400 {object} dto.APIResponse
// @Router /teach/skills [post]
func (c *TeachController) CreateSkill(ctx *gin.Context) {
	var req dto.CreateSkillRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp, err := c.lifecycle.Create(ctx.Request.Context(), middleware.CurrentUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// GetSkill returns one of the caller's skills in any status
// @Summary Get my skill
// @Tags teach
// @Produce json
// @Security BearerAuth
// @Param id path string true "Skill ID"
// @Success 200 {object} dto.APIResponse{data=dto.OwnedSkillResponse}
// @Failure 403 {object} dto.APIResponse "Not the owner"
// @Failure 404 {object} dto.APIResponse
// @Router /teach/skills/{id} [get]
func (c *TeachController) GetSkill(ctx *gin.Context) {
	resp, err := c.lifecycle.GetOwned(ctx.Request.Context(), middleware.CurrentUserID(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// UpdateSkill edits a skill
// @Summary Edit my skill
// @Description Replaces the content. A status in the payload is applied with the same rules as the lifecycle commands.
// @Tags teach
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Skill ID"
// @Param request body dto.UpdateSkillRequest true "Skill content and optional status"
// @Success 200 {object} dto.APIResponse{data=dto.OwnedSkillResponse}
// @Failure 400 {object} dto.APIResponse "Incomplete content for a published skill"
// @Failure 403 {object} dto.APIResponse "Not the owner"
// @Failure 409 {object} dto.APIResponse "Invalid transition or concurrent modification"
// @Router /teach/skills/{id} [put]
func (c *TeachController) UpdateSkill(ctx *gin.Context) {
	var req dto.UpdateSkillRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp, err := c.lifecycle.Edit(ctx.Request.Context(), middleware.CurrentUserID(ctx), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// PublishSkill makes a draft or archived skill visible in the catalog
// @Summary Publish
// @Tags teach
// @Produce json
// @Security BearerAuth
// @Param id path string true "Skill ID"
// @Success 200 {object} dto.APIResponse{data=dto.OwnedSkillResponse}
// @Failure 400 {object} dto.APIResponse "Missing name, description or lessons"
// @Failure 409 {object} dto.APIResponse "Already published"
// @Router /teach/skills/{id}/publish [post]
func (c *TeachController) PublishSkill(ctx *gin.Context) {
	c.apply(ctx, services.CommandPublish)
}

// ArchiveSkill hides a published skill
// @Summary Archive
// @Tags teach
// @Produce json
// @Security BearerAuth
// @Param id path string true "Skill ID"
// @Success 200 {object} dto.APIResponse{data=dto.OwnedSkillResponse}
// @Failure 409 {object} dto.APIResponse "Not published"
// @Router /teach/skills/{id}/archive [post]
func (c *TeachController) ArchiveSkill(ctx *gin.Context) {
	c.apply(ctx, services.CommandArchive)
}

// RestoreSkill publishes an archived skill again
// @Summary Restore
// @Tags teach
// @Produce json
// @Security BearerAuth
// @Param id path string true "Skill ID"
// @Success 200 {object} dto.APIResponse{data=dto.OwnedSkillResponse}
// @Failure 409 {object} dto.APIResponse "Not archived"
// @Router /teach/skills/{id}/restore [post]
func (c *TeachController) RestoreSkill(ctx *gin.Context) {
	c.apply(ctx, services.CommandRestore)
}

func (c *TeachController) apply(ctx *gin.Context, cmd services.Command) {
	resp, err := c.lifecycle.Apply(ctx.Request.Context(), middleware.CurrentUserID(ctx), ctx.Param("id"), cmd)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// DuplicateSkill copies a skill into a new draft
// @Summary Duplicate
// @Tags teach
// @Produce json
// @Security BearerAuth
// @Param id path string true "Skill ID"
// @Success 201 {object} dto.APIResponse{data=dto.OwnedSkillResponse}
// @Router /teach/skills/{id}/duplicate [post]
func (c *TeachController) DuplicateSkill(ctx *gin.Context) {
	resp, err := c.lifecycle.Duplicate(ctx.Request.Context(), middleware.CurrentUserID(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// DeleteSkill removes a draft or archived skill
// @Summary Delete
// @Description Published skills must be archived first.
// @Tags teach
// @Security BearerAuth
// @Param id path string true "Skill ID"
// @Success 204 "Deleted"
// @Failure 409 {object} dto.APIResponse "Published skill"
// @Router /teach/skills/{id} [delete]
func (c *TeachController) DeleteSkill(ctx *gin.Context) {
	if err := c.lifecycle.Delete(ctx.Request.Context(), middleware.CurrentUserID(ctx), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// UploadCover stores a cover image
// @Summary Upload cover image
// @Tags teach
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Skill ID"
// @Param file formData file true "Image (jpg, png, webp or gif, at most 5 MB)"
// @Success 200 {object} dto.APIResponse{data=dto.OwnedSkillResponse}
// @Failure 400 {object} dto.APIResponse
// @Router /teach/skills/{id}/cover [post]
func (c *TeachController) UploadCover(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("invalid multipart form"))
		return
	}

	resp, err := c.lifecycle.SetCover(ctx.Request.Context(), middleware.CurrentUserID(ctx), ctx.Param("id"), file)
	if err != nil {
		c.logger.Warn().Err(err).Str("skillID", ctx.Param("id")).Msg("Cover upload failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
