package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/skillshare/internal/app/models/dto"
	"github.com/yigit/skillshare/internal/app/services"
	"github.com/yigit/skillshare/internal/middleware"
	"github.com/yigit/skillshare/internal/pkg/helpers"
)

// SkillController serves the public catalog and reviews
type SkillController struct {
	catalogService services.CatalogService
	reviewService  services.ReviewService
}

// NewSkillController creates a new SkillController
func NewSkillController(catalogService services.CatalogService, reviewService services.ReviewService) *SkillController {
	return &SkillController{
		catalogService: catalogService,
		reviewService:  reviewService,
	}
}

// ListSkills queries the public catalog
// @Summary Browse the catalog
// @Description Published skills filtered by search term, category and level. Unknown filter values are ignored.
// @Tags skills
// @Produce json
// @Param search query string false "Case-insensitive match on name or description"
// @Param category query string false "programming, design, marketing, business, languages or other"
// @Param level query string false "beginner, intermediate or advanced"
// @Param sortBy query string false "recent (default), popular or rating"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.SkillListResponse}
// @Failure 504 {object} dto.APIResponse "Data store timeout"
// @Router /skills [get]
func (c *SkillController) ListSkills(ctx *gin.Context) {
	var req dto.SkillQueryRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.catalogService.ListSkills(ctx.Request.Context(), &req, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetSkill returns a skill detail page
// @Summary Get a skill
// @Description Published skills only. Counts a view unless the caller owns the skill.
// @Tags skills
// @Produce json
// @Param id path string true "Skill ID"
// @Success 200 {object} dto.APIResponse{data=dto.SkillDetailResponse}
// @Failure 404 {object} dto.APIResponse
// @Router /skills/{id} [get]
func (c *SkillController) GetSkill(ctx *gin.Context) {
	resp, err := c.catalogService.GetSkill(ctx.Request.Context(), ctx.Param("id"), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetRelated returns similar skills
// @Summary Related skills
// @Tags skills
// @Produce json
// @Param id path string true "Skill ID"
// @Param limit query int false "Maximum results" default(4)
// @Success 200 {object} dto.APIResponse{data=[]dto.SkillSummaryResponse}
// @Failure 404 {object} dto.APIResponse
// @Router /skills/{id}/related [get]
func (c *SkillController) GetRelated(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.Query("limit"))
	resp, err := c.catalogService.GetRelated(ctx.Request.Context(), ctx.Param("id"), limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// ListReviews returns a page of reviews
// @Summary List reviews
// @Tags reviews
// @Produce json
// @Param id path string true "Skill ID"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.ReviewListResponse}
// @Failure 404 {object} dto.APIResponse
// @Router /skills/{id}/reviews [get]
func (c *SkillController) ListReviews(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	resp, err := c.catalogService.ListReviews(ctx.Request.Context(), ctx.Param("id"), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// AddReview appends a review
// @Summary Review a skill
// @Description One review per learner and skill. Owners cannot review their own skills.
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Skill ID"
// @Param request body dto.CreateReviewRequest true "Rating 1-5 and comment"
// @Success 201 {object} dto.APIResponse{data=dto.CreateReviewResponse}
// @Failure 403 {object} dto.APIResponse "Own skill"
// @Failure 404 {object} dto.APIResponse
// @Failure 409 {object} dto.APIResponse "Already reviewed or concurrent rating update"
// @Router /skills/{id}/reviews [post]
func (c *SkillController) AddReview(ctx *gin.Context) {
	var req dto.CreateReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp, err := c.reviewService.AddReview(ctx.Request.Context(), middleware.CurrentUserID(ctx), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}
