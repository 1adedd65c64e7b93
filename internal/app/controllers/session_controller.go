package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/skillshare/internal/app/models/dto"
	"github.com/yigit/skillshare/internal/app/services"
	"github.com/yigit/skillshare/internal/middleware"
)

// SessionController handles session bookings
type SessionController struct {
	sessionService services.SessionService
}

// NewSessionController creates a new SessionController
func NewSessionController(sessionService services.SessionService) *SessionController {
	return &SessionController{sessionService: sessionService}
}

// CreateSession requests a session on a published skill
// @Summary Request a session
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSessionRequest true "Session request"
// @Success 201 {object} dto.APIResponse{data=dto.SessionResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse "Skill not found or not published"
// @Router /sessions [post]
func (c *SessionController) CreateSession(ctx *gin.Context) {
	var req dto.CreateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp, err := c.sessionService.Create(ctx.Request.Context(), middleware.CurrentUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// ListSessions lists the caller's sessions
// @Summary List my sessions
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param role query string false "learner (default) or instructor"
// @Success 200 {object} dto.APIResponse{data=[]dto.SessionResponse}
// @Router /sessions [get]
func (c *SessionController) ListSessions(ctx *gin.Context) {
	asInstructor := ctx.Query("role") == "instructor"
	resp, err := c.sessionService.List(ctx.Request.Context(), middleware.CurrentUserID(ctx), asInstructor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// ConfirmSession accepts a requested session
// @Summary Confirm a session
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} dto.APIResponse{data=dto.SessionResponse}
// @Failure 403 {object} dto.APIResponse "Instructor only"
// @Failure 409 {object} dto.APIResponse
// @Router /sessions/{id}/confirm [post]
func (c *SessionController) ConfirmSession(ctx *gin.Context) {
	c.transition(ctx, services.SessionConfirm)
}

// CompleteSession marks a confirmed session as held
// @Summary Complete a session
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} dto.APIResponse{data=dto.SessionResponse}
// @Failure 403 {object} dto.APIResponse "Instructor only"
// @Failure 409 {object} dto.APIResponse
// @Router /sessions/{id}/complete [post]
func (c *SessionController) CompleteSession(ctx *gin.Context) {
	c.transition(ctx, services.SessionComplete)
}

// CancelSession cancels a pending session
// @Summary Cancel a session
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} dto.APIResponse{data=dto.SessionResponse}
// @Failure 409 {object} dto.APIResponse
// @Router /sessions/{id}/cancel [post]
func (c *SessionController) CancelSession(ctx *gin.Context) {
	c.transition(ctx, services.SessionCancel)
}

func (c *SessionController) transition(ctx *gin.Context, action services.SessionAction) {
	resp, err := c.sessionService.Transition(ctx.Request.Context(), middleware.CurrentUserID(ctx), ctx.Param("id"), action)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
