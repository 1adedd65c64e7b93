package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/skillshare/internal/app/models/dto"
	"github.com/yigit/skillshare/internal/app/services"
	"github.com/yigit/skillshare/internal/middleware"
	"github.com/yigit/skillshare/internal/pkg/helpers"
)

// NotificationController serves the notification inbox
type NotificationController struct {
	notificationService services.NotificationService
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notificationService services.NotificationService) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

// ListNotifications returns a page of the inbox
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param unread query bool false "Only unread notifications"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.NotificationListResponse}
// @Router /notifications [get]
func (c *NotificationController) ListNotifications(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	unreadOnly := ctx.Query("unread") == "true"

	resp, err := c.notificationService.List(ctx.Request.Context(), middleware.CurrentUserID(ctx), unreadOnly, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// MarkRead marks one notification as read
// @Summary Mark a notification as read
// @Tags notifications
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 204 "Marked"
// @Failure 404 {object} dto.APIResponse
// @Router /notifications/{id}/read [post]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	if err := c.notificationService.MarkRead(ctx.Request.Context(), middleware.CurrentUserID(ctx), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// MarkAllRead marks the whole inbox as read
// @Summary Mark all notifications as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "data.updated holds the number of notifications changed"
// @Router /notifications/read-all [post]
func (c *NotificationController) MarkAllRead(ctx *gin.Context) {
	n, err := c.notificationService.MarkAllRead(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"updated": n}))
}
