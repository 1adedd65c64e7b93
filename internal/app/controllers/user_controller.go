package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/skillshare/internal/app/models/dto"
	"github.com/yigit/skillshare/internal/app/services"
	"github.com/yigit/skillshare/internal/middleware"
)

// UserController handles user profile requests
type UserController struct {
	userService services.UserService
	authService *services.AuthService
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService, authService *services.AuthService) *UserController {
	return &UserController{
		userService: userService,
		authService: authService,
	}
}

// GetMe returns the caller's own profile
// @Summary Get my profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 401 {object} dto.APIResponse
// @Router /users/me [get]
func (c *UserController) GetMe(ctx *gin.Context) {
	user, err := c.userService.GetMe(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(user))
}

// UpdateMe updates the caller's profile
// @Summary Update my profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.APIResponse
// @Router /users/me [put]
func (c *UserController) UpdateMe(ctx *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	user, err := c.userService.UpdateProfile(ctx.Request.Context(), middleware.CurrentUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(user))
}

// BecomeInstructor grants the instructor role and returns fresh tokens carrying it
// @Summary Become an instructor
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse}
// @Router /users/me/roles/instructor [post]
func (c *UserController) BecomeInstructor(ctx *gin.Context) {
	resp, err := c.authService.BecomeInstructor(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetPublicProfile returns another user's public profile
// @Summary Get a public profile
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.PublicProfileResponse}
// @Failure 404 {object} dto.APIResponse
// @Router /users/{id} [get]
func (c *UserController) GetPublicProfile(ctx *gin.Context) {
	profile, err := c.userService.GetPublicProfile(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile))
}
