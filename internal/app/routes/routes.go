package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/skillshare/internal/app/controllers"
	"github.com/yigit/skillshare/internal/app/models"
	"github.com/yigit/skillshare/internal/middleware"
	"github.com/yigit/skillshare/internal/pkg/websocket"
)

// Controllers bundles the HTTP handlers mounted under /api/v1
type Controllers struct {
	Auth         *controllers.AuthController
	User         *controllers.UserController
	Skill        *controllers.SkillController
	Teach        *controllers.TeachController
	Session      *controllers.SessionController
	Notification *controllers.NotificationController
	Stream       *websocket.Handler
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	handlers Controllers,
	authMiddleware *middleware.AuthMiddleware,
	requestTimeout time.Duration,
) {
	v1 := router.Group("/api/v1")

	// The notification stream is long-lived and stays outside the request timeout.
	v1.GET("/notifications/ws", authMiddleware.JWTAuth(), handlers.Stream.HandleConnection)

	api := v1.Group("")
	api.Use(middleware.RequestTimeout(requestTimeout))

	// --- Public Auth routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/refresh", handlers.Auth.RefreshToken)
	}

	// --- Public catalog; a token, when present, identifies the viewer ---
	skills := api.Group("/skills")
	skills.Use(authMiddleware.OptionalAuth())
	{
		skills.GET("", handlers.Skill.ListSkills)
		skills.GET("/:id", handlers.Skill.GetSkill)
		skills.GET("/:id/related", handlers.Skill.GetRelated)
		skills.GET("/:id/reviews", handlers.Skill.ListReviews)
	}

	// --- Authenticated Routes Group ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	authenticated.POST("/auth/logout", handlers.Auth.Logout)
	authenticated.POST("/skills/:id/reviews", handlers.Skill.AddReview)

	users := authenticated.Group("/users")
	{
		users.GET("/me", handlers.User.GetMe)
		users.PUT("/me", handlers.User.UpdateMe)
		users.POST("/me/roles/instructor", handlers.User.BecomeInstructor)
	}
	api.GET("/users/:id", handlers.User.GetPublicProfile)

	teach := authenticated.Group("/teach")
	teach.Use(authMiddleware.RoleRequired(models.RoleInstructor))
	{
		teach.GET("/stats", handlers.Teach.Stats)
		teach.GET("/skills", handlers.Teach.ListSkills)
		teach.POST("/skills", handlers.Teach.CreateSkill)
		teach.GET("/skills/:id", handlers.Teach.GetSkill)
		teach.PUT("/skills/:id", handlers.Teach.UpdateSkill)
		teach.DELETE("/skills/:id", handlers.Teach.DeleteSkill)
		teach.POST("/skills/:id/publish", handlers.Teach.PublishSkill)
		teach.POST("/skills/:id/archive", handlers.Teach.ArchiveSkill)
		teach.POST("/skills/:id/restore", handlers.Teach.RestoreSkill)
		teach.POST("/skills/:id/duplicate", handlers.Teach.DuplicateSkill)
		teach.POST("/skills/:id/cover", handlers.Teach.UploadCover)
	}

	sessions := authenticated.Group("/sessions")
	{
		sessions.POST("", handlers.Session.CreateSession)
		sessions.GET("", handlers.Session.ListSessions)
		sessions.POST("/:id/confirm", handlers.Session.ConfirmSession)
		sessions.POST("/:id/complete", handlers.Session.CompleteSession)
		sessions.POST("/:id/cancel", handlers.Session.CancelSession)
	}

	notifications := authenticated.Group("/notifications")
	{
		notifications.GET("", handlers.Notification.ListNotifications)
		notifications.POST("/read-all", handlers.Notification.MarkAllRead)
		notifications.POST("/:id/read", handlers.Notification.MarkRead)
	}
}
