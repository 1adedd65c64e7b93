package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/skillshare/internal/app/controllers"
	appMigrations "github.com/yigit/skillshare/internal/app/migrations"
	appRepos "github.com/yigit/skillshare/internal/app/repositories"
	appRoutes "github.com/yigit/skillshare/internal/app/routes"
	appServices "github.com/yigit/skillshare/internal/app/services"
	"github.com/yigit/skillshare/internal/config"
	"github.com/yigit/skillshare/internal/db"
	appMiddleware "github.com/yigit/skillshare/internal/middleware"
	pkgAuth "github.com/yigit/skillshare/internal/pkg/auth"
	"github.com/yigit/skillshare/internal/pkg/filestorage"
	"github.com/yigit/skillshare/internal/pkg/helpers"
	"github.com/yigit/skillshare/internal/pkg/logger"
	"github.com/yigit/skillshare/internal/pkg/websocket"
	"github.com/yigit/skillshare/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos       *appRepos.Repositories
	JWTService  *pkgAuth.JWTService
	FileStorage *filestorage.LocalStorage
	Hub         *websocket.Hub

	AuthService         *appServices.AuthService
	UserService         appServices.UserService
	CatalogService      appServices.CatalogService
	LifecycleService    appServices.LifecycleService
	ReviewService       appServices.ReviewService
	SessionService      appServices.SessionService
	StatsService        appServices.StatsService
	NotificationService appServices.NotificationService

	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    appRoutes.Controllers
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = config.DefaultPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects, applies pending migrations and seeds demo data when enabled.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.DB, error) {
	lgr.Info().Str("driver", cfg.Database.Driver).Msg("Establishing database connection...")
	database, err := db.Open(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	if err := Migrate(ctx, database, lgr); err != nil {
		database.Close()
		return nil, err
	}

	if cfg.Server.Seed || strings.ToLower(cfg.Server.Mode) == "development" {
		if err := seed.CreateDefaultData(ctx, database, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return database, nil
}

// Migrate applies every pending migration.
func Migrate(ctx context.Context, database *db.DB, lgr zerolog.Logger) error {
	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database).Up(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")
	return nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.DB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)

	baseURL := cfg.Server.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:" + cfg.Server.Port
	}
	storage, err := filestorage.NewLocalStorage(cfg.Server.StoragePath, strings.TrimRight(baseURL, "/")+"/uploads")
	if err != nil {
		lgr.Error().Err(err).Str("path", cfg.Server.StoragePath).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}
	deps.FileStorage = storage

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.Hub = websocket.NewHub(logger.Component("hub"))

	deps.NotificationService = appServices.NewNotificationService(deps.Repos.NotificationRepository, deps.Hub, lgr)
	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.Repos.TokenRepository, deps.JWTService, lgr)
	deps.UserService = appServices.NewUserService(deps.Repos.UserRepository)
	deps.CatalogService = appServices.NewCatalogService(deps.Repos.SkillRepository, deps.Repos.UserRepository, deps.Repos.ReviewRepository, lgr)
	deps.LifecycleService = appServices.NewLifecycleService(deps.Repos.SkillRepository, deps.FileStorage, deps.NotificationService, lgr)
	deps.ReviewService = appServices.NewReviewService(database, deps.Repos, deps.NotificationService, lgr)
	deps.SessionService = appServices.NewSessionService(database, deps.Repos, deps.NotificationService, lgr)
	deps.StatsService = appServices.NewStatsService(deps.Repos.SkillRepository, deps.Repos.SessionRepository)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.Controllers = appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(deps.AuthService, lgr),
		User:         appControllers.NewUserController(deps.UserService, deps.AuthService),
		Skill:        appControllers.NewSkillController(deps.CatalogService, deps.ReviewService),
		Teach:        appControllers.NewTeachController(deps.LifecycleService, deps.StatsService, lgr),
		Session:      appControllers.NewSessionController(deps.SessionService),
		Notification: appControllers.NewNotificationController(deps.NotificationService),
		Stream:       websocket.NewHandler(deps.Hub, lgr),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	appMiddleware.RegisterValidation()

	router := gin.New()
	router.Use(
		appMiddleware.RequestLogger(lgr),
		appMiddleware.Recovery(),
		appMiddleware.CORS(),
	)

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router,
		deps.Controllers,
		deps.AuthMiddleware,
		helpers.ParseDuration(cfg.Server.RequestTimeout, 15*time.Second),
	)

	router.Static("/uploads", cfg.Server.StoragePath)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
