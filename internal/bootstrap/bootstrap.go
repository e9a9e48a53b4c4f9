package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/ecoquest/backend/internal/app/controllers"
	appMigrations "github.com/ecoquest/backend/internal/app/migrations"
	appRepos "github.com/ecoquest/backend/internal/app/repositories"
	appRoutes "github.com/ecoquest/backend/internal/app/routes"
	appServices "github.com/ecoquest/backend/internal/app/services"
	"github.com/ecoquest/backend/internal/config"
	"github.com/ecoquest/backend/internal/db"
	appMiddleware "github.com/ecoquest/backend/internal/middleware"
	pkgAuth "github.com/ecoquest/backend/internal/pkg/auth"
	"github.com/ecoquest/backend/internal/pkg/filestorage"
	"github.com/ecoquest/backend/internal/pkg/geocoding"
	"github.com/ecoquest/backend/internal/pkg/helpers"
	"github.com/ecoquest/backend/internal/pkg/logger"
	"github.com/ecoquest/backend/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService             *appServices.AuthService
	UserService             *appServices.UserService
	EventService            *appServices.EventService
	RegistrationService     *appServices.RegistrationService
	ParticipationService    *appServices.ParticipationService
	GamificationService     *appServices.GamificationService
	RewardService           *appServices.RewardService
	NGOService              *appServices.NGOService
	AuthController          *appControllers.AuthController
	UserController          *appControllers.UserController
	EventController         *appControllers.EventController
	RegistrationController  *appControllers.RegistrationController
	ParticipationController *appControllers.ParticipationController
	GamificationController  *appControllers.GamificationController
	RewardController        *appControllers.RewardController
	NGOController           *appControllers.NGOController
	FileController          *appControllers.FileController
	AuthMiddleware          *appMiddleware.AuthMiddleware
	Repos                   *appRepos.Repositories
	JWTService              *pkgAuth.JWTService
	Geocoder                geocoding.Geocoder
	FileStorage             *filestorage.LocalStorage
	Logger                  zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, lgr)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(ctx, database.Pool, lgr); err != nil {
		// Partial seed data is recoverable; the next startup retries
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)

	// Stored files are served from the /uploads static route, so returned
	// URLs must point there
	fileStorageBaseURL := cfg.Storage.BaseURL
	if fileStorageBaseURL == "" {
		fileStorageBaseURL = "http://localhost:" + cfg.Server.Port + "/uploads"
	}
	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Storage.Path, fileStorageBaseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.Geocoder = geocoding.NewGeocoder(geocoding.Config{
		BaseURL:   cfg.Geocoding.BaseURL,
		UserAgent: cfg.Geocoding.UserAgent,
		Timeout:   helpers.ParseDuration(cfg.Geocoding.Timeout, 5*time.Second),
	}, lgr)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	// GamificationService first; XP and badge side effects of the other
	// services flow through it
	deps.GamificationService = appServices.NewGamificationService(
		deps.Repos.XPRepository,
		deps.Repos.BadgeRepository,
		deps.Repos.RegistrationRepository,
		lgr,
	)

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
		lgr,
	)
	deps.UserService = appServices.NewUserService(
		deps.Repos.UserRepository,
		deps.Repos.NGORepository,
		deps.Geocoder,
		lgr,
	)
	deps.EventService = appServices.NewEventService(
		deps.Repos.EventRepository,
		deps.Repos.UserRepository,
		deps.Repos.NGORepository,
		deps.Repos.ParticipationRepository,
		deps.Repos.FeedbackRepository,
		deps.GamificationService,
		lgr,
	)
	deps.RegistrationService = appServices.NewRegistrationService(
		deps.Repos.RegistrationRepository,
		deps.Repos.EventRepository,
		deps.GamificationService,
		cfg,
		lgr,
	)
	deps.ParticipationService = appServices.NewParticipationService(
		deps.Repos.ParticipationRepository,
		deps.Repos.RegistrationRepository,
		deps.Repos.EventRepository,
		deps.Repos.FeedbackRepository,
		deps.GamificationService,
		lgr,
	)
	deps.RewardService = appServices.NewRewardService(deps.Repos.RewardRepository, lgr)
	deps.NGOService = appServices.NewNGOService(
		deps.Repos.NGORepository,
		deps.Repos.UserRepository,
		deps.Geocoder,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Repos.UserRepository)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.UserController = appControllers.NewUserController(deps.UserService, deps.FileStorage, lgr)
	deps.EventController = appControllers.NewEventController(deps.EventService, lgr)
	deps.RegistrationController = appControllers.NewRegistrationController(deps.RegistrationService, lgr)
	deps.ParticipationController = appControllers.NewParticipationController(deps.ParticipationService, lgr)
	deps.GamificationController = appControllers.NewGamificationController(deps.GamificationService, lgr)
	deps.RewardController = appControllers.NewRewardController(deps.RewardService, lgr)
	deps.NGOController = appControllers.NewNGOController(deps.NGOService, lgr)
	deps.FileController = appControllers.NewFileController(deps.FileStorage, lgr)

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

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(gin.Recovery())

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.UserController,
		deps.EventController,
		deps.RegistrationController,
		deps.ParticipationController,
		deps.GamificationController,
		deps.RewardController,
		deps.NGOController,
		deps.FileController,
		deps.AuthMiddleware,
	)

	return router
}
