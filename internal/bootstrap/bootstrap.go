package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/mertdogan/internhub/docs" // generated swagger docs
	appControllers "github.com/mertdogan/internhub/internal/app/controllers"
	appMigrations "github.com/mertdogan/internhub/internal/app/migrations"
	appRoutes "github.com/mertdogan/internhub/internal/app/routes"
	appServices "github.com/mertdogan/internhub/internal/app/services"
	"github.com/mertdogan/internhub/internal/config"
	"github.com/mertdogan/internhub/internal/db"
	appMiddleware "github.com/mertdogan/internhub/internal/middleware"
	pkgAuth "github.com/mertdogan/internhub/internal/pkg/auth"
	"github.com/mertdogan/internhub/internal/pkg/email"
	"github.com/mertdogan/internhub/internal/pkg/filestorage"
	"github.com/mertdogan/internhub/internal/pkg/helpers"
	"github.com/mertdogan/internhub/internal/pkg/logger"
	"github.com/mertdogan/internhub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthController       *appControllers.AuthController
	PersonController     *appControllers.PersonController
	CompanyController    *appControllers.CompanyController
	SiteController       *appControllers.SiteController
	InternshipController *appControllers.InternshipController
	FavouriteController  *appControllers.FavouriteController
	TrackingController   *appControllers.TrackingController
	LookupController     *appControllers.LookupController
	HealthController     *appControllers.HealthController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	JWTService           *pkgAuth.JWTService
	EmailService         email.EmailService
	FileStorage          *filestorage.LocalStorage
	Logger               zerolog.Logger
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
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.Postgres, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgres(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), database, lgr); err != nil {
		// Seeding is best effort; a partially seeded database still serves.
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	if err := cleanupExpiredTokens(context.Background(), database, lgr); err != nil {
		// The sweep repeats on the next start; stale rows only cost space.
		lgr.Warn().Err(err).Msg("Failed to delete expired refresh tokens, proceeding anyway...")
	}

	return database, nil
}

// cleanupExpiredTokens deletes refresh token rows that can never validate
// again. Runs once per startup.
func cleanupExpiredTokens(ctx context.Context, database *db.Postgres, lgr zerolog.Logger) error {
	unit, err := database.NewUnit(ctx, false)
	if err != nil {
		return err
	}
	defer unit.Rollback(ctx)

	removed, err := appServices.NewTokenService(unit).DeleteExpired(ctx)
	if err != nil {
		return err
	}
	if err := unit.Commit(ctx); err != nil {
		return err
	}

	if removed > 0 {
		lgr.Info().Int64("count", removed).Msg("Expired refresh tokens deleted")
	}
	return nil
}

// BuildDependencies initializes services, controllers and middleware.
func BuildDependencies(cfg *config.Config, database *db.Postgres, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	baseURL := "http://localhost:" + cfg.Server.Port
	fileStorageBaseURL := baseURL + "/uploads"
	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, fileStorageBaseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	smtpPort, err := strconv.Atoi(cfg.SMTP.Port)
	if err != nil {
		smtpPort = 587
	}
	deps.EmailService = email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      smtpPort,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  "InternHub",
		FromEmail: cfg.SMTP.From,
		UseTLS:    config.GetEnvAsBool("SMTP_USE_TLS", false),
		BaseURL:   baseURL,
	}, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(database, deps.JWTService, deps.EmailService)
	deps.PersonController = appControllers.NewPersonController(database)
	deps.CompanyController = appControllers.NewCompanyController(database, deps.FileStorage, deps.EmailService)
	deps.SiteController = appControllers.NewSiteController(database)
	deps.InternshipController = appControllers.NewInternshipController(database, deps.FileStorage)
	deps.FavouriteController = appControllers.NewFavouriteController(database)
	deps.TrackingController = appControllers.NewTrackingController(database)
	deps.LookupController = appControllers.NewLookupController(database)
	deps.HealthController = appControllers.NewHealthController(database)

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

	router := gin.Default()

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.PersonController,
		deps.CompanyController,
		deps.SiteController,
		deps.InternshipController,
		deps.FavouriteController,
		deps.TrackingController,
		deps.LookupController,
		deps.HealthController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
