package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/schoolms/internal/app/controllers"
	appMigrations "github.com/yigit/schoolms/internal/app/migrations"
	appRepos "github.com/yigit/schoolms/internal/app/repositories"
	"github.com/yigit/schoolms/internal/app/repositories/memory"
	appRoutes "github.com/yigit/schoolms/internal/app/routes"
	appServices "github.com/yigit/schoolms/internal/app/services"
	"github.com/yigit/schoolms/internal/config"
	"github.com/yigit/schoolms/internal/db"
	appMiddleware "github.com/yigit/schoolms/internal/middleware"
	pkgAuth "github.com/yigit/schoolms/internal/pkg/auth"
	"github.com/yigit/schoolms/internal/pkg/logger"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store          appRepos.Store
	Services       *appServices.Services
	JWTService     *pkgAuth.JWTService
	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    appRoutes.Controllers
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	if err := logger.Configure(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format}); err != nil {
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Get()
	lgr.Info().
		Str("logLevel", cfg.Logging.Level).
		Str("logFormat", cfg.Logging.Format).
		Str("driver", cfg.Database.Driver).
		Strs("envOverrides", cfg.EnvOverrides).
		Msg("Configuration loaded")
	return cfg, lgr, nil
}

// Storage is an opened Entity Store. DB is nil for the memory driver.
type Storage struct {
	Store appRepos.Store
	DB    *db.PostgresDB
}

// Close releases the connection pool, if any
func (s *Storage) Close() {
	if s.DB != nil {
		s.DB.Close()
	}
}

// SetupStorage opens the store selected by the database driver.
func SetupStorage(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Storage, error) {
	if cfg.Database.Driver == config.DriverMemory {
		lgr.Warn().Msg("Using in-memory store, data is lost on exit")
		return &Storage{Store: memory.New()}, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg.Database)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")
	return &Storage{Store: appRepos.NewPostgresStore(database), DB: database}, nil
}

// RunMigrations applies pending migrations. It is a no-op for the memory driver.
func RunMigrations(ctx context.Context, cfg *config.Config, storage *Storage, lgr zerolog.Logger) error {
	if storage.DB == nil {
		return nil
	}

	dir := cfg.Database.MigrationsDir
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		lgr.Error().Str("path", dir).Msg("Migrations directory not found")
		return fmt.Errorf("migrations directory not found at %s: %w", dir, err)
	}

	lgr.Info().Str("path", dir).Msg("Running database migrations...")
	applied, err := appMigrations.NewMigrator(storage.DB.Pool, lgr).MigrateFromDirectory(ctx, dir)
	if err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Int("applied", applied).Msg("Database migrations complete.")
	return nil
}

// BuildDependencies initializes services, middleware and controllers.
func BuildDependencies(cfg *config.Config, store appRepos.Store, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Store: store, Logger: lgr}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.JWT.AccessTokenExpiration,
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.Services = appServices.NewServices(store, deps.JWTService, lgr)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.Services.Auth)

	deps.Controllers = appRoutes.Controllers{
		Auth:      appControllers.NewAuthController(deps.Services.Auth, lgr),
		Health:    appControllers.NewHealthController(store),
		Courses:   appControllers.NewCourseController(deps.Services.Courses),
		Lecturers: appControllers.NewLecturerController(deps.Services.Lecturers),
		Subjects:  appControllers.NewSubjectController(deps.Services.Subjects),
		Students:  appControllers.NewStudentController(deps.Services.Students),
	}
	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies) *gin.Engine {
	switch strings.ToLower(cfg.Server.Mode) {
	case "production", gin.ReleaseMode:
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(
		appMiddleware.RequestID(),
		appMiddleware.AccessLog(deps.Logger),
		appMiddleware.CORS(cfg.Server.CORS.AllowOrigins, cfg.Server.CORS.AllowAll),
		gin.Recovery(),
	)

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)
	return router
}
