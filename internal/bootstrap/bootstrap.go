package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appComposer "github.com/yigit/certdesk/internal/app/composer"
	appControllers "github.com/yigit/certdesk/internal/app/controllers"
	appImporter "github.com/yigit/certdesk/internal/app/importer"
	appMigrations "github.com/yigit/certdesk/internal/app/migrations"
	appRepos "github.com/yigit/certdesk/internal/app/repositories"
	"github.com/yigit/certdesk/internal/app/repositories/memstore"
	appRoutes "github.com/yigit/certdesk/internal/app/routes"
	appServices "github.com/yigit/certdesk/internal/app/services"
	"github.com/yigit/certdesk/internal/config"
	"github.com/yigit/certdesk/internal/db"
	appMiddleware "github.com/yigit/certdesk/internal/middleware"
	"github.com/yigit/certdesk/internal/pkg/filestorage"
	"github.com/yigit/certdesk/internal/pkg/logger"
	"github.com/yigit/certdesk/internal/pkg/renderer"
	"github.com/yigit/certdesk/internal/seed"
)

// Stores holds the register and counter stores for the configured driver
type Stores struct {
	Students appRepos.StudentStore
	Counters appRepos.CounterStore
	Database *db.PostgresDB // nil for the memory driver
}

// Close releases the database pool, if any
func (s *Stores) Close() {
	if s != nil && s.Database != nil {
		s.Database.Close()
	}
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	Stores                *Stores
	StudentService        appServices.StudentService
	CertificateService    appServices.CertificateService
	ImportService         appServices.ImportService
	StudentController     *appControllers.StudentController
	CertificateController *appControllers.CertificateController
	ImportController      *appControllers.ImportController
	Renderer              *renderer.RodRenderer
	FileStorage           *filestorage.LocalStorage
	Logger                zerolog.Logger
}

// Close stops the browser and releases the stores
func (d *Dependencies) Close() {
	if d.Renderer != nil {
		if err := d.Renderer.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("Failed to close renderer")
		}
	}
	d.Stores.Close()
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStores opens the configured store, runs migrations and seeds the certificate counters.
func SetupStores(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Stores, error) {
	stores := &Stores{}

	switch cfg.Database.Driver {
	case config.DriverMemory:
		lgr.Warn().Msg("Using in-memory store; data is lost on exit")
		stores.Students = memstore.NewStudentStore()
		stores.Counters = memstore.NewCounterStore()
	default:
		lgr.Info().Msg("Establishing database connection...")
		database, err := db.NewPostgresDB(cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, err
		}
		lgr.Info().Msg("Database connection successfully established.")

		lgr.Info().Msg("Running database migrations...")
		if err := appMigrations.NewMigrator(database.Pool).Migrate(ctx); err != nil {
			database.Close()
			lgr.Error().Err(err).Msg("Database migration error")
			return nil, fmt.Errorf("database migrations failed: %w", err)
		}
		lgr.Info().Msg("Database migrations successfully applied.")

		repos := appRepos.NewRepositories(database)
		stores.Students = repos.StudentRepository
		stores.Counters = repos.CounterRepository
		stores.Database = database
	}

	if err := seed.EnsureCounters(ctx, stores.Counters, cfg, lgr); err != nil {
		stores.Close()
		return nil, fmt.Errorf("failed to seed certificate counters: %w", err)
	}
	return stores, nil
}

// SchoolProfile builds the certificate letterhead from configuration
func SchoolProfile(cfg *config.Config) appComposer.SchoolProfile {
	return appComposer.SchoolProfile{
		Name:        cfg.School.Name,
		Trust:       cfg.School.Trust,
		Address:     cfg.School.Address,
		Board:       cfg.School.Board,
		IndexNo:     cfg.School.IndexNo,
		UDISE:       cfg.School.UDISE,
		Medium:      cfg.School.Medium,
		Affiliation: cfg.School.Affiliation,
		Contact:     cfg.School.Contact,
	}
}

// BuildDependencies initializes application services and controllers.
func BuildDependencies(cfg *config.Config, stores *Stores, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Stores: stores, Logger: lgr}

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.Renderer = renderer.NewRodRenderer(renderer.Config{
		ChromeBin: cfg.Renderer.ChromeBin,
		Headless:  cfg.Renderer.Headless,
		Timeout:   cfg.RendererTimeout(),
		Paper:     cfg.Renderer.Paper,
	})

	aliases := appImporter.DefaultAliases().Merge(cfg.Import.Aliases)

	deps.StudentService = appServices.NewStudentService(stores.Students, logger.Component("students"))
	deps.CertificateService = appServices.NewArchivingCertificateService(
		appServices.NewCertificateService(
			stores.Students,
			stores.Counters,
			appComposer.New(SchoolProfile(cfg)),
			deps.Renderer,
			logger.Component("certificates"),
			time.Now,
		),
		deps.FileStorage,
		logger.Component("archive"),
	)
	deps.ImportService = appServices.NewImportService(stores.Students, appImporter.NewMapper(aliases), logger.Component("import"), time.Now)

	deps.StudentController = appControllers.NewStudentController(deps.StudentService)
	deps.CertificateController = appControllers.NewCertificateController(deps.CertificateService)
	deps.ImportController = appControllers.NewImportController(deps.ImportService, deps.FileStorage)

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
	router.Use(gin.Recovery(), appMiddleware.RequestLogger())

	appRoutes.SetupRouter(router,
		deps.StudentController,
		deps.CertificateController,
		deps.ImportController,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
