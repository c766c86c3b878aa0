// Package bootstrap wires configuration into repositories, services, handlers
// and the HTTP router.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"resume-editor/internal/editing"
	"resume-editor/internal/exports"
	"resume-editor/internal/profiles"
	"resume-editor/internal/projcache"
	"resume-editor/internal/resumes"
	"resume-editor/internal/shared/config"
	"resume-editor/internal/shared/server"
	"resume-editor/internal/shared/storage/db"
	"resume-editor/internal/shared/storage/object"
	localstore "resume-editor/internal/shared/storage/object/local"
	s3store "resume-editor/internal/shared/storage/object/s3"
	"resume-editor/internal/shared/telemetry"
	"resume-editor/resume/render"
)

// Storage backends.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

// App holds shared dependencies.
type App struct {
	Config    config.Config
	Router    *gin.Engine
	DB        *sql.DB
	Storage   string
	Store     object.ObjectStore
	Templates *render.Registry
	Cache     projcache.Cache

	ResumesRepo     resumes.Repo
	ProfilesRepo    profiles.Repo
	ResumesService  *resumes.Service
	ProfilesService *profiles.Service
	ExportsService  *exports.Service
	Sessions        *editing.Manager

	ResumesHandler  *resumes.Handler
	ProfilesHandler *profiles.Handler
	EditingHandler  *editing.Handler
	ExportsHandler  *exports.Handler
}

// Build prepares dependencies and the router. The session reaper is not
// started; call Start.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	app := &App{Config: cfg}

	sqlDB, storage, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.DB, app.Storage = sqlDB, storage

	if app.Store, err = buildStore(ctx, cfg); err != nil {
		return nil, err
	}
	if app.Templates, err = render.LoadRegistry(cfg.TemplateCatalog); err != nil {
		return nil, fmt.Errorf("load template catalog: %w", err)
	}
	app.Cache, err = projcache.New(ctx, cfg.RedisURL, projcache.Options{
		MaxEntries: cfg.ProjectionCacheMax,
		TTL:        cfg.ProjectionCacheTTL,
	})
	if err != nil {
		if !isDevLike(cfg.Env) {
			return nil, err
		}
		telemetry.Warn("bootstrap.redis_unavailable", map[string]any{"error": err})
		app.Cache = projcache.NewMemory(projcache.Options{MaxEntries: cfg.ProjectionCacheMax, TTL: cfg.ProjectionCacheTTL})
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config: app.Config,
		Handlers: []server.RouteRegistrar{
			app.ResumesHandler,
			app.ProfilesHandler,
			app.EditingHandler,
			app.ExportsHandler,
		},
	})

	return app, nil
}

// Start runs background work: the idle session reaper.
func (a *App) Start(ctx context.Context) error {
	return a.Sessions.Start(ctx)
}

// Close flushes open editing sessions and releases the database.
func (a *App) Close(ctx context.Context) error {
	a.Sessions.Stop(ctx)
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, string, error) {
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err == nil {
			err = db.RunMigrations(ctx, sqlDB, db.DialectPostgres)
			if err != nil {
				sqlDB.Close()
			}
		}
		if err == nil {
			return sqlDB, StoragePostgres, nil
		}
		if !isDevLike(cfg.Env) {
			return nil, "", err
		}
		telemetry.Warn("bootstrap.database_unavailable", map[string]any{"error": err})
	}

	if strings.TrimSpace(cfg.SQLitePath) != "" {
		sqlDB, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, "", err
		}
		return sqlDB, StorageSQLite, nil
	}

	if !isDevLike(cfg.Env) {
		return nil, "", errors.New("DATABASE_URL or SQLITE_PATH is required")
	}
	telemetry.Info("bootstrap.memory_storage", map[string]any{"env": cfg.Env})
	return nil, StorageMemory, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildServices(app *App) {
	switch app.Storage {
	case StoragePostgres:
		app.ResumesRepo = &resumes.PGRepo{DB: app.DB}
		app.ProfilesRepo = &profiles.PGRepo{DB: app.DB}
	case StorageSQLite:
		app.ResumesRepo = &resumes.SQLiteRepo{DB: app.DB}
		app.ProfilesRepo = &profiles.SQLiteRepo{DB: app.DB}
	default:
		app.ResumesRepo = resumes.NewMemoryRepo()
		app.ProfilesRepo = profiles.NewMemoryRepo()
	}

	app.ProfilesService = profiles.NewService(app.ProfilesRepo)
	app.ResumesService = &resumes.Service{Repo: app.ResumesRepo, Profiles: app.ProfilesService}
	app.ExportsService = &exports.Service{
		Store:     app.Store,
		Templates: app.Templates,
		Resumes:   app.ResumesService,
	}

	logger := telemetry.L()
	projector := &projcache.Projector{Cache: app.Cache, Registry: app.Templates, Logger: logger}
	app.Sessions = editing.NewManager(app.ResumesService, projector, editing.Config{
		AutosaveDelay: app.Config.AutosaveDelay,
		SaveTimeout:   app.Config.SaveTimeout,
		IdleTTL:       app.Config.SessionIdleTTL,
		ReaperSpec:    app.Config.SessionReaperSpec,
		Logger:        logger.With(zap.String("component", "sessions")),
	})

	app.ResumesHandler = resumes.NewHandler(app.ResumesService, app.Templates)
	app.ProfilesHandler = profiles.NewHandler(app.ProfilesService)
	app.EditingHandler = editing.NewHandler(app.Sessions)
	app.ExportsHandler = exports.NewHandler(app.ExportsService)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
