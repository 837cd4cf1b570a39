package entrypoint

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/covers"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/bookmarks"
	"github.com/mrlokans/bookshelf/internal/database/recents"
	"github.com/mrlokans/bookshelf/internal/reactor"
	"github.com/mrlokans/bookshelf/internal/repository"
	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/screens"
	"github.com/mrlokans/bookshelf/internal/tasks"
	"github.com/mrlokans/bookshelf/internal/usecases"
)

// App holds the components every front end shares. Offline apps have no
// database, task queue or scheduler.
type App struct {
	Config   *config.Config
	DB       *database.Database
	UseCases *usecases.Set
	Pool     *reactor.Pool
	Covers   *covers.Cache       // nil when offline or disabled
	Recents  *recents.Repository // nil when offline

	taskClient *tasks.Client
	taskCancel context.CancelFunc
	pruner     *scheduler.RecentsPruneScheduler
}

// Build wires repositories, use cases and background workers from cfg.
// Nothing runs until Start.
func Build(cfg *config.Config) (*App, error) {
	app := &App{
		Config: cfg,
		Pool:   reactor.NewPool(cfg.Reactor.Workers),
	}

	if cfg.Catalog.Offline {
		if err := app.buildOffline(); err != nil {
			app.Close()
			return nil, err
		}
		return app, nil
	}
	if err := app.buildOnline(); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) buildOffline() error {
	logrus.Info("Offline mode: serving the embedded catalog with in-memory bookmarks and recents")

	books, err := repository.NewFixtureBookRepository()
	if err != nil {
		return fmt.Errorf("load fixture catalog: %w", err)
	}
	seed, err := repository.FixtureBooks()
	if err != nil {
		return fmt.Errorf("load fixture catalog: %w", err)
	}
	// Seed recents so the search screen has something to show on first open
	recentSeed := seed[:min(3, len(seed))]

	a.UseCases = usecases.NewSet(
		books,
		repository.NewMemoryBookmarkRepository(),
		repository.NewMemoryRecentBookRepository(recentSeed),
		nil,
	)
	return nil
}

func (a *App) buildOnline() error {
	cfg := a.Config

	db, err := database.NewDatabaseWithOptions(cfg.Database.Path, database.Options{LogLevel: gormlogger.Warn})
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	a.DB = db

	if cfg.Catalog.APIKey == "" {
		logrus.Warn("KAKAO_API_KEY is not set; catalog searches will be rejected. Set BOOKSHELF_OFFLINE=true to use the embedded catalog.")
	}
	client := catalog.NewKakaoClient(catalog.Options{
		BaseURL:           cfg.Catalog.BaseURL,
		APIKey:            cfg.Catalog.APIKey,
		Timeout:           cfg.Catalog.Timeout,
		RequestsPerSecond: cfg.Catalog.RequestsPerSecond,
	})

	recentStore := recents.NewRepository(db.DB, cfg.Recents.Limit)
	recentRepo := repository.NewStoredRecentBookRepository(recentStore, recentStore.Limit())
	a.Recents = recentStore
	bookmarkRepo := repository.NewStoredBookmarkRepository(bookmarks.NewRepository(db.DB))

	var recentWriter usecases.RecentBookWriter
	var queue scheduler.TaskAdder
	if cfg.Tasks.Enabled {
		taskClient, err := tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			return fmt.Errorf("initialize task queue: %w", err)
		}
		taskClient.Register(
			tasks.NewRecordRecentViewQueue(recentRepo),
			tasks.NewPruneRecentViewsQueue(recentStore),
		)
		a.taskClient = taskClient
		queue = taskClient

		if cfg.Tasks.RecordViews {
			recentWriter = tasks.NewRecentViewRecorder(taskClient)
		}
	}
	if cfg.Covers.Enabled {
		dir := cfg.Covers.Dir
		if dir == "" {
			dir = filepath.Join(filepath.Dir(cfg.Database.Path), "covers")
		}
		cache, err := covers.NewCache(dir, covers.Options{AllowedHosts: cfg.Covers.AllowedHosts})
		if err != nil {
			return fmt.Errorf("initialize cover cache: %w", err)
		}
		a.Covers = cache
	}

	a.pruner = scheduler.NewRecentsPruneScheduler(cfg.Recents.PruneSchedule, cfg.Recents.MaxAge, queue, recentStore)

	a.UseCases = usecases.NewSet(
		repository.NewCatalogBookRepository(client),
		bookmarkRepo,
		recentRepo,
		recentWriter,
	)
	return nil
}

// Start launches the task workers and the prune scheduler. Both stop when
// ctx is cancelled or Stop is called.
func (a *App) Start(ctx context.Context) error {
	if a.taskClient != nil {
		taskCtx, cancel := context.WithCancel(ctx)
		a.taskCancel = cancel
		go a.taskClient.Start(taskCtx)
	}
	if a.pruner != nil {
		if err := a.pruner.Start(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Pruner returns the recent-view retention job, or nil when offline.
func (a *App) Pruner() *scheduler.RecentsPruneScheduler {
	return a.pruner
}

// NewSession opens a screen session backed by the app's use cases.
func (a *App) NewSession(ctx context.Context) *screens.Session {
	return screens.NewSession(ctx, a.UseCases, a.Pool, a.Config.Reactor.SearchDebounce)
}

// Stop halts background work, waiting for running tasks until ctx expires.
func (a *App) Stop(ctx context.Context) {
	if a.pruner != nil {
		a.pruner.Stop()
	}
	if a.taskClient != nil && a.taskCancel != nil {
		a.taskClient.Stop(ctx)
		a.taskCancel()
	}
}

// Close releases the worker pool, task database and main database.
// Call after Stop and after every session is closed.
func (a *App) Close() {
	if a.Pool != nil {
		a.Pool.Close()
	}
	if a.taskClient != nil {
		if err := a.taskClient.Close(); err != nil {
			logrus.WithError(err).Error("Error closing task client")
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			logrus.WithError(err).Error("Error closing database")
		}
	}
}
