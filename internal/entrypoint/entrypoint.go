package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/bookshelf/internal/config"
	http_controllers "github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/shell"
)

// Run starts the HTTP API and blocks until SIGINT/SIGTERM, then shuts down
// within the configured timeout.
func Run(cfg *config.Config, version string) error {
	logrus.WithField("version", version).Info("Starting Bookshelf")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := Build(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	return Serve(ctx, app, version)
}

// Serve runs the HTTP server for app until ctx is cancelled or the listener fails.
func Serve(ctx context.Context, app *App, version string) error {
	cfg := app.Config
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	g, gctx := errgroup.WithContext(ctx)

	if err := app.Start(gctx); err != nil {
		return fmt.Errorf("start background workers: %w", err)
	}

	sessions := http_controllers.NewSessionRegistry(gctx, app.NewSession, 0)
	routerCfg := http_controllers.RouterConfig{
		Sessions:   sessions,
		Database:   app.DB,
		CoverCache: app.Covers,
		Version:    version,
	}
	if pruner := app.Pruner(); pruner != nil {
		routerCfg.PruneSchedule = pruner
	}
	if app.Covers != nil {
		logrus.WithField("dir", app.Covers.CacheDir()).Info("Caching cover images")
	}
	router := http_controllers.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		logrus.WithField("addr", srv.Addr).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logrus.WithField("timeout", timeout.String()).Info("Shutdown Server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		sessions.CloseAll()
		app.Stop(shutdownCtx)
		if err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		logrus.Info("Server exiting")
		return nil
	})

	return g.Wait()
}

// RunShell opens one screen session and drives it from the terminal.
func RunShell(cfg *config.Config, historyPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	app, err := Build(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("start background workers: %w", err)
	}

	session := app.NewSession(ctx)
	defer func() {
		session.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Global.ShutdownTimeoutInSeconds)*time.Second)
		defer cancel()
		app.Stop(shutdownCtx)
	}()

	return shell.New(session, os.Stdout, shell.Options{HistoryPath: historyPath}).Run(ctx)
}
