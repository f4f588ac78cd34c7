package service

import (
	"context"
	"net/http"
	"time"

	"blog/app/config"
	"blog/app/controllers"
	"blog/app/repositories"
	"blog/app/routes"
	"blog/app/session"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// RunAppServer serves the blog until ctx is cancelled, then drains in-flight
// requests before closing the database.
func RunAppServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	repo, err := repositories.NewRepository(dbPath(cfg))
	if err != nil {
		return err
	}
	defer repo.Close()

	store, closeStore, err := newSessionStore(ctx, cfg, repo)
	if err != nil {
		return err
	}
	defer closeStore()

	templates, err := controllers.LoadTemplates()
	if err != nil {
		return err
	}

	sessions := session.NewManager(store, session.Options{
		CookieName: cfg.Session.CookieName,
		Secret:     cfg.Session.Secret,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.Session.Secure,
	}, logger)
	router := routes.SetupRoutes(repo, sessions, templates, logger, routes.Options{
		StaticDir: cfg.StaticDir,
		MediaDir:  cfg.MediaDir,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	logger.Info("blog server listening",
		zap.String("addr", cfg.Addr),
		zap.String("env", cfg.Env),
		zap.String("session_backend", cfg.Session.Backend))

	select {
	case err := <-errc:
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}

// newSessionStore picks the session backend named in the config. The
// returned func releases whatever the store holds open.
func newSessionStore(ctx context.Context, cfg *config.Config, repo *repositories.Repository) (session.Store, func() error, error) {
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		rdb, err := session.DialRedis(ctx, cfg.Session.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisStore(rdb), rdb.Close, nil
	case config.SessionBackendBadger, "":
		return session.NewBadgerStore(repo.DB()), func() error { return nil }, nil
	default:
		return nil, nil, errors.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}
