package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"dinedash-server/cache"
	"dinedash-server/config"
	"dinedash-server/events"
	"dinedash-server/handlers"
	"dinedash-server/metrics"
	"dinedash-server/middleware"
	"dinedash-server/notify"
	"dinedash-server/payment"
	"dinedash-server/routes"
	"dinedash-server/store"

	"github.com/gin-gonic/gin"
	healthgo "github.com/hellofresh/health-go/v5"
	sloggin "github.com/samber/slog-gin"
)

// app holds the collaborators built from the settings. Optional backends
// fall back to no-op implementations when not configured.
type app struct {
	cfg    *config.Settings
	log    *slog.Logger
	store  *store.Store
	cache  cache.Cache
	events events.Publisher
	health *healthgo.Health

	closers []func()
}

func buildApp(cfg *config.Settings, log *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log, cache: cache.Nop{}, events: events.Nop{}}

	s, err := store.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	a.store = s
	a.closers = append(a.closers, func() { _ = s.Close() })
	if err := s.Migrate(); err != nil {
		a.close()
		return nil, err
	}

	checks := []healthgo.Config{{
		Name:      "database",
		Timeout:   2 * time.Second,
		SkipOnErr: false,
		Check:     s.Ping,
	}}

	if cfg.Redis.Addr != "" {
		rc := cache.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
		a.cache = rc
		a.closers = append(a.closers, func() { _ = rc.Close() })
		checks = append(checks, healthgo.Config{Name: "redis", Timeout: 2 * time.Second, SkipOnErr: true, Check: rc.Ping})
		log.Info("catalog cache enabled", "addr", cfg.Redis.Addr)
	}

	if cfg.NATS.URL != "" {
		pub, err := events.Connect(cfg.NATS.URL, cfg.NATS.SubjectPrefix)
		if err != nil {
			a.close()
			return nil, err
		}
		a.events = pub
		a.closers = append(a.closers, pub.Close)
		checks = append(checks, healthgo.Config{Name: "nats", Timeout: 2 * time.Second, SkipOnErr: true, Check: pub.Ping})
		log.Info("event publishing enabled", "url", cfg.NATS.URL)
	}

	opts := []healthgo.Option{healthgo.WithComponent(healthgo.Component{Name: cfg.App.Name, Version: "1.0.0"})}
	for _, c := range checks {
		opts = append(opts, healthgo.WithChecks(c))
	}
	health, err := healthgo.New(opts...)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("health checker: %w", err)
	}
	a.health = health
	return a, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// notifier is nil for engines built without a store, e.g. by the routes
// command; handlers.New then logs notifications.
func (a *app) notifier() notify.Sender {
	if a.store == nil {
		return nil
	}
	if a.cfg.Mail.Username == "" {
		a.log.Warn("mail username not set, notifications are logged only")
		return notify.NewLogSender(a.log)
	}
	return notify.NewSMTP(a.cfg.Mail)
}

func newEngine(a *app) *gin.Engine {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(sloggin.NewWithConfig(a.log, sloggin.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
		WithRequestID:    true,
	}))
	r.Use(middleware.CORS(a.cfg.HTTP.AllowedOrigins))
	r.Use(metrics.Middleware())

	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/health", func(c *gin.Context) {
		if a.health == nil {
			c.JSON(http.StatusOK, gin.H{"status": healthgo.StatusOK})
			return
		}
		check := a.health.Measure(c.Request.Context())
		status := http.StatusOK
		if check.Status != healthgo.StatusOK {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, check)
	})

	h := handlers.New(handlers.Deps{
		Store:    a.store,
		Gateway:  payment.NewSSLCommerz(a.cfg.Payment),
		Notifier: a.notifier(),
		Cache:    a.cache,
		Events:   a.events,
		Logger:   a.log,
		Config:   a.cfg,
	})
	routes.SetupRoutes(r, h, a.cfg)
	return r
}

func serve(ctx context.Context, cfg *config.Settings, log *slog.Logger) error {
	a, err := buildApp(cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           newEngine(a),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
