// Package providers contains dependency injection providers for the
// tracking server.
package providers

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"github.com/samber/do/v2"

	"github.com/earmarkapp/earmark-server/internal/api"
	"github.com/earmarkapp/earmark-server/internal/auth"
	"github.com/earmarkapp/earmark-server/internal/config"
	"github.com/earmarkapp/earmark-server/internal/logger"
	"github.com/earmarkapp/earmark-server/internal/ratelimit"
	"github.com/earmarkapp/earmark-server/internal/service"
	"github.com/earmarkapp/earmark-server/internal/store"
)

const shutdownTimeout = 10 * time.Second

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting Earmark tracking server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Data.BasePath,
	)

	return log, nil
}

// ProvideVerifier provides the access-token verifier.
func ProvideVerifier(i do.Injector) (auth.Verifier, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return auth.NewTokenVerifier(cfg.Auth.AccessTokenKeyHex)
}

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the database store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := filepath.Join(cfg.Data.BasePath, "db")
	db, err := store.New(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	return &StoreHandle{Store: db}, nil
}

// ProvideListeningService provides the session recorder.
func ProvideListeningService(i do.Injector) (*service.ListeningService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewListeningService(storeHandle.Store, storeHandle.Store, log.Logger), nil
}

// ProvideStatsService provides the statistics aggregator.
func ProvideStatsService(i do.Injector) (*service.StatsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewStatsService(storeHandle.Store, log.Logger), nil
}

// ProvideAchievementService provides the achievement evaluator.
func ProvideAchievementService(i do.Injector) (*service.AchievementService, error) {
	statsService := do.MustInvoke[*service.StatsService](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAchievementService(statsService, storeHandle.Store, log.Logger), nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	verifier := do.MustInvoke[auth.Verifier](i)
	listeningService := do.MustInvoke[*service.ListeningService](i)
	statsService := do.MustInvoke[*service.StatsService](i)
	achievementService := do.MustInvoke[*service.AchievementService](i)

	sessionLimiter := ratelimit.New(cfg.Limits.SessionRPS, cfg.Limits.SessionBurst)

	handler := api.NewServer(
		storeHandle.Store,
		listeningService,
		statsService,
		achievementService,
		verifier,
		sessionLimiter,
		cfg.Server.AllowedOrigins,
		log.Logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
