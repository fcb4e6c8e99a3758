// Package di provides dependency injection configuration for the
// tracking server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/earmarkapp/earmark-server/internal/auth"
	"github.com/earmarkapp/earmark-server/internal/config"
	"github.com/earmarkapp/earmark-server/internal/di/providers"
	"github.com/earmarkapp/earmark-server/internal/logger"
	"github.com/earmarkapp/earmark-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideVerifier)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Business services
	do.Provide(injector, providers.ProvideListeningService)
	do.Provide(injector, providers.ProvideStatsService)
	do.Provide(injector, providers.ProvideAchievementService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap eagerly initializes every service so startup failures
// surface before the process reports healthy.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[auth.Verifier](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.ListeningService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.StatsService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.AchievementService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}
	return nil
}
