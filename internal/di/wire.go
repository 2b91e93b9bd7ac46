//go:build wireinject
// +build wireinject

package di

import (
	"ChipFlash/pkg/config"
	"ChipFlash/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideCache,
		ProvideClickHouseClient,
		ProvideEventPublisher,

		// Repositories
		ProvideArchive,
		ProvideLedger,

		// External services
		ProvideFubonSource,
		ProvideSinopacSource,
		ProvidePusher,

		// Use cases
		ProvideTracker,
		ProvideReconciler,
		ProvideFormatter,
		ProvideBuilder,
		ProvideDispatcher,
		ProvideScheduler,
		ProvideTrigger,

		// HTTP surface
		ProvideWebhookHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
