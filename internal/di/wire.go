//go:build wireinject
// +build wireinject

package di

import (
	"CosmoPulse/pkg/config"
	"CosmoPulse/pkg/server"

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
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideCache,

		// Repositories
		ProvideArchive,
		ProvideSnapshotPublisher,
		ProvideSnapshotStore,

		// Domain services
		ProvideEphemerisProvider,
		ProvideArchetypes,

		// Use cases
		ProvideWSHub,
		ProvideSnapshotProcessor,
		ProvideTransitCache,
		ProvideFieldVectorCalculator,
		ProvideSummaryFormatter,
		ProvideKafkaSnapshotsHandler,

		// HTTP
		ProvideTransitsHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
