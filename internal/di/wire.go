//go:build wireinject
// +build wireinject

package di

import (
	"StockCast/pkg/config"
	"StockCast/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideRedisClient,
		ProvideCacheService,
		ProvideResponseCache,

		// Repositories
		ProvideBarStore,
		ProvideSignalPublisher,
		ProvideArtifactStore,
		ProvideMarketData,

		// Sidecar clients
		ProvideSentiment,
		ProvideParser,

		// Use cases
		ProvideTrainer,
		ProvidePredictor,
		ProvideStrategy,
		ProvideAdvisor,

		// Retrain queue
		ProvideJobPublisher,
		ProvideJobConsumer,

		// HTTP layer and application server
		ProvideForecastHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
