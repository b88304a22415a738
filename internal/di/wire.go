//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"StockMetrics/pkg/config"
	"StockMetrics/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}
