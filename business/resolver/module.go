// Package resolver implements the identifier resolution bounded context.
package resolver

import (
	"context"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/proptrader/oracle-arb/business/resolver/app"
	resolverDI "github.com/proptrader/oracle-arb/business/resolver/di"
	"github.com/proptrader/oracle-arb/business/resolver/infra/erc20"
	"github.com/proptrader/oracle-arb/business/resolver/infra/mirror"
	"github.com/proptrader/oracle-arb/internal/config"
	"github.com/proptrader/oracle-arb/internal/di"
	"github.com/proptrader/oracle-arb/internal/logger"
	"github.com/proptrader/oracle-arb/internal/monolith"
)

// Module implements the resolver bounded context.
type Module struct{}

// RegisterServices registers all resolver services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register RegistryLookup (mirror node) - private dependency
	di.RegisterToken(c, resolverDI.RegistryLookup, func(sr di.ServiceRegistry) app.RegistryLookup {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		client, err := mirror.NewClient(cfg.Mirror, log)
		if err != nil {
			panic("failed to create mirror client: " + err.Error())
		}
		return client
	})

	// Register TokenReader (public - the strategy module prechecks through it)
	di.RegisterToken(c, resolverDI.TokenReader, func(sr di.ServiceRegistry) app.TokenReader {
		ethClient := sr.Get("ethClient").(*ethclient.Client)

		reader, err := erc20.NewReader(ethClient)
		if err != nil {
			panic("failed to create erc20 reader: " + err.Error())
		}
		return reader
	})

	// Register ResolverService (public - exposed to other modules)
	di.RegisterToken(c, resolverDI.ResolverService, func(sr di.ServiceRegistry) *app.ResolverService {
		log := sr.Get("logger").(logger.LoggerInterface)
		registry := resolverDI.GetRegistryLookup(sr)
		reader := resolverDI.GetTokenReader(sr)
		return app.NewResolverService(registry, reader, log)
	})

	return nil
}

// Startup initializes the resolver module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	mono.Logger().Info(ctx, "resolver module started")
	return nil
}
