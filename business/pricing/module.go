// Package pricing implements the pricing bounded context for DEX/oracle price comparison.
package pricing

import (
	"context"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/proptrader/oracle-arb/business/pricing/app"
	pricingDI "github.com/proptrader/oracle-arb/business/pricing/di"
	"github.com/proptrader/oracle-arb/business/pricing/infra/hermes"
	"github.com/proptrader/oracle-arb/business/pricing/infra/pyth"
	"github.com/proptrader/oracle-arb/business/pricing/infra/router"
	"github.com/proptrader/oracle-arb/internal/config"
	"github.com/proptrader/oracle-arb/internal/di"
	"github.com/proptrader/oracle-arb/internal/logger"
	"github.com/proptrader/oracle-arb/internal/monolith"
)

// Module implements the pricing bounded context.
type Module struct{}

// RegisterServices registers all pricing services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register DEXQuoter (router) - private dependency
	di.RegisterToken(c, pricingDI.DEXQuoter, func(sr di.ServiceRegistry) app.DEXQuoter {
		log := sr.Get("logger").(logger.LoggerInterface)
		ethClient := sr.Get("ethClient").(*ethclient.Client)

		quoter, err := router.NewQuoter(ethClient, log)
		if err != nil {
			panic("failed to create router quoter: " + err.Error())
		}
		return quoter
	})

	// Register OracleProvider (Hermes) - private dependency
	di.RegisterToken(c, pricingDI.OracleProvider, func(sr di.ServiceRegistry) app.OracleProvider {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		client, err := hermes.NewClient(cfg.Oracle.HermesBaseURL, log)
		if err != nil {
			panic("failed to create hermes client: " + err.Error())
		}
		return client
	})

	// Register FeeQuoter (oracle contract) - private dependency
	di.RegisterToken(c, pricingDI.FeeQuoter, func(sr di.ServiceRegistry) app.FeeQuoter {
		cfg := sr.Get("config").(*config.Config)
		ethClient := sr.Get("ethClient").(*ethclient.Client)

		contract, err := cfg.RequireOracleContract()
		if err != nil {
			panic("failed to create fee quoter: " + err.Error())
		}
		quoter, err := pyth.NewFeeQuoter(ethClient, contract)
		if err != nil {
			panic("failed to create fee quoter: " + err.Error())
		}
		return quoter
	})

	// Register PricingService (public - exposed to other modules)
	di.RegisterToken(c, pricingDI.PricingService, func(sr di.ServiceRegistry) *app.PricingService {
		log := sr.Get("logger").(logger.LoggerInterface)
		dex := pricingDI.GetDEXQuoter(sr)
		oracle := pricingDI.GetOracleProvider(sr)
		fees := pricingDI.GetFeeQuoter(sr)
		return app.NewPricingService(dex, oracle, fees, log)
	})

	return nil
}

// Startup initializes the pricing module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	mono.Logger().Info(ctx, "pricing module started")
	return nil
}
