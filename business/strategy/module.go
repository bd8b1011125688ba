// Package strategy implements the arbitrage strategy bounded context:
// signal probing, trade preparation, dispatch, and the periodic runner.
package strategy

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	pricingDI "github.com/proptrader/oracle-arb/business/pricing/di"
	resolverDI "github.com/proptrader/oracle-arb/business/resolver/di"
	"github.com/proptrader/oracle-arb/business/strategy/app"
	strategyDI "github.com/proptrader/oracle-arb/business/strategy/di"
	"github.com/proptrader/oracle-arb/business/strategy/domain"
	"github.com/proptrader/oracle-arb/business/strategy/infra/delegated"
	"github.com/proptrader/oracle-arb/business/strategy/infra/executor"
	"github.com/proptrader/oracle-arb/business/strategy/infra/signer"
	"github.com/proptrader/oracle-arb/internal/config"
	"github.com/proptrader/oracle-arb/internal/di"
	"github.com/proptrader/oracle-arb/internal/logger"
	"github.com/proptrader/oracle-arb/internal/monolith"
)

// Module implements the strategy bounded context.
type Module struct{}

// RegisterServices registers all strategy services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, strategyDI.ParamsStore, func(sr di.ServiceRegistry) *domain.ParamsStore {
		return domain.NewParamsStore()
	})

	di.RegisterToken(c, strategyDI.TradeLog, func(sr di.ServiceRegistry) *domain.TradeLog {
		cfg := sr.Get("config").(*config.Config)
		return domain.NewTradeLog(cfg.Strategy.TradeLogCap)
	})

	// Register ServerSigner - private, only usable when a key is configured
	di.RegisterToken(c, strategyDI.ServerSigner, func(sr di.ServiceRegistry) app.ServerSigner {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		ethClient := sr.Get("ethClient").(*ethclient.Client)

		s, err := signer.NewServerSigner(ethClient, cfg.Signer.PrivateKey, cfg.Chain.ChainID, log)
		if err != nil {
			panic("failed to create server signer: " + err.Error())
		}
		return s
	})

	// Register DelegatedExecutor - private, only usable when configured
	di.RegisterToken(c, strategyDI.DelegatedExecutor, func(sr di.ServiceRegistry) app.DelegatedExecutor {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		client, err := delegated.NewClient(cfg.Delegated.BaseURL, cfg.Delegated.AppID, log)
		if err != nil {
			panic("failed to create delegated client: " + err.Error())
		}
		return client
	})

	di.RegisterToken(c, strategyDI.Preparer, func(sr di.ServiceRegistry) *app.Preparer {
		log := sr.Get("logger").(logger.LoggerInterface)
		resolver := resolverDI.GetResolverService(sr)
		reader := resolverDI.GetTokenReader(sr)
		prices := pricingDI.GetPricingService(sr)
		return app.NewPreparer(resolver, reader, prices, log)
	})

	di.RegisterToken(c, strategyDI.Dispatcher, func(sr di.ServiceRegistry) *app.Dispatcher {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		reader := resolverDI.GetTokenReader(sr)
		tradeLog := strategyDI.GetTradeLog(sr)

		var server app.ServerSigner
		if cfg.Signer.Configured() {
			server = di.GetToken(sr, strategyDI.ServerSigner)
		}
		var deleg app.DelegatedExecutor
		if cfg.Delegated.Configured() {
			deleg = di.GetToken(sr, strategyDI.DelegatedExecutor)
		}

		return app.NewDispatcher(reader, executor.Packer{}, server, deleg, tradeLog, log)
	})

	di.RegisterToken(c, strategyDI.SignalProbe, func(sr di.ServiceRegistry) *app.SignalProbe {
		log := sr.Get("logger").(logger.LoggerInterface)
		resolver := resolverDI.GetResolverService(sr)
		prices := pricingDI.GetPricingService(sr)
		params := strategyDI.GetParamsStore(sr)
		return app.NewSignalProbe(resolver, prices, params, log)
	})

	di.RegisterToken(c, strategyDI.Runner, func(sr di.ServiceRegistry) *app.Runner {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		var delegator *common.Address
		if cfg.Strategy.Delegator != "" {
			addr := common.HexToAddress(cfg.Strategy.Delegator)
			delegator = &addr
		}

		runnerCfg := app.RunnerConfig{
			Executor:     cfg.Executor.AddressHex(),
			Router:       cfg.Strategy.Router,
			TokenIn:      cfg.Strategy.TokenIn,
			TokenOut:     cfg.Strategy.TokenOut,
			AmountIn:     cfg.Strategy.AmountIn,
			FeedID:       cfg.Strategy.PriceID,
			MaxAgeSec:    cfg.Strategy.MaxAgeSec,
			BoundsBps:    cfg.Strategy.BoundsBps,
			Path:         domain.ExecutionPath(cfg.Strategy.Path),
			Recipient:    common.HexToAddress(cfg.Strategy.Recipient),
			Delegator:    delegator,
			TickInterval: cfg.Strategy.TickInterval,
		}

		return app.NewRunner(runnerCfg,
			strategyDI.GetSignalProbe(sr),
			strategyDI.GetPreparer(sr),
			strategyDI.GetDispatcher(sr),
			strategyDI.GetParamsStore(sr),
			log,
		)
	})

	return nil
}

// Startup initializes the strategy module and, when configured, starts the
// periodic runner.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	cfg := mono.Config()
	log := mono.Logger()

	// Seed the parameter store from config, clamped like any other update.
	params := strategyDI.GetParamsStore(mono.Services())
	params.Update(domain.ParamsUpdate{
		SpreadThresholdBps: &cfg.Strategy.ThresholdBps,
		MaxSlippageBps:     &cfg.Strategy.SlippageBps,
		MaxPositionPct:     &cfg.Strategy.MaxPositionPct,
	})

	if cfg.Strategy.AutoStart {
		// The runner will dispatch on the configured path; fail at startup
		// when that path cannot be served.
		if _, err := cfg.RequireExecutor(); err != nil {
			return err
		}
		switch cfg.Strategy.Path {
		case "server":
			if err := cfg.RequireServerSigner(); err != nil {
				return err
			}
		case "delegated":
			if err := cfg.RequireDelegated(); err != nil {
				return err
			}
		}
		runner := strategyDI.GetRunner(mono.Services())
		runner.Start(ctx)
		log.Info(ctx, "strategy runner auto-started")
	}

	log.Info(ctx, "strategy module started")
	return nil
}
