// Package di contains dependency injection tokens for the strategy context.
package di

import (
	"github.com/proptrader/oracle-arb/business/strategy/app"
	"github.com/proptrader/oracle-arb/business/strategy/domain"
	"github.com/proptrader/oracle-arb/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Preparer    = di.NewToken[*app.Preparer]("strategy.Preparer")
	Dispatcher  = di.NewToken[*app.Dispatcher]("strategy.Dispatcher")
	SignalProbe = di.NewToken[*app.SignalProbe]("strategy.SignalProbe")
	Runner      = di.NewToken[*app.Runner]("strategy.Runner")
	ParamsStore = di.NewToken[*domain.ParamsStore]("strategy.ParamsStore")
	TradeLog    = di.NewToken[*domain.TradeLog]("strategy.TradeLog")
)

// Private dependency tokens - internal to strategy module
var (
	ServerSigner      = di.NewToken[app.ServerSigner]("strategy:serverSigner")
	DelegatedExecutor = di.NewToken[app.DelegatedExecutor]("strategy:delegatedExecutor")
)

// Helper functions for type-safe access
func GetPreparer(c di.ServiceRegistry) *app.Preparer {
	return di.GetToken(c, Preparer)
}

func GetDispatcher(c di.ServiceRegistry) *app.Dispatcher {
	return di.GetToken(c, Dispatcher)
}

func GetSignalProbe(c di.ServiceRegistry) *app.SignalProbe {
	return di.GetToken(c, SignalProbe)
}

func GetRunner(c di.ServiceRegistry) *app.Runner {
	return di.GetToken(c, Runner)
}

func GetParamsStore(c di.ServiceRegistry) *domain.ParamsStore {
	return di.GetToken(c, ParamsStore)
}

func GetTradeLog(c di.ServiceRegistry) *domain.TradeLog {
	return di.GetToken(c, TradeLog)
}
