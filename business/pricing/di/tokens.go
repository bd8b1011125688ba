// Package di contains dependency injection tokens for the pricing context.
package di

import (
	"github.com/proptrader/oracle-arb/business/pricing/app"
	"github.com/proptrader/oracle-arb/internal/di"
)

// Public service tokens - exposed to other modules
var (
	PricingService = di.NewToken[*app.PricingService]("pricing.PricingService")
)

// Private dependency tokens - internal to pricing module
var (
	DEXQuoter      = di.NewToken[app.DEXQuoter]("pricing:dexQuoter")
	OracleProvider = di.NewToken[app.OracleProvider]("pricing:oracleProvider")
	FeeQuoter      = di.NewToken[app.FeeQuoter]("pricing:feeQuoter")
)

// Helper functions for type-safe access
func GetPricingService(c di.ServiceRegistry) *app.PricingService {
	return di.GetToken(c, PricingService)
}

func GetDEXQuoter(c di.ServiceRegistry) app.DEXQuoter {
	return di.GetToken(c, DEXQuoter)
}

func GetOracleProvider(c di.ServiceRegistry) app.OracleProvider {
	return di.GetToken(c, OracleProvider)
}

func GetFeeQuoter(c di.ServiceRegistry) app.FeeQuoter {
	return di.GetToken(c, FeeQuoter)
}
