package app

import (
	"context"

	pricingdomain "github.com/proptrader/oracle-arb/business/pricing/domain"
	"github.com/proptrader/oracle-arb/business/strategy/domain"
	"github.com/proptrader/oracle-arb/internal/logger"
)

// ProbeRequest carries the inputs for an ad hoc signal check.
type ProbeRequest struct {
	Router   string
	TokenIn  string
	TokenOut string
	AmountIn string
	FeedID   string
}

// SignalProbe evaluates the live spread without preparing a trade.
type SignalProbe struct {
	resolver AddressResolver
	prices   PriceSource
	params   *domain.ParamsStore
	logger   logger.LoggerInterface
}

// NewSignalProbe creates a SignalProbe.
func NewSignalProbe(resolver AddressResolver, prices PriceSource, params *domain.ParamsStore, log logger.LoggerInterface) *SignalProbe {
	return &SignalProbe{
		resolver: resolver,
		prices:   prices,
		params:   params,
		logger:   log,
	}
}

// Check quotes the DEX, derives the implied price, reads the oracle, and
// evaluates the spread against the current threshold.
func (p *SignalProbe) Check(ctx context.Context, req ProbeRequest) (pricingdomain.Signal, error) {
	router, err := p.resolver.ResolveAddress(ctx, req.Router)
	if err != nil {
		return pricingdomain.Signal{}, err
	}
	tokenIn, err := p.resolver.ResolveToken(ctx, req.TokenIn, nil)
	if err != nil {
		return pricingdomain.Signal{}, err
	}
	tokenOut, err := p.resolver.ResolveToken(ctx, req.TokenOut, nil)
	if err != nil {
		return pricingdomain.Signal{}, err
	}

	amountInWei, err := toWei(req.AmountIn, tokenIn.Decimals)
	if err != nil {
		return pricingdomain.Signal{}, err
	}

	quote, err := p.prices.Quote(ctx, router, tokenIn.Address, tokenOut.Address, amountInWei)
	if err != nil {
		return pricingdomain.Signal{}, err
	}

	dexPrice, err := p.prices.ImpliedDEXPrice(quote, tokenIn.Decimals, tokenOut.Decimals)
	if err != nil {
		return pricingdomain.Signal{}, err
	}

	return p.prices.EvaluateSpread(ctx, req.FeedID, dexPrice, p.params.Get().SpreadThresholdBps)
}
