// Package app implements the pricing use cases.
package app

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/proptrader/oracle-arb/business/pricing/domain"
	"github.com/proptrader/oracle-arb/internal/apperror"
	"github.com/proptrader/oracle-arb/internal/logger"
)

// PricingService aggregates DEX quotes and oracle prices.
type PricingService struct {
	dex    DEXQuoter
	oracle OracleProvider
	fees   FeeQuoter
	logger logger.LoggerInterface
}

// NewPricingService creates a new PricingService.
func NewPricingService(dex DEXQuoter, oracle OracleProvider, fees FeeQuoter, log logger.LoggerInterface) *PricingService {
	return &PricingService{
		dex:    dex,
		oracle: oracle,
		fees:   fees,
		logger: log,
	}
}

// Quote fetches a DEX router quote for an exact-input swap.
func (s *PricingService) Quote(ctx context.Context, router, tokenIn, tokenOut common.Address, amountIn *big.Int) (*domain.SwapQuote, error) {
	return s.dex.GetAmountOut(ctx, router, tokenIn, tokenOut, amountIn)
}

// LatestReading fetches the newest oracle price for a feed.
func (s *PricingService) LatestReading(ctx context.Context, feedID string) (*domain.OracleReading, error) {
	return s.oracle.LatestReading(ctx, feedID)
}

// FetchUpdateBundle fetches a signed oracle update and quotes its on-chain
// submission fee.
func (s *PricingService) FetchUpdateBundle(ctx context.Context, feedID string) (*domain.UpdateBundle, error) {
	data, err := s.oracle.LatestUpdateData(ctx, feedID)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, apperror.New(apperror.CodeEmptyUpdateBundle,
			apperror.WithContext("oracle returned no update payloads for "+feedID))
	}

	fee, err := s.fees.UpdateFee(ctx, data)
	if err != nil {
		return nil, err
	}

	return &domain.UpdateBundle{
		FeedID: feedID,
		Data:   data,
		FeeWei: fee,
		At:     time.Now(),
	}, nil
}

// FeedMetadata fetches descriptive metadata for an oracle feed.
func (s *PricingService) FeedMetadata(ctx context.Context, feedID string) (*domain.FeedMetadata, error) {
	return s.oracle.FeedMetadata(ctx, feedID)
}

// ImpliedDEXPrice converts a quote into an implied unit price of tokenIn
// denominated in tokenOut, using each token's decimals.
func (s *PricingService) ImpliedDEXPrice(quote *domain.SwapQuote, decimalsIn, decimalsOut uint8) (decimal.Decimal, error) {
	if quote.AmountIn == nil || quote.AmountIn.Sign() == 0 {
		return decimal.Zero, apperror.New(apperror.CodeInvalidQuote,
			apperror.WithContext("amount in must be non-zero"))
	}
	if quote.AmountOut == nil {
		return decimal.Zero, apperror.New(apperror.CodeInvalidQuote,
			apperror.WithContext("quote has no output amount"))
	}

	inHuman := decimal.NewFromBigInt(quote.AmountIn, -int32(decimalsIn))
	outHuman := decimal.NewFromBigInt(quote.AmountOut, -int32(decimalsOut))
	return outHuman.Div(inHuman), nil
}
