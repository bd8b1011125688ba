package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/proptrader/oracle-arb/business/pricing/domain"
)

// EvaluateSpread reads the latest oracle price for a feed and compares it
// against the provided DEX price.
func (s *PricingService) EvaluateSpread(ctx context.Context, feedID string, dexPrice decimal.Decimal, thresholdBps int) (domain.Signal, error) {
	reading, err := s.oracle.LatestReading(ctx, feedID)
	if err != nil {
		return domain.Signal{}, err
	}

	sig, err := domain.Evaluate(reading.Normalized(), dexPrice, thresholdBps)
	if err != nil {
		return domain.Signal{}, err
	}

	s.logger.Debug(ctx, "spread evaluated",
		"feed_id", feedID,
		"oracle_price", sig.OraclePrice.String(),
		"dex_price", sig.DEXPrice.String(),
		"spread_bps", sig.SpreadBps.StringFixed(2),
		"triggered", sig.Triggered,
	)
	return sig, nil
}
