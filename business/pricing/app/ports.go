package app

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/proptrader/oracle-arb/business/pricing/domain"
)

// DEXQuoter fetches exact-input swap quotes from an on-chain router.
type DEXQuoter interface {
	GetAmountOut(ctx context.Context, router, tokenIn, tokenOut common.Address, amountIn *big.Int) (*domain.SwapQuote, error)
}

// OracleProvider reads prices and signed update payloads from the oracle network.
type OracleProvider interface {
	LatestReading(ctx context.Context, feedID string) (*domain.OracleReading, error)
	LatestUpdateData(ctx context.Context, feedID string) ([]string, error)
	FeedMetadata(ctx context.Context, feedID string) (*domain.FeedMetadata, error)
}

// FeeQuoter quotes the on-chain fee for submitting an oracle update.
type FeeQuoter interface {
	UpdateFee(ctx context.Context, updateData []string) (*big.Int, error)
}
