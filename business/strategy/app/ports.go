package app

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	pricingdomain "github.com/proptrader/oracle-arb/business/pricing/domain"
	resolverdomain "github.com/proptrader/oracle-arb/business/resolver/domain"
	"github.com/proptrader/oracle-arb/business/strategy/domain"
)

// AddressResolver resolves token and contract identifiers.
type AddressResolver interface {
	ResolveAddress(ctx context.Context, id string) (common.Address, error)
	ResolveToken(ctx context.Context, id string, explicit *uint8) (resolverdomain.TokenRef, error)
}

// TokenReader reads ERC-20 state for dispatch prechecks.
type TokenReader interface {
	Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error)
	BalanceOf(ctx context.Context, token, account common.Address) (*big.Int, error)
}

// PriceSource provides DEX quotes and oracle data for preparation.
type PriceSource interface {
	Quote(ctx context.Context, router, tokenIn, tokenOut common.Address, amountIn *big.Int) (*pricingdomain.SwapQuote, error)
	LatestReading(ctx context.Context, feedID string) (*pricingdomain.OracleReading, error)
	FetchUpdateBundle(ctx context.Context, feedID string) (*pricingdomain.UpdateBundle, error)
	ImpliedDEXPrice(quote *pricingdomain.SwapQuote, decimalsIn, decimalsOut uint8) (decimal.Decimal, error)
	EvaluateSpread(ctx context.Context, feedID string, dexPrice decimal.Decimal, thresholdBps int) (pricingdomain.Signal, error)
}

// SwapPacker encodes the guarded-swap contract call for a proposal.
type SwapPacker interface {
	PackSwap(proposal *domain.SwapProposal, recipient common.Address) ([]byte, error)
}

// ServerSigner signs and submits a guarded swap with a server-held key.
type ServerSigner interface {
	SubmitSwap(ctx context.Context, proposal *domain.SwapProposal, recipient common.Address) (txHash string, status uint64, err error)
}

// DelegatedExecutor forwards a guarded swap to the delegated-execution service.
type DelegatedExecutor interface {
	ExecuteSwap(ctx context.Context, delegator common.Address, proposal *domain.SwapProposal, recipient common.Address) (txHash string, status uint64, err error)
}
