// Package app implements the strategy use cases: preparing, probing, and
// dispatching guarded swaps.
package app

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	resolverdomain "github.com/proptrader/oracle-arb/business/resolver/domain"
	"github.com/proptrader/oracle-arb/business/strategy/domain"
	"github.com/proptrader/oracle-arb/internal/apperror"
	"github.com/proptrader/oracle-arb/internal/logger"
)

// PrepareRequest carries the inputs for building a SwapProposal. Identifiers
// may be hex addresses or registry ids.
type PrepareRequest struct {
	Executor  common.Address
	Router    string
	TokenIn   string
	TokenOut  string
	AmountIn  string
	FeedID    string
	MaxAgeSec uint64

	SlippageBps int
	BoundsBps   int

	// Optional explicit decimals overrides.
	DecimalsIn  *uint8
	DecimalsOut *uint8

	// Optional: when set, the preparer reads the owner's allowance to the
	// executor and reports whether an approval is still needed.
	Owner *common.Address
}

// Preparer assembles a dispatch-ready SwapProposal from fresh on-chain and
// oracle state.
type Preparer struct {
	resolver AddressResolver
	reader   TokenReader
	prices   PriceSource
	logger   logger.LoggerInterface
}

// NewPreparer creates a Preparer.
func NewPreparer(resolver AddressResolver, reader TokenReader, prices PriceSource, log logger.LoggerInterface) *Preparer {
	return &Preparer{
		resolver: resolver,
		reader:   reader,
		prices:   prices,
		logger:   log,
	}
}

// Prepare runs the full preparation sequence. Any failing step aborts the
// whole preparation; there is no partial result.
func (p *Preparer) Prepare(ctx context.Context, req PrepareRequest) (*domain.SwapProposal, error) {
	var (
		router   common.Address
		tokenIn  resolverdomain.TokenRef
		tokenOut resolverdomain.TokenRef
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr, err := p.resolver.ResolveAddress(gctx, req.Router)
		if err != nil {
			return err
		}
		router = addr
		return nil
	})
	g.Go(func() error {
		ref, err := p.resolver.ResolveToken(gctx, req.TokenIn, req.DecimalsIn)
		if err != nil {
			return err
		}
		tokenIn = ref
		return nil
	})
	g.Go(func() error {
		ref, err := p.resolver.ResolveToken(gctx, req.TokenOut, req.DecimalsOut)
		if err != nil {
			return err
		}
		tokenOut = ref
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	amountInWei, err := toWei(req.AmountIn, tokenIn.Decimals)
	if err != nil {
		return nil, err
	}

	quote, err := p.prices.Quote(ctx, router, tokenIn.Address, tokenOut.Address, amountInWei)
	if err != nil {
		return nil, err
	}

	minOut := domain.MinAmountOut(quote.AmountOut, req.SlippageBps)

	bundle, err := p.prices.FetchUpdateBundle(ctx, req.FeedID)
	if err != nil {
		return nil, err
	}

	reading, err := p.prices.LatestReading(ctx, req.FeedID)
	if err != nil {
		return nil, err
	}

	scaled, err := reading.ScaledPrice1e8()
	if err != nil {
		return nil, err
	}
	minPrice, maxPrice, err := reading.PriceBounds1e8(req.BoundsBps)
	if err != nil {
		return nil, err
	}

	proposal := &domain.SwapProposal{
		Executor:        req.Executor,
		Router:          router,
		TokenIn:         tokenIn.Address,
		TokenOut:        tokenOut.Address,
		DecimalsIn:      tokenIn.Decimals,
		DecimalsOut:     tokenOut.Decimals,
		AmountInWei:     amountInWei,
		QuoteOutWei:     quote.AmountOut,
		MinAmountOutWei: minOut,
		FeeWei:          bundle.FeeWei,
		PriceID:         req.FeedID,
		MaxAgeSec:       req.MaxAgeSec,
		CurrentPrice1e8: scaled,
		MinPrice1e8:     minPrice,
		MaxPrice1e8:     maxPrice,
		UpdateData:      bundle.Data,
	}

	if req.Owner != nil {
		allowance, err := p.reader.Allowance(ctx, tokenIn.Address, *req.Owner, req.Executor)
		if err != nil {
			return nil, err
		}
		proposal.Owner = *req.Owner
		proposal.AllowanceWei = allowance
		proposal.NeedsApproval = allowance.Cmp(amountInWei) < 0
	}

	if err := proposal.Validate(); err != nil {
		return nil, err
	}

	p.logger.Info(ctx, "swap proposal prepared",
		"router", router.Hex(),
		"token_in", tokenIn.Address.Hex(),
		"token_out", tokenOut.Address.Hex(),
		"amount_in_wei", amountInWei.String(),
		"quote_out_wei", quote.AmountOut.String(),
		"min_out_wei", minOut.String(),
		"fee_wei", bundle.FeeWei.String(),
		"current_price_1e8", scaled,
		"needs_approval", proposal.NeedsApproval,
	)

	return proposal, nil
}

// toWei converts a human-readable amount into smallest units, truncating
// toward zero.
func toWei(amount string, decimals uint8) (*big.Int, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, apperror.New(apperror.CodePreparationFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("invalid amount %q", amount)))
	}
	if d.Sign() < 0 {
		return nil, apperror.New(apperror.CodePreparationFailed,
			apperror.WithContext("amount must not be negative"))
	}
	return d.Shift(int32(decimals)).Truncate(0).BigInt(), nil
}
