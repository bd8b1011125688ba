package app

import (
	"context"
	"errors"
	"io"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	pricingdomain "github.com/proptrader/oracle-arb/business/pricing/domain"
	resolverdomain "github.com/proptrader/oracle-arb/business/resolver/domain"
	"github.com/proptrader/oracle-arb/internal/apperror"
	"github.com/proptrader/oracle-arb/internal/logger"
)

var (
	routerAddr   = common.HexToAddress("0x0000000000000000000000000000000000000001")
	tokenInAddr  = common.HexToAddress("0x0000000000000000000000000000000000000002")
	tokenOutAddr = common.HexToAddress("0x0000000000000000000000000000000000000003")
	executorAddr = common.HexToAddress("0x0000000000000000000000000000000000000004")
	ownerAddr    = common.HexToAddress("0x0000000000000000000000000000000000000005")
)

type fakeResolver struct {
	addrs    map[string]common.Address
	decimals map[string]uint8
	err      error
}

func (f *fakeResolver) ResolveAddress(ctx context.Context, id string) (common.Address, error) {
	if f.err != nil {
		return common.Address{}, f.err
	}
	addr, ok := f.addrs[id]
	if !ok {
		return common.Address{}, apperror.New(apperror.CodeResolutionFailed)
	}
	return addr, nil
}

func (f *fakeResolver) ResolveToken(ctx context.Context, id string, explicit *uint8) (resolverdomain.TokenRef, error) {
	addr, err := f.ResolveAddress(ctx, id)
	if err != nil {
		return resolverdomain.TokenRef{}, err
	}
	dec := f.decimals[id]
	if explicit != nil {
		dec = *explicit
	}
	return resolverdomain.TokenRef{ID: id, Address: addr, Decimals: dec}, nil
}

type fakeTokenReader struct {
	allowance *big.Int
	balance   *big.Int
	err       error
}

func (f *fakeTokenReader) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.allowance, nil
}

func (f *fakeTokenReader) BalanceOf(ctx context.Context, token, account common.Address) (*big.Int, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.balance, nil
}

type fakePrices struct {
	amountOut  *big.Int
	quoteErr   error
	reading    *pricingdomain.OracleReading
	readingErr error
	bundle     *pricingdomain.UpdateBundle
	bundleErr  error
}

func (f *fakePrices) Quote(ctx context.Context, router, tokenIn, tokenOut common.Address, amountIn *big.Int) (*pricingdomain.SwapQuote, error) {
	if f.quoteErr != nil {
		return nil, f.quoteErr
	}
	return &pricingdomain.SwapQuote{
		Router:    router,
		TokenIn:   tokenIn,
		TokenOut:  tokenOut,
		AmountIn:  amountIn,
		AmountOut: f.amountOut,
		At:        time.Now(),
	}, nil
}

func (f *fakePrices) LatestReading(ctx context.Context, feedID string) (*pricingdomain.OracleReading, error) {
	if f.readingErr != nil {
		return nil, f.readingErr
	}
	return f.reading, nil
}

func (f *fakePrices) FetchUpdateBundle(ctx context.Context, feedID string) (*pricingdomain.UpdateBundle, error) {
	if f.bundleErr != nil {
		return nil, f.bundleErr
	}
	return f.bundle, nil
}

func (f *fakePrices) ImpliedDEXPrice(quote *pricingdomain.SwapQuote, decimalsIn, decimalsOut uint8) (decimal.Decimal, error) {
	inHuman := decimal.NewFromBigInt(quote.AmountIn, -int32(decimalsIn))
	outHuman := decimal.NewFromBigInt(quote.AmountOut, -int32(decimalsOut))
	return outHuman.Div(inHuman), nil
}

func (f *fakePrices) EvaluateSpread(ctx context.Context, feedID string, dexPrice decimal.Decimal, thresholdBps int) (pricingdomain.Signal, error) {
	reading, err := f.LatestReading(ctx, feedID)
	if err != nil {
		return pricingdomain.Signal{}, err
	}
	return pricingdomain.Evaluate(reading.Normalized(), dexPrice, thresholdBps)
}

func testResolver() *fakeResolver {
	return &fakeResolver{
		addrs: map[string]common.Address{
			"0.0.100": routerAddr,
			"0.0.200": tokenInAddr,
			"0.0.300": tokenOutAddr,
		},
		decimals: map[string]uint8{
			"0.0.200": 6,
			"0.0.300": 18,
		},
	}
}

func testPrices() *fakePrices {
	out, _ := new(big.Int).SetString("2500000000000000000", 10) // 2.5 at 18 decimals
	return &fakePrices{
		amountOut: out,
		reading:   &pricingdomain.OracleReading{FeedID: "0xfeed", Price: 25000000, Expo: -8, PublishTime: time.Now().Unix()},
		bundle: &pricingdomain.UpdateBundle{
			FeedID: "0xfeed",
			Data:   []string{"0xdeadbeef"},
			FeeWei: big.NewInt(7),
		},
	}
}

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

func basePrepareRequest() PrepareRequest {
	return PrepareRequest{
		Executor:    executorAddr,
		Router:      "0.0.100",
		TokenIn:     "0.0.200",
		TokenOut:    "0.0.300",
		AmountIn:    "10",
		FeedID:      "0xfeed",
		MaxAgeSec:   60,
		SlippageBps: 50,
		BoundsBps:   50,
	}
}

func TestPrepareBuildsProposal(t *testing.T) {
	p := NewPreparer(testResolver(), &fakeTokenReader{}, testPrices(), testLogger())

	proposal, err := p.Prepare(context.Background(), basePrepareRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if proposal.Router != routerAddr || proposal.TokenIn != tokenInAddr || proposal.TokenOut != tokenOutAddr {
		t.Errorf("addresses not resolved correctly")
	}
	if proposal.DecimalsIn != 6 || proposal.DecimalsOut != 18 {
		t.Errorf("decimals = %d/%d, want 6/18", proposal.DecimalsIn, proposal.DecimalsOut)
	}

	// 10 tokens at 6 decimals
	if proposal.AmountInWei.Cmp(big.NewInt(10_000_000)) != 0 {
		t.Errorf("AmountInWei = %s, want 10000000", proposal.AmountInWei)
	}

	// 2.5e18 reduced by 50 bps
	wantMinOut, _ := new(big.Int).SetString("2487500000000000000", 10)
	if proposal.MinAmountOutWei.Cmp(wantMinOut) != 0 {
		t.Errorf("MinAmountOutWei = %s, want %s", proposal.MinAmountOutWei, wantMinOut)
	}

	if proposal.CurrentPrice1e8 != 25000000 {
		t.Errorf("CurrentPrice1e8 = %d, want 25000000", proposal.CurrentPrice1e8)
	}
	if proposal.MinPrice1e8 != 24875000 || proposal.MaxPrice1e8 != 25125000 {
		t.Errorf("bounds = [%d, %d], want [24875000, 25125000]", proposal.MinPrice1e8, proposal.MaxPrice1e8)
	}
	if proposal.FeeWei.Cmp(big.NewInt(7)) != 0 {
		t.Errorf("FeeWei = %s, want 7", proposal.FeeWei)
	}
	if proposal.NeedsApproval {
		t.Errorf("NeedsApproval set without an owner")
	}
}

func TestPrepareReportsAllowanceState(t *testing.T) {
	tests := []struct {
		name          string
		allowance     int64
		needsApproval bool
	}{
		{"allowance covers amount", 10_000_000, false},
		{"allowance short", 9_999_999, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := &fakeTokenReader{allowance: big.NewInt(tt.allowance)}
			p := NewPreparer(testResolver(), reader, testPrices(), testLogger())

			req := basePrepareRequest()
			req.Owner = &ownerAddr

			proposal, err := p.Prepare(context.Background(), req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if proposal.NeedsApproval != tt.needsApproval {
				t.Errorf("NeedsApproval = %v, want %v", proposal.NeedsApproval, tt.needsApproval)
			}
		})
	}
}

func TestPrepareFailsWholesale(t *testing.T) {
	t.Run("resolution failure", func(t *testing.T) {
		resolver := testResolver()
		delete(resolver.addrs, "0.0.300")
		p := NewPreparer(resolver, &fakeTokenReader{}, testPrices(), testLogger())

		_, err := p.Prepare(context.Background(), basePrepareRequest())
		if !apperror.IsCode(err, apperror.CodeResolutionFailed) {
			t.Errorf("got %v, want CodeResolutionFailed", err)
		}
	})

	t.Run("quote failure", func(t *testing.T) {
		prices := testPrices()
		prices.quoteErr = apperror.New(apperror.CodeQuoteFailed)
		p := NewPreparer(testResolver(), &fakeTokenReader{}, prices, testLogger())

		_, err := p.Prepare(context.Background(), basePrepareRequest())
		if !apperror.IsCode(err, apperror.CodeQuoteFailed) {
			t.Errorf("got %v, want CodeQuoteFailed", err)
		}
	})

	t.Run("bundle failure", func(t *testing.T) {
		prices := testPrices()
		prices.bundleErr = apperror.New(apperror.CodeEmptyUpdateBundle)
		p := NewPreparer(testResolver(), &fakeTokenReader{}, prices, testLogger())

		_, err := p.Prepare(context.Background(), basePrepareRequest())
		if !apperror.IsCode(err, apperror.CodeEmptyUpdateBundle) {
			t.Errorf("got %v, want CodeEmptyUpdateBundle", err)
		}
	})

	t.Run("allowance read failure", func(t *testing.T) {
		reader := &fakeTokenReader{err: errors.New("rpc down")}
		p := NewPreparer(testResolver(), reader, testPrices(), testLogger())

		req := basePrepareRequest()
		req.Owner = &ownerAddr
		if _, err := p.Prepare(context.Background(), req); err == nil {
			t.Errorf("expected error when allowance read fails")
		}
	})

	t.Run("bad amount", func(t *testing.T) {
		p := NewPreparer(testResolver(), &fakeTokenReader{}, testPrices(), testLogger())

		req := basePrepareRequest()
		req.AmountIn = "not-a-number"
		_, err := p.Prepare(context.Background(), req)
		if !apperror.IsCode(err, apperror.CodePreparationFailed) {
			t.Errorf("got %v, want CodePreparationFailed", err)
		}
	})
}

func TestPrepareTruncatesAmount(t *testing.T) {
	p := NewPreparer(testResolver(), &fakeTokenReader{}, testPrices(), testLogger())

	req := basePrepareRequest()
	req.AmountIn = "0.0000019" // 1.9 smallest units at 6 decimals

	proposal, err := p.Prepare(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proposal.AmountInWei.Cmp(big.NewInt(1)) != 0 {
		t.Errorf("AmountInWei = %s, want 1", proposal.AmountInWei)
	}
}
