package app

import (
	"context"
	"io"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/proptrader/oracle-arb/business/pricing/domain"
	"github.com/proptrader/oracle-arb/internal/apperror"
	"github.com/proptrader/oracle-arb/internal/logger"
)

type fakeOracle struct {
	reading    *domain.OracleReading
	updateData []string
	err        error
}

func (f *fakeOracle) LatestReading(ctx context.Context, feedID string) (*domain.OracleReading, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.reading, nil
}

func (f *fakeOracle) LatestUpdateData(ctx context.Context, feedID string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.updateData, nil
}

func (f *fakeOracle) FeedMetadata(ctx context.Context, feedID string) (*domain.FeedMetadata, error) {
	return &domain.FeedMetadata{ID: feedID}, nil
}

type fakeFees struct {
	fee *big.Int
	err error
}

func (f *fakeFees) UpdateFee(ctx context.Context, updateData []string) (*big.Int, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.fee, nil
}

type fakeDEX struct {
	quote *domain.SwapQuote
	err   error
}

func (f *fakeDEX) GetAmountOut(ctx context.Context, router, tokenIn, tokenOut common.Address, amountIn *big.Int) (*domain.SwapQuote, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.quote, nil
}

func newTestPricing(dex *fakeDEX, oracle *fakeOracle, fees *fakeFees) *PricingService {
	log := logger.New(io.Discard, logger.LevelError, "test", nil)
	return NewPricingService(dex, oracle, fees, log)
}

func TestFetchUpdateBundle(t *testing.T) {
	oracle := &fakeOracle{updateData: []string{"0xdeadbeef"}}
	fees := &fakeFees{fee: big.NewInt(7)}
	svc := newTestPricing(&fakeDEX{}, oracle, fees)

	bundle, err := svc.FetchUpdateBundle(context.Background(), "0xfeed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bundle.Data) != 1 || bundle.Data[0] != "0xdeadbeef" {
		t.Errorf("unexpected data: %v", bundle.Data)
	}
	if bundle.FeeWei.Cmp(big.NewInt(7)) != 0 {
		t.Errorf("FeeWei = %s, want 7", bundle.FeeWei)
	}
}

func TestFetchUpdateBundleEmptyPayload(t *testing.T) {
	svc := newTestPricing(&fakeDEX{}, &fakeOracle{updateData: nil}, &fakeFees{fee: big.NewInt(7)})

	_, err := svc.FetchUpdateBundle(context.Background(), "0xfeed")
	if !apperror.IsCode(err, apperror.CodeEmptyUpdateBundle) {
		t.Fatalf("got %v, want CodeEmptyUpdateBundle", err)
	}
}

func TestImpliedDEXPrice(t *testing.T) {
	svc := newTestPricing(&fakeDEX{}, &fakeOracle{}, &fakeFees{})

	// 10 tokens in at 6 decimals, 2.5 out at 18 decimals: price 0.25
	quote := &domain.SwapQuote{
		AmountIn:  big.NewInt(10_000_000),
		AmountOut: new(big.Int).Mul(big.NewInt(25), new(big.Int).Exp(big.NewInt(10), big.NewInt(17), nil)),
	}

	price, err := svc.ImpliedDEXPrice(quote, 6, 18)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !price.Equal(decimal.RequireFromString("0.25")) {
		t.Errorf("price = %s, want 0.25", price.String())
	}
}

func TestImpliedDEXPriceZeroInput(t *testing.T) {
	svc := newTestPricing(&fakeDEX{}, &fakeOracle{}, &fakeFees{})

	quote := &domain.SwapQuote{AmountIn: big.NewInt(0), AmountOut: big.NewInt(1)}
	_, err := svc.ImpliedDEXPrice(quote, 6, 18)
	if !apperror.IsCode(err, apperror.CodeInvalidQuote) {
		t.Fatalf("got %v, want CodeInvalidQuote", err)
	}
}

func TestEvaluateSpreadUsesOracleReading(t *testing.T) {
	oracle := &fakeOracle{reading: &domain.OracleReading{FeedID: "0xfeed", Price: 2500000000, Expo: -8}}
	svc := newTestPricing(&fakeDEX{}, oracle, &fakeFees{})

	sig, err := svc.EvaluateSpread(context.Background(), "0xfeed", decimal.RequireFromString("25.5"), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sig.Triggered {
		t.Errorf("expected trigger at 200 bps spread over 100 bps threshold")
	}
}
