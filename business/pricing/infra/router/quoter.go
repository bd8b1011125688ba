// Package router implements DEXQuoter against a UniswapV2-style router.
package router

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/proptrader/oracle-arb/business/pricing/app"
	"github.com/proptrader/oracle-arb/business/pricing/domain"
	"github.com/proptrader/oracle-arb/internal/apm"
	"github.com/proptrader/oracle-arb/internal/apperror"
	"github.com/proptrader/oracle-arb/internal/circuitbreaker"
	"github.com/proptrader/oracle-arb/internal/logger"
)

const (
	tracerName = "dex_router"
	meterName  = "dex_router"
)

// routerABI covers getAmountsOut on a V2-style router.
const routerABI = `[
	{"inputs":[{"name":"amountIn","type":"uint256"},{"name":"path","type":"address[]"}],"name":"getAmountsOut","outputs":[{"name":"amounts","type":"uint256[]"}],"stateMutability":"view","type":"function"}
]`

// Ensure Quoter implements DEXQuoter.
var _ app.DEXQuoter = (*Quoter)(nil)

// quoterMetrics holds OTEL metric instruments.
type quoterMetrics struct {
	quotesTotal  metric.Int64Counter
	quoteLatency metric.Float64Histogram
	quoteErrors  metric.Int64Counter
}

// Quoter fetches exact-input quotes via getAmountsOut.
type Quoter struct {
	client *ethclient.Client
	abi    abi.ABI
	logger logger.LoggerInterface
	cb     *circuitbreaker.CircuitBreaker[[]byte]

	tracer  apm.Tracer
	metrics *quoterMetrics
}

// NewQuoter creates a new router quoter.
func NewQuoter(client *ethclient.Client, log logger.LoggerInterface) (*Quoter, error) {
	parsed, err := abi.JSON(strings.NewReader(routerABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse router ABI: %w", err)
	}

	q := &Quoter{
		client: client,
		abi:    parsed,
		logger: log,
		cb:     circuitbreaker.New[[]byte](circuitbreaker.DefaultConfig("dex-router")),
		tracer: apm.NewTracer(tracerName),
	}

	if err := q.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	return q, nil
}

func (q *Quoter) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	q.metrics = &quoterMetrics{}

	q.metrics.quotesTotal, err = meter.Int64Counter(
		"dex_quotes_total",
		metric.WithDescription("Total quote requests"),
	)
	if err != nil {
		return err
	}

	q.metrics.quoteLatency, err = meter.Float64Histogram(
		"dex_quote_latency_ms",
		metric.WithDescription("Quote request latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	q.metrics.quoteErrors, err = meter.Int64Counter(
		"dex_quote_errors_total",
		metric.WithDescription("Total quote errors"),
	)
	if err != nil {
		return err
	}

	return nil
}

// GetAmountOut calls router.getAmountsOut with a direct two-hop path and
// returns the output leg.
func (q *Quoter) GetAmountOut(ctx context.Context, router, tokenIn, tokenOut common.Address, amountIn *big.Int) (*domain.SwapQuote, error) {
	ctx, span := q.tracer.Start(ctx, "router.get_amounts_out",
		trace.WithAttributes(
			attribute.String("router", router.Hex()),
			attribute.String("token_in", tokenIn.Hex()),
			attribute.String("token_out", tokenOut.Hex()),
			attribute.String("amount_in", amountIn.String()),
		),
	)
	defer span.End()

	start := time.Now()
	q.metrics.quotesTotal.Add(ctx, 1)

	callData, err := q.abi.Pack("getAmountsOut", amountIn, []common.Address{tokenIn, tokenOut})
	if err != nil {
		q.metrics.quoteErrors.Add(ctx, 1)
		span.NoticeError(err)
		return nil, fmt.Errorf("failed to encode getAmountsOut: %w", err)
	}

	result, err := q.cb.Execute(func() ([]byte, error) {
		return q.client.CallContract(ctx, ethereum.CallMsg{
			To:   &router,
			Data: callData,
		}, nil)
	})

	q.metrics.quoteLatency.Record(ctx, float64(time.Since(start).Milliseconds()))

	if err != nil {
		q.metrics.quoteErrors.Add(ctx, 1)
		span.NoticeError(err)
		return nil, apperror.New(apperror.CodeQuoteFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("getAmountsOut failed on %s", router.Hex())))
	}

	outputs, err := q.abi.Unpack("getAmountsOut", result)
	if err != nil {
		q.metrics.quoteErrors.Add(ctx, 1)
		span.NoticeError(err)
		return nil, apperror.New(apperror.CodeQuoteFailed,
			apperror.WithCause(err),
			apperror.WithContext("failed to decode getAmountsOut result"))
	}

	amounts, ok := outputs[0].([]*big.Int)
	if !ok || len(amounts) != 2 {
		q.metrics.quoteErrors.Add(ctx, 1)
		appErr := apperror.New(apperror.CodeQuoteFailed,
			apperror.WithContext(fmt.Sprintf("expected 2 amounts, got %d", len(amounts))))
		span.NoticeError(appErr)
		return nil, appErr
	}

	span.SetAttributes(attribute.String("amount_out", amounts[1].String()))
	span.SetStatus(codes.Ok, "quote received")

	q.logger.Debug(ctx, "dex quote",
		"router", router.Hex(),
		"token_in", tokenIn.Hex(),
		"token_out", tokenOut.Hex(),
		"amount_in", amountIn.String(),
		"amount_out", amounts[1].String(),
	)

	return &domain.SwapQuote{
		Router:    router,
		TokenIn:   tokenIn,
		TokenOut:  tokenOut,
		AmountIn:  new(big.Int).Set(amountIn),
		AmountOut: amounts[1],
		At:        time.Now(),
	}, nil
}
