package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/proptrader/oracle-arb/business/strategy/domain"
	"github.com/proptrader/oracle-arb/internal/logger"
)

// DefaultTickInterval is the period between strategy runs.
const DefaultTickInterval = 20 * time.Second

// RunnerConfig fixes the inputs of every tick.
type RunnerConfig struct {
	Executor  common.Address
	Router    string
	TokenIn   string
	TokenOut  string
	AmountIn  string
	FeedID    string
	MaxAgeSec uint64
	BoundsBps int

	Path      domain.ExecutionPath
	Recipient common.Address
	Delegator *common.Address

	TickInterval time.Duration
}

// Runner drives the periodic probe -> prepare -> dispatch cycle. Ticks never
// overlap: each run completes before the next is considered.
type Runner struct {
	cfg        RunnerConfig
	probe      *SignalProbe
	preparer   *Preparer
	dispatcher *Dispatcher
	params     *domain.ParamsStore
	logger     logger.LoggerInterface

	active atomic.Bool
	cancel context.CancelFunc
	done   chan struct{}
	mu     sync.Mutex
}

// NewRunner creates a Runner.
func NewRunner(cfg RunnerConfig, probe *SignalProbe, preparer *Preparer, dispatcher *Dispatcher, params *domain.ParamsStore, log logger.LoggerInterface) *Runner {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	return &Runner{
		cfg:        cfg,
		probe:      probe,
		preparer:   preparer,
		dispatcher: dispatcher,
		params:     params,
		logger:     log,
	}
}

// Active reports whether the loop is running.
func (r *Runner) Active() bool {
	return r.active.Load()
}

// Start launches the tick loop. The first run happens immediately. Starting
// an active runner is a no-op.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.active.CompareAndSwap(false, true) {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})

	go r.loop(loopCtx)
}

// Stop halts the loop and waits for any in-flight run to finish.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (r *Runner) loop(ctx context.Context) {
	defer func() {
		r.active.Store(false)
		close(r.done)
	}()

	r.logger.Info(ctx, "strategy runner started", "tick_interval", r.cfg.TickInterval.String())

	r.tick(ctx)

	ticker := time.NewTicker(r.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info(context.Background(), "strategy runner stopped")
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

// tick runs one full probe -> prepare -> dispatch sequence. Errors end the
// tick; the loop keeps running.
func (r *Runner) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	params := r.params.Get()

	sig, err := r.probe.Check(ctx, ProbeRequest{
		Router:   r.cfg.Router,
		TokenIn:  r.cfg.TokenIn,
		TokenOut: r.cfg.TokenOut,
		AmountIn: r.cfg.AmountIn,
		FeedID:   r.cfg.FeedID,
	})
	if err != nil {
		r.logger.Warn(ctx, "tick aborted: signal check failed", "error", err)
		return
	}
	if !sig.Triggered {
		r.logger.Debug(ctx, "tick complete: below threshold",
			"spread_bps", sig.SpreadBps.StringFixed(2),
			"threshold_bps", params.SpreadThresholdBps,
		)
		return
	}

	r.logger.Info(ctx, "spread triggered, preparing trade",
		"spread_bps", sig.SpreadBps.StringFixed(2),
		"oracle_price", sig.OraclePrice.String(),
		"dex_price", sig.DEXPrice.String(),
	)

	proposal, err := r.preparer.Prepare(ctx, PrepareRequest{
		Executor:    r.cfg.Executor,
		Router:      r.cfg.Router,
		TokenIn:     r.cfg.TokenIn,
		TokenOut:    r.cfg.TokenOut,
		AmountIn:    r.cfg.AmountIn,
		FeedID:      r.cfg.FeedID,
		MaxAgeSec:   r.cfg.MaxAgeSec,
		SlippageBps: params.MaxSlippageBps,
		BoundsBps:   r.cfg.BoundsBps,
		Owner:       r.cfg.Delegator,
	})
	if err != nil {
		r.logger.Warn(ctx, "tick aborted: preparation failed", "error", err)
		return
	}

	outcome, err := r.dispatcher.Dispatch(ctx, proposal, r.cfg.Path, r.cfg.Recipient, r.cfg.Delegator)
	if err != nil {
		r.logger.Warn(ctx, "tick aborted: dispatch failed", "error", err)
		return
	}

	if outcome.Skipped {
		r.logger.Info(ctx, "dispatch skipped", "reason", outcome.Reason)
		return
	}

	r.logger.Info(ctx, "trade dispatched",
		"path", string(outcome.Path),
		"tx_hash", outcome.TxHash,
		"status", outcome.Status,
	)
}
