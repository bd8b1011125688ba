package app

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/proptrader/oracle-arb/business/strategy/domain"
	"github.com/proptrader/oracle-arb/internal/apperror"
	"github.com/proptrader/oracle-arb/internal/logger"
)

// Outcome is the result of a dispatch attempt. A skipped delegated dispatch
// is an informative no-op, not an error.
type Outcome struct {
	Path    domain.ExecutionPath
	Skipped bool
	Reason  string

	TxHash string
	Status uint64

	// Populated on a skipped delegated precheck.
	HaveWei *big.Int
	NeedWei *big.Int

	// Populated on the wallet path: the assembled call for the user's
	// wallet to sign.
	WalletTx *WalletTx
}

// WalletTx is an unsigned transaction for the direct-wallet path.
type WalletTx struct {
	To    common.Address
	Data  []byte
	Value *big.Int
}

// Dispatcher submits prepared swaps over one of the three execution paths.
type Dispatcher struct {
	reader    TokenReader
	packer    SwapPacker
	server    ServerSigner
	delegated DelegatedExecutor
	tradeLog  *domain.TradeLog
	logger    logger.LoggerInterface
}

// NewDispatcher creates a Dispatcher. server and delegated may be nil when
// the corresponding path is not configured.
func NewDispatcher(reader TokenReader, packer SwapPacker, server ServerSigner, delegated DelegatedExecutor, tradeLog *domain.TradeLog, log logger.LoggerInterface) *Dispatcher {
	return &Dispatcher{
		reader:    reader,
		packer:    packer,
		server:    server,
		delegated: delegated,
		tradeLog:  tradeLog,
		logger:    log,
	}
}

// Dispatch submits the proposal over the chosen path. The proposal is taken
// as-is; no quote, fee, or bound is recomputed here.
func (d *Dispatcher) Dispatch(ctx context.Context, proposal *domain.SwapProposal, path domain.ExecutionPath, recipient common.Address, delegator *common.Address) (*Outcome, error) {
	if !path.Valid() {
		return nil, apperror.New(apperror.CodeDispatchFailed,
			apperror.WithContext(fmt.Sprintf("unknown execution path %q", path)))
	}
	if err := proposal.Validate(); err != nil {
		return nil, err
	}

	switch path {
	case domain.PathWallet:
		return d.dispatchWallet(ctx, proposal, recipient)
	case domain.PathServer:
		return d.dispatchServer(ctx, proposal, recipient)
	default:
		return d.dispatchDelegated(ctx, proposal, recipient, delegator)
	}
}

// dispatchWallet assembles the guarded-swap call data for the user's wallet.
// No key is held or used here.
func (d *Dispatcher) dispatchWallet(ctx context.Context, proposal *domain.SwapProposal, recipient common.Address) (*Outcome, error) {
	if proposal.NeedsApproval {
		return nil, apperror.New(apperror.CodePrecheckFailed,
			apperror.WithContext("allowance to executor is below amount in; approve first"))
	}

	data, err := d.packer.PackSwap(proposal, recipient)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Path: domain.PathWallet,
		WalletTx: &WalletTx{
			To:    proposal.Executor,
			Data:  data,
			Value: proposal.FeeWei,
		},
	}, nil
}

func (d *Dispatcher) dispatchServer(ctx context.Context, proposal *domain.SwapProposal, recipient common.Address) (*Outcome, error) {
	if d.server == nil {
		return nil, apperror.New(apperror.CodeConfigurationMissing,
			apperror.WithContext("server signer is not configured"))
	}
	if proposal.NeedsApproval {
		return nil, apperror.New(apperror.CodePrecheckFailed,
			apperror.WithContext("allowance to executor is below amount in; approve first"))
	}

	txHash, status, err := d.server.SubmitSwap(ctx, proposal, recipient)
	if err != nil {
		return nil, err
	}

	d.record(proposal, domain.PathServer, txHash, recipient)
	return &Outcome{Path: domain.PathServer, TxHash: txHash, Status: status}, nil
}

// dispatchDelegated prechecks the delegator's balance and allowance, then
// forwards to the delegated-execution service. A failed precheck is an
// informative no-op outcome.
func (d *Dispatcher) dispatchDelegated(ctx context.Context, proposal *domain.SwapProposal, recipient common.Address, delegator *common.Address) (*Outcome, error) {
	if d.delegated == nil {
		return nil, apperror.New(apperror.CodeConfigurationMissing,
			apperror.WithContext("delegated execution is not configured"))
	}
	if delegator == nil {
		return nil, apperror.New(apperror.CodeDispatchFailed,
			apperror.WithContext("delegated path requires a delegator address"))
	}

	balance, err := d.reader.BalanceOf(ctx, proposal.TokenIn, *delegator)
	if err != nil {
		return nil, err
	}
	if balance.Cmp(proposal.AmountInWei) < 0 {
		d.logger.Info(ctx, "delegated dispatch skipped: insufficient balance",
			"delegator", delegator.Hex(),
			"have_wei", balance.String(),
			"need_wei", proposal.AmountInWei.String(),
		)
		return &Outcome{
			Path:    domain.PathDelegated,
			Skipped: true,
			Reason:  "insufficient token balance",
			HaveWei: balance,
			NeedWei: proposal.AmountInWei,
		}, nil
	}

	allowance, err := d.reader.Allowance(ctx, proposal.TokenIn, *delegator, proposal.Executor)
	if err != nil {
		return nil, err
	}
	if allowance.Cmp(proposal.AmountInWei) < 0 {
		d.logger.Info(ctx, "delegated dispatch skipped: insufficient allowance",
			"delegator", delegator.Hex(),
			"have_wei", allowance.String(),
			"need_wei", proposal.AmountInWei.String(),
		)
		return &Outcome{
			Path:    domain.PathDelegated,
			Skipped: true,
			Reason:  "insufficient allowance to executor",
			HaveWei: allowance,
			NeedWei: proposal.AmountInWei,
		}, nil
	}

	txHash, status, err := d.delegated.ExecuteSwap(ctx, *delegator, proposal, recipient)
	if err != nil {
		return nil, err
	}

	d.record(proposal, domain.PathDelegated, txHash, recipient)
	return &Outcome{Path: domain.PathDelegated, TxHash: txHash, Status: status}, nil
}

func (d *Dispatcher) record(proposal *domain.SwapProposal, path domain.ExecutionPath, txHash string, recipient common.Address) {
	d.tradeLog.Add(domain.TradeRecord{
		TxHash:      txHash,
		Path:        path,
		TokenIn:     proposal.TokenIn,
		TokenOut:    proposal.TokenOut,
		AmountInWei: proposal.AmountInWei,
		MinOutWei:   proposal.MinAmountOutWei,
		Recipient:   recipient,
		At:          time.Now(),
	})
}

// TradeLog exposes the dispatch history.
func (d *Dispatcher) TradeLog() *domain.TradeLog {
	return d.tradeLog
}
