package app

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/proptrader/oracle-arb/business/strategy/domain"
	"github.com/proptrader/oracle-arb/internal/apperror"
)

type fakePacker struct{}

func (fakePacker) PackSwap(proposal *domain.SwapProposal, recipient common.Address) ([]byte, error) {
	return []byte{0xde, 0xad, 0xbe, 0xef}, nil
}

type fakeServerSigner struct {
	txHash string
	status uint64
	err    error
	calls  int
}

func (f *fakeServerSigner) SubmitSwap(ctx context.Context, proposal *domain.SwapProposal, recipient common.Address) (string, uint64, error) {
	f.calls++
	if f.err != nil {
		return "", 0, f.err
	}
	return f.txHash, f.status, nil
}

type fakeDelegated struct {
	txHash string
	status uint64
	err    error
	calls  int
}

func (f *fakeDelegated) ExecuteSwap(ctx context.Context, delegator common.Address, proposal *domain.SwapProposal, recipient common.Address) (string, uint64, error) {
	f.calls++
	if f.err != nil {
		return "", 0, f.err
	}
	return f.txHash, f.status, nil
}

func dispatchProposal() *domain.SwapProposal {
	return &domain.SwapProposal{
		Executor:        executorAddr,
		Router:          routerAddr,
		TokenIn:         tokenInAddr,
		TokenOut:        tokenOutAddr,
		AmountInWei:     big.NewInt(10_000_000),
		QuoteOutWei:     big.NewInt(1000000),
		MinAmountOutWei: big.NewInt(995000),
		FeeWei:          big.NewInt(7),
		PriceID:         "0x" + stringsRepeat64("ab"),
		MaxAgeSec:       60,
		CurrentPrice1e8: 25000000,
		MinPrice1e8:     24875000,
		MaxPrice1e8:     25125000,
		UpdateData:      []string{"0xdeadbeef"},
	}
}

// stringsRepeat64 builds a 64-hex-char string from a 2-char unit.
func stringsRepeat64(unit string) string {
	out := ""
	for i := 0; i < 32; i++ {
		out += unit
	}
	return out
}

func TestDispatchServerPath(t *testing.T) {
	server := &fakeServerSigner{txHash: "0xabc", status: 1}
	d := NewDispatcher(&fakeTokenReader{}, fakePacker{}, server, nil, domain.NewTradeLog(5), testLogger())

	outcome, err := d.Dispatch(context.Background(), dispatchProposal(), domain.PathServer, ownerAddr, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.TxHash != "0xabc" || outcome.Status != 1 {
		t.Errorf("outcome = %+v", outcome)
	}
	if d.TradeLog().Len() != 1 {
		t.Errorf("trade not recorded")
	}

	rec := d.TradeLog().List()[0]
	if rec.Path != domain.PathServer || rec.TxHash != "0xabc" {
		t.Errorf("record = %+v", rec)
	}
}

func TestDispatchServerNotConfigured(t *testing.T) {
	d := NewDispatcher(&fakeTokenReader{}, fakePacker{}, nil, nil, domain.NewTradeLog(5), testLogger())

	_, err := d.Dispatch(context.Background(), dispatchProposal(), domain.PathServer, ownerAddr, nil)
	if !apperror.IsCode(err, apperror.CodeConfigurationMissing) {
		t.Fatalf("got %v, want CodeConfigurationMissing", err)
	}
}

func TestDispatchBlocksOnNeedsApproval(t *testing.T) {
	server := &fakeServerSigner{txHash: "0xabc", status: 1}
	d := NewDispatcher(&fakeTokenReader{}, fakePacker{}, server, nil, domain.NewTradeLog(5), testLogger())

	proposal := dispatchProposal()
	proposal.NeedsApproval = true

	_, err := d.Dispatch(context.Background(), proposal, domain.PathServer, ownerAddr, nil)
	if !apperror.IsCode(err, apperror.CodePrecheckFailed) {
		t.Fatalf("got %v, want CodePrecheckFailed", err)
	}
	if server.calls != 0 {
		t.Errorf("server called despite failed precheck")
	}
}

func TestDispatchWalletAssemblesCallData(t *testing.T) {
	d := NewDispatcher(&fakeTokenReader{}, fakePacker{}, nil, nil, domain.NewTradeLog(5), testLogger())

	outcome, err := d.Dispatch(context.Background(), dispatchProposal(), domain.PathWallet, ownerAddr, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.WalletTx == nil {
		t.Fatalf("no wallet tx assembled")
	}
	if outcome.WalletTx.To != executorAddr {
		t.Errorf("To = %s, want executor", outcome.WalletTx.To.Hex())
	}
	if outcome.WalletTx.Value.Cmp(big.NewInt(7)) != 0 {
		t.Errorf("Value = %s, want fee 7", outcome.WalletTx.Value)
	}
	if len(outcome.WalletTx.Data) == 0 {
		t.Errorf("empty call data")
	}
	if d.TradeLog().Len() != 0 {
		t.Errorf("wallet path must not record a trade before the wallet signs")
	}
}

func TestDispatchDelegatedPrechecks(t *testing.T) {
	tests := []struct {
		name       string
		balance    int64
		allowance  int64
		wantSkip   bool
		wantReason string
		wantCalls  int
	}{
		{
			name:      "both sufficient executes",
			balance:   10_000_000,
			allowance: 10_000_000,
			wantCalls: 1,
		},
		{
			name:       "insufficient balance skips",
			balance:    9_999_999,
			allowance:  10_000_000,
			wantSkip:   true,
			wantReason: "insufficient token balance",
		},
		{
			name:       "insufficient allowance skips",
			balance:    10_000_000,
			allowance:  9_999_999,
			wantSkip:   true,
			wantReason: "insufficient allowance to executor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := &fakeTokenReader{
				balance:   big.NewInt(tt.balance),
				allowance: big.NewInt(tt.allowance),
			}
			deleg := &fakeDelegated{txHash: "0xdef", status: 1}
			d := NewDispatcher(reader, fakePacker{}, nil, deleg, domain.NewTradeLog(5), testLogger())

			outcome, err := d.Dispatch(context.Background(), dispatchProposal(), domain.PathDelegated, ownerAddr, &ownerAddr)
			if err != nil {
				t.Fatalf("precheck outcome must not be an error, got: %v", err)
			}
			if outcome.Skipped != tt.wantSkip {
				t.Errorf("Skipped = %v, want %v", outcome.Skipped, tt.wantSkip)
			}
			if tt.wantSkip {
				if outcome.Reason != tt.wantReason {
					t.Errorf("Reason = %q, want %q", outcome.Reason, tt.wantReason)
				}
				if outcome.HaveWei == nil || outcome.NeedWei == nil {
					t.Errorf("skip outcome missing have/need amounts")
				}
			}
			if deleg.calls != tt.wantCalls {
				t.Errorf("delegated calls = %d, want %d", deleg.calls, tt.wantCalls)
			}
		})
	}
}

func TestDispatchDelegatedRequiresDelegator(t *testing.T) {
	deleg := &fakeDelegated{}
	d := NewDispatcher(&fakeTokenReader{}, fakePacker{}, nil, deleg, domain.NewTradeLog(5), testLogger())

	_, err := d.Dispatch(context.Background(), dispatchProposal(), domain.PathDelegated, ownerAddr, nil)
	if !apperror.IsCode(err, apperror.CodeDispatchFailed) {
		t.Fatalf("got %v, want CodeDispatchFailed", err)
	}
}

func TestDispatchUnknownPath(t *testing.T) {
	d := NewDispatcher(&fakeTokenReader{}, fakePacker{}, nil, nil, domain.NewTradeLog(5), testLogger())

	_, err := d.Dispatch(context.Background(), dispatchProposal(), domain.ExecutionPath("bogus"), ownerAddr, nil)
	if !apperror.IsCode(err, apperror.CodeDispatchFailed) {
		t.Fatalf("got %v, want CodeDispatchFailed", err)
	}
}
