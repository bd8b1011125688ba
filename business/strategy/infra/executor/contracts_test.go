package executor

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/proptrader/oracle-arb/business/strategy/domain"
)

func testProposal() *domain.SwapProposal {
	return &domain.SwapProposal{
		Executor:        common.HexToAddress("0x04"),
		Router:          common.HexToAddress("0x01"),
		TokenIn:         common.HexToAddress("0x02"),
		TokenOut:        common.HexToAddress("0x03"),
		AmountInWei:     big.NewInt(1000),
		QuoteOutWei:     big.NewInt(900),
		MinAmountOutWei: big.NewInt(895),
		FeeWei:          big.NewInt(1),
		PriceID:         "0x" + strings.Repeat("ab", 32),
		MaxAgeSec:       60,
		MinPrice1e8:     24875000,
		MaxPrice1e8:     25125000,
		UpdateData:      []string{"0xdeadbeef", "cafebabe"},
	}
}

func TestPackExecuteSwap(t *testing.T) {
	data, err := PackExecuteSwap(testProposal(), common.HexToAddress("0x05"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) < 4 {
		t.Fatalf("call data too short: %d bytes", len(data))
	}

	parsed, err := ParsedABI()
	if err != nil {
		t.Fatalf("ABI parse failed: %v", err)
	}
	method, err := parsed.MethodById(data[:4])
	if err != nil {
		t.Fatalf("selector not found: %v", err)
	}
	if method.Name != "executeSwapWithOracle" {
		t.Errorf("method = %s, want executeSwapWithOracle", method.Name)
	}
}

func TestPackExecuteSwapRejectsBadPriceID(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"too short", "0xabcd"},
		{"not hex", "0x" + strings.Repeat("zz", 32)},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testProposal()
			p.PriceID = tt.id
			if _, err := PackExecuteSwap(p, common.HexToAddress("0x05")); err == nil {
				t.Errorf("expected error for price id %q", tt.id)
			}
		})
	}
}

func TestPackExecuteSwapRejectsBadUpdateData(t *testing.T) {
	p := testProposal()
	p.UpdateData = []string{"0xzz"}
	if _, err := PackExecuteSwap(p, common.HexToAddress("0x05")); err == nil {
		t.Errorf("expected error for invalid update payload")
	}
}
