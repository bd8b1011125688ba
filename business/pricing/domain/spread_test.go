package domain

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/proptrader/oracle-arb/internal/apperror"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name          string
		oracle        string
		dex           string
		thresholdBps  int
		wantSpreadBps string
		wantTriggered bool
	}{
		{"dex overpriced triggers", "100", "101", 100, "100", true},
		{"dex underpriced triggers with negative sign", "100", "99", 100, "-100", true},
		{"exactly at threshold triggers", "100", "101", 100, "100", true},
		{"below threshold does not trigger", "100", "100.5", 100, "50", false},
		{"equal prices", "100", "100", 100, "0", false},
		{"tiny threshold", "100", "100.2", 10, "20", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oracle := decimal.RequireFromString(tt.oracle)
			dex := decimal.RequireFromString(tt.dex)

			sig, err := Evaluate(oracle, dex, tt.thresholdBps)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			want := decimal.RequireFromString(tt.wantSpreadBps)
			if !sig.SpreadBps.Equal(want) {
				t.Errorf("SpreadBps = %s, want %s", sig.SpreadBps.String(), want.String())
			}
			if sig.Triggered != tt.wantTriggered {
				t.Errorf("Triggered = %v, want %v", sig.Triggered, tt.wantTriggered)
			}
		})
	}
}

func TestEvaluateRejectsNonPositiveOracle(t *testing.T) {
	for _, oracle := range []string{"0", "-1"} {
		_, err := Evaluate(decimal.RequireFromString(oracle), decimal.NewFromInt(100), 100)
		if !apperror.IsCode(err, apperror.CodeSpreadCalculationError) {
			t.Errorf("oracle=%s: got %v, want CodeSpreadCalculationError", oracle, err)
		}
	}
}
