package domain

import (
	"math"
	"testing"

	"github.com/proptrader/oracle-arb/internal/apperror"
)

func TestScaledPrice1e8(t *testing.T) {
	tests := []struct {
		name  string
		price int64
		expo  int32
		want  int64
	}{
		{"already 1e8", 2500000000, -8, 2500000000},
		{"coarser exponent divides", 25000000, -6, 250000},
		{"finer exponent multiplies", 25000000, -10, 2500000000},
		{"small value truncates to zero", 25, -6, 0},
		{"truncating division", 199, -7, 19},
		{"negative price truncates toward zero", -25000000, -6, -250000},
		{"zero price", 0, -6, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := OracleReading{Price: tt.price, Expo: tt.expo}
			got, err := r.ScaledPrice1e8()
			if err != nil {
				t.Fatalf("ScaledPrice1e8(%d, %d): %v", tt.price, tt.expo, err)
			}
			if got != tt.want {
				t.Errorf("ScaledPrice1e8(%d, %d) = %d, want %d", tt.price, tt.expo, got, tt.want)
			}
		})
	}
}

func TestScaledPrice1e8Overflow(t *testing.T) {
	tests := []struct {
		name  string
		price int64
		expo  int32
	}{
		{"large price at finer exponent", math.MaxInt64 / 10, -10},
		{"max price multiplied once", math.MaxInt64, -9},
		{"large negative price", math.MinInt64 / 10, -10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := OracleReading{Price: tt.price, Expo: tt.expo}
			if _, err := r.ScaledPrice1e8(); !apperror.IsCode(err, apperror.CodeMalformedPrice) {
				t.Errorf("ScaledPrice1e8(%d, %d) err = %v, want code %s",
					tt.price, tt.expo, err, apperror.CodeMalformedPrice)
			}
		})
	}
}

func TestPriceBounds1e8(t *testing.T) {
	tests := []struct {
		name      string
		price     int64
		expo      int32
		boundsBps int
		wantMin   int64
		wantMax   int64
	}{
		{"50 bps around 1e8", 100000000, -8, 50, 99500000, 100500000},
		{"zero bounds", 100000000, -8, 0, 100000000, 100000000},
		{"truncation in both bounds", 1000001, -8, 50, 995000, 1005001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := OracleReading{Price: tt.price, Expo: tt.expo}
			min, max, err := r.PriceBounds1e8(tt.boundsBps)
			if err != nil {
				t.Fatalf("PriceBounds1e8(%d): %v", tt.boundsBps, err)
			}
			if min != tt.wantMin || max != tt.wantMax {
				t.Errorf("PriceBounds1e8(%d) = [%d, %d], want [%d, %d]",
					tt.boundsBps, min, max, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestPriceBounds1e8Overflow(t *testing.T) {
	r := OracleReading{Price: math.MaxInt64, Expo: -8}
	if _, _, err := r.PriceBounds1e8(50); !apperror.IsCode(err, apperror.CodeMalformedPrice) {
		t.Errorf("PriceBounds1e8 err = %v, want code %s", err, apperror.CodeMalformedPrice)
	}
}

func TestNormalized(t *testing.T) {
	r := OracleReading{Price: 2500000000, Expo: -8}
	if got := r.Normalized().String(); got != "25" {
		t.Errorf("Normalized() = %s, want 25", got)
	}
}
