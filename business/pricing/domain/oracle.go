package domain

import (
	"fmt"
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	"github.com/proptrader/oracle-arb/internal/apperror"
)

// OracleReading is a single price observation from the oracle network.
type OracleReading struct {
	FeedID      string
	Price       int64
	Expo        int32
	Conf        uint64
	PublishTime int64
}

// Normalized returns the reading as a decimal value (price * 10^expo).
func (r OracleReading) Normalized() decimal.Decimal {
	return decimal.New(r.Price, r.Expo)
}

// ScaledPrice1e8 rescales the raw price to a fixed 1e8 exponent using
// integer arithmetic only. Division truncates toward zero, matching the
// on-chain guard's own rescaling. Prices that do not fit an int64 at the
// target exponent are rejected.
func (r OracleReading) ScaledPrice1e8() (int64, error) {
	scaled := big.NewInt(r.Price)
	ten := big.NewInt(10)
	diff := int32(-8) - r.Expo
	if diff > 0 {
		for i := int32(0); i < diff; i++ {
			scaled.Mul(scaled, ten)
		}
	} else if diff < 0 {
		for i := diff; i < 0; i++ {
			scaled.Quo(scaled, ten)
		}
	}
	if !scaled.IsInt64() {
		return 0, apperror.New(apperror.CodeMalformedPrice,
			apperror.WithContext(fmt.Sprintf("price %d at exponent %d overflows the 1e8 scale", r.Price, r.Expo)))
	}
	return scaled.Int64(), nil
}

// PriceBounds1e8 returns the [min, max] acceptance window around the scaled
// price, widened by boundsBps basis points on each side. Both bounds
// truncate toward zero.
func (r OracleReading) PriceBounds1e8(boundsBps int) (min, max int64, err error) {
	base, err := r.ScaledPrice1e8()
	if err != nil {
		return 0, 0, err
	}
	scaled := big.NewInt(base)
	lo := new(big.Int).Mul(scaled, big.NewInt(int64(10000-boundsBps)))
	lo.Quo(lo, big.NewInt(10000))
	hi := new(big.Int).Mul(scaled, big.NewInt(int64(10000+boundsBps)))
	hi.Quo(hi, big.NewInt(10000))
	if !hi.IsInt64() || !lo.IsInt64() {
		return 0, 0, apperror.New(apperror.CodeMalformedPrice,
			apperror.WithContext(fmt.Sprintf("price bounds around %d overflow int64", base)))
	}
	return lo.Int64(), hi.Int64(), nil
}

// UpdateBundle is a signed oracle price update payload plus its on-chain fee.
type UpdateBundle struct {
	FeedID string
	Data   []string
	FeeWei *big.Int
	At     time.Time
}

// FeedMetadata describes an oracle price feed.
type FeedMetadata struct {
	ID          string
	Symbol      string
	AssetType   string
	Base        string
	QuoteCcy    string
	Description string
}
