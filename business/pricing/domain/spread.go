package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/proptrader/oracle-arb/internal/apperror"
)

// Signal is the outcome of comparing a DEX price against the oracle price.
type Signal struct {
	OraclePrice decimal.Decimal
	DEXPrice    decimal.Decimal
	SpreadBps   decimal.Decimal
	Triggered   bool
	At          time.Time
}

var tenThousand = decimal.NewFromInt(10000)

// Evaluate computes the signed spread of the DEX price over the oracle price
// in basis points. The signal triggers when |spread| meets or exceeds
// thresholdBps. A non-positive oracle price is an error.
func Evaluate(oraclePrice, dexPrice decimal.Decimal, thresholdBps int) (Signal, error) {
	if oraclePrice.Sign() <= 0 {
		return Signal{}, apperror.New(apperror.CodeSpreadCalculationError,
			apperror.WithContext("oracle price must be positive"))
	}

	spread := dexPrice.Sub(oraclePrice).Div(oraclePrice).Mul(tenThousand)
	threshold := decimal.NewFromInt(int64(thresholdBps))

	return Signal{
		OraclePrice: oraclePrice,
		DEXPrice:    dexPrice,
		SpreadBps:   spread,
		Triggered:   spread.Abs().GreaterThanOrEqual(threshold),
		At:          time.Now(),
	}, nil
}
