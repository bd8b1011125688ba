// Package domain contains the pricing context's core types.
package domain

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// SwapQuote is a DEX router quote for an exact-input swap.
type SwapQuote struct {
	Router    common.Address
	TokenIn   common.Address
	TokenOut  common.Address
	AmountIn  *big.Int
	AmountOut *big.Int
	At        time.Time
}
