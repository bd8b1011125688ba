package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/proptrader/oracle-arb/internal/apperror"
)

// SwapProposal fixes every parameter of a guarded swap before dispatch.
// Dispatchers submit it as-is and never recompute quote, fee, or bounds.
type SwapProposal struct {
	Executor common.Address
	Router   common.Address
	TokenIn  common.Address
	TokenOut common.Address

	DecimalsIn  uint8
	DecimalsOut uint8

	AmountInWei     *big.Int
	QuoteOutWei     *big.Int
	MinAmountOutWei *big.Int
	FeeWei          *big.Int

	PriceID   string
	MaxAgeSec uint64

	CurrentPrice1e8 int64
	MinPrice1e8     int64
	MaxPrice1e8     int64

	UpdateData []string

	// Allowance state, populated when an owner was supplied.
	Owner         common.Address
	AllowanceWei  *big.Int
	NeedsApproval bool
}

// Validate checks the proposal's internal consistency.
func (p *SwapProposal) Validate() error {
	if p.AmountInWei == nil || p.AmountInWei.Sign() < 0 {
		return apperror.New(apperror.CodePreparationFailed,
			apperror.WithContext("amount in must be a non-negative integer"))
	}
	if p.QuoteOutWei == nil || p.MinAmountOutWei == nil {
		return apperror.New(apperror.CodePreparationFailed,
			apperror.WithContext("proposal is missing quote amounts"))
	}
	if p.MinAmountOutWei.Cmp(p.QuoteOutWei) > 0 {
		return apperror.New(apperror.CodePreparationFailed,
			apperror.WithContext("min amount out exceeds quoted amount out"))
	}
	if p.MinPrice1e8 >= p.MaxPrice1e8 {
		return apperror.New(apperror.CodePreparationFailed,
			apperror.WithContext("price bounds do not bracket the current price"))
	}
	if p.CurrentPrice1e8 < p.MinPrice1e8 || p.CurrentPrice1e8 > p.MaxPrice1e8 {
		return apperror.New(apperror.CodePreparationFailed,
			apperror.WithContext("current price falls outside its own bounds"))
	}
	if len(p.UpdateData) == 0 {
		return apperror.New(apperror.CodeEmptyUpdateBundle,
			apperror.WithContext("proposal carries no oracle update payloads"))
	}
	return nil
}

// MinAmountOut reduces a quoted output by a slippage tolerance in basis
// points, flooring toward zero.
func MinAmountOut(quoteOut *big.Int, slippageBps int) *big.Int {
	out := new(big.Int).Mul(quoteOut, big.NewInt(int64(10000-slippageBps)))
	return out.Quo(out, big.NewInt(10000))
}
