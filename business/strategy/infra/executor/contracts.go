// Package executor packs call data for the guarded-swap executor contract.
package executor

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/proptrader/oracle-arb/business/strategy/domain"
	"github.com/proptrader/oracle-arb/internal/apperror"
)

// ExecutorABI covers the guarded swap entrypoint. The oracle update is
// applied and age/bound checked inside the same transaction.
const ExecutorABI = `[
	{"inputs":[
		{"name":"router","type":"address"},
		{"name":"tokenIn","type":"address"},
		{"name":"tokenOut","type":"address"},
		{"name":"amountIn","type":"uint256"},
		{"name":"minAmountOut","type":"uint256"},
		{"name":"recipient","type":"address"},
		{"name":"priceUpdateData","type":"bytes[]"},
		{"name":"priceId","type":"bytes32"},
		{"name":"maxAgeSec","type":"uint64"},
		{"name":"minPrice","type":"int64"},
		{"name":"maxPrice","type":"int64"}
	],"name":"executeSwapWithOracle","outputs":[{"name":"amountOut","type":"uint256"}],"stateMutability":"payable","type":"function"}
]`

var (
	parsedABI  abi.ABI
	parseOnce  sync.Once
	parseError error
)

// Packer encodes guarded swap calls.
type Packer struct{}

// PackSwap encodes the executeSwapWithOracle call for a proposal.
func (Packer) PackSwap(p *domain.SwapProposal, recipient common.Address) ([]byte, error) {
	return PackExecuteSwap(p, recipient)
}

// ParsedABI returns the executor ABI, parsed once.
func ParsedABI() (abi.ABI, error) {
	parseOnce.Do(func() {
		parsedABI, parseError = abi.JSON(strings.NewReader(ExecutorABI))
	})
	return parsedABI, parseError
}

// PackExecuteSwap encodes the executeSwapWithOracle call for a proposal.
func PackExecuteSwap(p *domain.SwapProposal, recipient common.Address) ([]byte, error) {
	parsed, err := ParsedABI()
	if err != nil {
		return nil, fmt.Errorf("failed to parse executor ABI: %w", err)
	}

	updateData := make([][]byte, 0, len(p.UpdateData))
	for _, d := range p.UpdateData {
		s := d
		if !strings.HasPrefix(s, "0x") {
			s = "0x" + s
		}
		b, err := hexutil.Decode(s)
		if err != nil {
			return nil, apperror.New(apperror.CodeDispatchFailed,
				apperror.WithCause(err),
				apperror.WithContext("invalid oracle update payload encoding"))
		}
		updateData = append(updateData, b)
	}

	priceID, err := decodePriceID(p.PriceID)
	if err != nil {
		return nil, err
	}

	data, err := parsed.Pack("executeSwapWithOracle",
		p.Router,
		p.TokenIn,
		p.TokenOut,
		p.AmountInWei,
		p.MinAmountOutWei,
		recipient,
		updateData,
		priceID,
		p.MaxAgeSec,
		p.MinPrice1e8,
		p.MaxPrice1e8,
	)
	if err != nil {
		return nil, apperror.New(apperror.CodeDispatchFailed,
			apperror.WithCause(err),
			apperror.WithContext("failed to encode guarded swap call"))
	}
	return data, nil
}

// decodePriceID parses a 0x-prefixed 32-byte feed id.
func decodePriceID(id string) ([32]byte, error) {
	var out [32]byte

	s := id
	if !strings.HasPrefix(s, "0x") {
		s = "0x" + s
	}
	b, err := hexutil.Decode(s)
	if err != nil || len(b) != 32 {
		return out, apperror.New(apperror.CodeDispatchFailed,
			apperror.WithContext(fmt.Sprintf("price id must be 32 bytes, got %q", id)))
	}
	copy(out[:], b)
	return out, nil
}
