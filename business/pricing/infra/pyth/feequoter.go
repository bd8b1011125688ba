// Package pyth quotes oracle update fees from the on-chain oracle contract.
package pyth

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/proptrader/oracle-arb/business/pricing/app"
	"github.com/proptrader/oracle-arb/internal/apperror"
	"github.com/proptrader/oracle-arb/internal/circuitbreaker"
)

// feeABI covers getUpdateFee on the oracle contract.
const feeABI = `[
	{"inputs":[{"name":"updateData","type":"bytes[]"}],"name":"getUpdateFee","outputs":[{"name":"feeAmount","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

// Ensure FeeQuoter implements app.FeeQuoter.
var _ app.FeeQuoter = (*FeeQuoter)(nil)

// FeeQuoter reads the update submission fee from the oracle contract.
type FeeQuoter struct {
	client   *ethclient.Client
	contract common.Address
	abi      abi.ABI
	cb       *circuitbreaker.CircuitBreaker[[]byte]
}

// NewFeeQuoter creates a fee quoter bound to an oracle contract address.
func NewFeeQuoter(client *ethclient.Client, contract common.Address) (*FeeQuoter, error) {
	parsed, err := abi.JSON(strings.NewReader(feeABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse fee ABI: %w", err)
	}

	return &FeeQuoter{
		client:   client,
		contract: contract,
		abi:      parsed,
		cb:       circuitbreaker.New[[]byte](circuitbreaker.DefaultConfig("oracle-fee")),
	}, nil
}

// UpdateFee calls getUpdateFee with the hex-encoded update payloads.
func (f *FeeQuoter) UpdateFee(ctx context.Context, updateData []string) (*big.Int, error) {
	raw, err := DecodeUpdateData(updateData)
	if err != nil {
		return nil, err
	}

	callData, err := f.abi.Pack("getUpdateFee", raw)
	if err != nil {
		return nil, fmt.Errorf("failed to encode getUpdateFee: %w", err)
	}

	result, err := f.cb.Execute(func() ([]byte, error) {
		return f.client.CallContract(ctx, ethereum.CallMsg{
			To:   &f.contract,
			Data: callData,
		}, nil)
	})
	if err != nil {
		return nil, apperror.New(apperror.CodeFeeQuoteFailed,
			apperror.WithCause(err),
			apperror.WithContext("getUpdateFee call failed"))
	}

	outputs, err := f.abi.Unpack("getUpdateFee", result)
	if err != nil {
		return nil, apperror.New(apperror.CodeFeeQuoteFailed,
			apperror.WithCause(err),
			apperror.WithContext("failed to decode getUpdateFee result"))
	}

	fee, ok := outputs[0].(*big.Int)
	if !ok {
		return nil, apperror.New(apperror.CodeFeeQuoteFailed,
			apperror.WithContext("unexpected getUpdateFee return type"))
	}
	return fee, nil
}

// DecodeUpdateData converts hex payload strings into raw bytes. A 0x prefix
// is optional.
func DecodeUpdateData(updateData []string) ([][]byte, error) {
	raw := make([][]byte, 0, len(updateData))
	for _, d := range updateData {
		s := d
		if !strings.HasPrefix(s, "0x") {
			s = "0x" + s
		}
		b, err := hexutil.Decode(s)
		if err != nil {
			return nil, apperror.New(apperror.CodeMalformedPrice,
				apperror.WithCause(err),
				apperror.WithContext("invalid update payload encoding"))
		}
		raw = append(raw, b)
	}
	return raw, nil
}
