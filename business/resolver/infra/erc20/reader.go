// Package erc20 reads ERC-20 token state over eth_call.
package erc20

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/proptrader/oracle-arb/business/resolver/app"
	"github.com/proptrader/oracle-arb/internal/apperror"
	"github.com/proptrader/oracle-arb/internal/circuitbreaker"
)

// erc20ABI covers the read methods the bot needs.
const erc20ABI = `[
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"account","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

// Ensure Reader implements TokenReader.
var _ app.TokenReader = (*Reader)(nil)

// Reader implements TokenReader against a JSON-RPC node.
type Reader struct {
	client *ethclient.Client
	abi    abi.ABI
	cb     *circuitbreaker.CircuitBreaker[[]byte]
}

// NewReader creates an ERC-20 reader.
func NewReader(client *ethclient.Client) (*Reader, error) {
	parsed, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse erc20 ABI: %w", err)
	}

	return &Reader{
		client: client,
		abi:    parsed,
		cb:     circuitbreaker.New[[]byte](circuitbreaker.DefaultConfig("erc20-reader")),
	}, nil
}

// Decimals calls decimals() on the token contract.
func (r *Reader) Decimals(ctx context.Context, token common.Address) (uint8, error) {
	out, err := r.call(ctx, token, "decimals")
	if err != nil {
		return 0, err
	}
	dec, ok := out[0].(uint8)
	if !ok {
		return 0, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithContext(fmt.Sprintf("unexpected decimals() return type for %s", token.Hex())))
	}
	return dec, nil
}

// Allowance calls allowance(owner, spender) on the token contract.
func (r *Reader) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	out, err := r.call(ctx, token, "allowance", owner, spender)
	if err != nil {
		return nil, err
	}
	return asBigInt(out[0], token, "allowance")
}

// BalanceOf calls balanceOf(account) on the token contract.
func (r *Reader) BalanceOf(ctx context.Context, token, account common.Address) (*big.Int, error) {
	out, err := r.call(ctx, token, "balanceOf", account)
	if err != nil {
		return nil, err
	}
	return asBigInt(out[0], token, "balanceOf")
}

func (r *Reader) call(ctx context.Context, token common.Address, method string, args ...interface{}) ([]interface{}, error) {
	callData, err := r.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s call: %w", method, err)
	}

	result, err := r.cb.Execute(func() ([]byte, error) {
		return r.client.CallContract(ctx, ethereum.CallMsg{
			To:   &token,
			Data: callData,
		}, nil)
	})
	if err != nil {
		return nil, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("%s call failed for %s", method, token.Hex())))
	}

	out, err := r.abi.Unpack(method, result)
	if err != nil {
		return nil, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("failed to decode %s result for %s", method, token.Hex())))
	}
	if len(out) == 0 {
		return nil, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithContext(fmt.Sprintf("%s returned no values for %s", method, token.Hex())))
	}
	return out, nil
}

func asBigInt(v interface{}, token common.Address, method string) (*big.Int, error) {
	n, ok := v.(*big.Int)
	if !ok {
		return nil, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithContext(fmt.Sprintf("unexpected %s return type for %s", method, token.Hex())))
	}
	return n, nil
}
