package app

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/proptrader/oracle-arb/business/resolver/domain"
)

// RegistryLookup queries the token registry for identifier metadata.
type RegistryLookup interface {
	// ContractAddress returns the EVM address recorded for a contract
	// identifier. The bool is false when the registry has no entry.
	ContractAddress(ctx context.Context, id string) (common.Address, bool, error)

	// TokenInfo returns token metadata for an identifier. The bool is
	// false when the registry has no entry.
	TokenInfo(ctx context.Context, id string) (*domain.TokenInfo, bool, error)

	// SearchTokens finds tokens matching a symbol or name fragment.
	SearchTokens(ctx context.Context, symbol, name string, limit int) ([]domain.TokenInfo, error)
}

// TokenReader reads ERC-20 state directly from the chain.
type TokenReader interface {
	Decimals(ctx context.Context, token common.Address) (uint8, error)
	Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error)
	BalanceOf(ctx context.Context, token, account common.Address) (*big.Int, error)
}
