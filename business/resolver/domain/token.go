// Package domain contains the core types for token identifier resolution.
package domain

import (
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var entityIDPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// IsEVMAddress reports whether id is a 0x-prefixed 20-byte hex address.
func IsEVMAddress(id string) bool {
	return strings.HasPrefix(id, "0x") && len(id) == 42 && common.IsHexAddress(id)
}

// IsEntityID reports whether id is a shard.realm.num entity identifier.
func IsEntityID(id string) bool {
	return entityIDPattern.MatchString(id)
}

// TokenRef is a fully resolved token reference.
type TokenRef struct {
	ID       string
	Address  common.Address
	Decimals uint8
}

// TokenInfo is registry metadata for a token.
type TokenInfo struct {
	ID       string
	Symbol   string
	Name     string
	Decimals *uint8
	Address  common.Address
	Type     string
}
