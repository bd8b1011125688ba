package domain

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ExecutionPath identifies which signing path submitted a trade.
type ExecutionPath string

const (
	PathWallet    ExecutionPath = "wallet"
	PathServer    ExecutionPath = "server"
	PathDelegated ExecutionPath = "delegated"
)

// Valid reports whether the path is one of the known execution paths.
func (p ExecutionPath) Valid() bool {
	switch p {
	case PathWallet, PathServer, PathDelegated:
		return true
	}
	return false
}

// TradeRecord is one successfully dispatched trade.
type TradeRecord struct {
	TxHash      string
	Path        ExecutionPath
	TokenIn     common.Address
	TokenOut    common.Address
	AmountInWei *big.Int
	MinOutWei   *big.Int
	Recipient   common.Address
	At          time.Time
}
