// Package signer submits guarded swaps with a server-held key. The key
// lives only in process memory and is never logged or returned.
package signer

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/proptrader/oracle-arb/business/strategy/app"
	"github.com/proptrader/oracle-arb/business/strategy/domain"
	"github.com/proptrader/oracle-arb/business/strategy/infra/executor"
	"github.com/proptrader/oracle-arb/internal/apperror"
	"github.com/proptrader/oracle-arb/internal/logger"
)

// Ensure ServerSigner implements app.ServerSigner.
var _ app.ServerSigner = (*ServerSigner)(nil)

// ServerSigner signs and submits guarded swaps over JSON-RPC.
type ServerSigner struct {
	client  *ethclient.Client
	key     *ecdsa.PrivateKey
	from    common.Address
	chainID *big.Int
	logger  logger.LoggerInterface
}

// NewServerSigner creates a signer from a hex-encoded private key.
func NewServerSigner(client *ethclient.Client, privateKeyHex string, chainID uint64, log logger.LoggerInterface) (*ServerSigner, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, apperror.New(apperror.CodeConfigurationMissing,
			apperror.WithContext("server signer key is not a valid hex private key"))
	}

	return &ServerSigner{
		client:  client,
		key:     key,
		from:    crypto.PubkeyToAddress(key.PublicKey),
		chainID: new(big.Int).SetUint64(chainID),
		logger:  log,
	}, nil
}

// Address returns the signer's account address.
func (s *ServerSigner) Address() common.Address {
	return s.from
}

// SubmitSwap builds, signs, and submits the guarded swap, then waits for
// the receipt. A reverted transaction is an error carrying the tx hash.
func (s *ServerSigner) SubmitSwap(ctx context.Context, proposal *domain.SwapProposal, recipient common.Address) (string, uint64, error) {
	data, err := executor.PackExecuteSwap(proposal, recipient)
	if err != nil {
		return "", 0, err
	}

	nonce, err := s.client.PendingNonceAt(ctx, s.from)
	if err != nil {
		return "", 0, apperror.New(apperror.CodeRPCError,
			apperror.WithCause(err),
			apperror.WithContext("failed to fetch pending nonce"))
	}

	gasPrice, err := s.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", 0, apperror.New(apperror.CodeRPCError,
			apperror.WithCause(err),
			apperror.WithContext("failed to fetch gas price"))
	}

	value := proposal.FeeWei
	if value == nil {
		value = big.NewInt(0)
	}

	gasLimit, err := s.client.EstimateGas(ctx, ethereum.CallMsg{
		From:     s.from,
		To:       &proposal.Executor,
		Value:    value,
		GasPrice: gasPrice,
		Data:     data,
	})
	if err != nil {
		return "", 0, apperror.New(apperror.CodeDispatchFailed,
			apperror.WithCause(err),
			apperror.WithContext("gas estimation failed, the swap would likely revert"))
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &proposal.Executor,
		Value:    value,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(s.chainID), s.key)
	if err != nil {
		return "", 0, apperror.New(apperror.CodeDispatchFailed,
			apperror.WithCause(err),
			apperror.WithContext("failed to sign transaction"))
	}

	if err := s.client.SendTransaction(ctx, signedTx); err != nil {
		return "", 0, apperror.New(apperror.CodeDispatchFailed,
			apperror.WithCause(err),
			apperror.WithContext("failed to broadcast transaction"))
	}

	txHash := signedTx.Hash().Hex()
	s.logger.Info(ctx, "guarded swap submitted",
		"tx_hash", txHash,
		"executor", proposal.Executor.Hex(),
		"fee_wei", value.String(),
	)

	receipt, err := bind.WaitMined(ctx, s.client, signedTx)
	if err != nil {
		return txHash, 0, apperror.New(apperror.CodeRPCError,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("failed waiting for receipt of %s", txHash)))
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return txHash, receipt.Status, apperror.New(apperror.CodeTxReverted,
			apperror.WithContext(fmt.Sprintf("transaction %s reverted", txHash)))
	}

	return txHash, receipt.Status, nil
}
