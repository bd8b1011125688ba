// Package app implements the resolution use cases.
package app

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/proptrader/oracle-arb/business/resolver/domain"
	"github.com/proptrader/oracle-arb/internal/apperror"
	"github.com/proptrader/oracle-arb/internal/logger"
)

// ResolverService resolves token identifiers to EVM addresses and decimals.
type ResolverService struct {
	registry RegistryLookup
	reader   TokenReader
	logger   logger.LoggerInterface
}

// NewResolverService creates a new ResolverService.
func NewResolverService(registry RegistryLookup, reader TokenReader, log logger.LoggerInterface) *ResolverService {
	return &ResolverService{
		registry: registry,
		reader:   reader,
		logger:   log,
	}
}

// ResolveAddress maps an identifier to an EVM address. Hex addresses pass
// through unchanged. Other identifiers are looked up as a contract first,
// then as a token; a registry error on one step is treated as a miss so
// the next step still runs.
func (s *ResolverService) ResolveAddress(ctx context.Context, id string) (common.Address, error) {
	if domain.IsEVMAddress(id) {
		return common.HexToAddress(id), nil
	}

	addr, found, err := s.registry.ContractAddress(ctx, id)
	if err != nil {
		s.logger.Debug(ctx, "contract lookup failed, trying token lookup", "id", id, "error", err)
	} else if found {
		return addr, nil
	}

	info, found, err := s.registry.TokenInfo(ctx, id)
	if err != nil {
		s.logger.Debug(ctx, "token lookup failed", "id", id, "error", err)
	} else if found && info.Address != (common.Address{}) {
		return info.Address, nil
	}

	return common.Address{}, apperror.New(apperror.CodeResolutionFailed,
		apperror.WithContext(fmt.Sprintf("could not resolve %q to an EVM address", id)))
}

// ResolveDecimals determines a token's decimals. An explicit override wins;
// entity identifiers consult registry metadata next; the on-chain
// decimals() call is the final authority and its failure is fatal.
func (s *ResolverService) ResolveDecimals(ctx context.Context, id string, addr common.Address, explicit *uint8) (uint8, error) {
	if explicit != nil {
		return *explicit, nil
	}

	if domain.IsEntityID(id) {
		info, found, err := s.registry.TokenInfo(ctx, id)
		if err != nil {
			s.logger.Debug(ctx, "registry decimals lookup failed, falling back to chain", "id", id, "error", err)
		} else if found && info.Decimals != nil {
			return *info.Decimals, nil
		}
	}

	dec, err := s.reader.Decimals(ctx, addr)
	if err != nil {
		return 0, apperror.New(apperror.CodeDecimalsLookupFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("decimals() call failed for %s", addr.Hex())))
	}
	return dec, nil
}

// ResolveToken resolves an identifier to a full token reference.
func (s *ResolverService) ResolveToken(ctx context.Context, id string, explicit *uint8) (domain.TokenRef, error) {
	addr, err := s.ResolveAddress(ctx, id)
	if err != nil {
		return domain.TokenRef{}, err
	}

	dec, err := s.ResolveDecimals(ctx, id, addr, explicit)
	if err != nil {
		return domain.TokenRef{}, err
	}

	return domain.TokenRef{ID: id, Address: addr, Decimals: dec}, nil
}

// SearchTokens finds registry tokens by symbol or name fragment.
func (s *ResolverService) SearchTokens(ctx context.Context, symbol, name string, limit int) ([]domain.TokenInfo, error) {
	return s.registry.SearchTokens(ctx, symbol, name, limit)
}
