// Package mirror implements RegistryLookup against a Hedera mirror node.
package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"github.com/proptrader/oracle-arb/business/resolver/app"
	"github.com/proptrader/oracle-arb/business/resolver/domain"
	"github.com/proptrader/oracle-arb/internal/apperror"
	"github.com/proptrader/oracle-arb/internal/config"
	"github.com/proptrader/oracle-arb/internal/httpclient"
	"github.com/proptrader/oracle-arb/internal/logger"
	"github.com/proptrader/oracle-arb/internal/ratelimit"
)

// Ensure Client implements RegistryLookup.
var _ app.RegistryLookup = (*Client)(nil)

// contractResponse is the mirror node /contracts/{id} payload.
type contractResponse struct {
	ContractID string `json:"contract_id"`
	EVMAddress string `json:"evm_address"`
}

// tokenResponse is the mirror node /tokens/{id} payload.
type tokenResponse struct {
	TokenID    string      `json:"token_id"`
	Symbol     string      `json:"symbol"`
	Name       string      `json:"name"`
	Decimals   json.Number `json:"decimals"`
	Type       string      `json:"type"`
	EVMAddress string      `json:"evm_address"`
}

// tokenListResponse is the mirror node /tokens list payload.
type tokenListResponse struct {
	Tokens []tokenResponse `json:"tokens"`
}

// Client queries a mirror node REST API for contract and token metadata.
type Client struct {
	http    httpclient.Client
	limiter *ratelimit.Limiter
	logger  logger.LoggerInterface
}

// NewClient creates a mirror node client.
func NewClient(cfg config.MirrorConfig, log logger.LoggerInterface) (*Client, error) {
	hc, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("mirror"),
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithRequestTimeout(cfg.RequestTimeout),
	)
	if err != nil {
		return nil, err
	}

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 100
	}

	return &Client{
		http:    hc,
		limiter: ratelimit.New(rpm),
		logger:  log,
	}, nil
}

// ContractAddress looks up the EVM address for a contract identifier.
func (c *Client) ContractAddress(ctx context.Context, id string) (common.Address, bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return common.Address{}, false, err
	}

	var result contractResponse
	resp, err := c.http.NewRequest().
		SetResult(&result).
		Get(ctx, "/contracts/"+url.PathEscape(id))
	if err != nil {
		return common.Address{}, false, apperror.New(apperror.CodeRegistryLookupFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("contract lookup for %s", id)))
	}
	if resp.StatusCode == 404 {
		return common.Address{}, false, nil
	}
	if resp.IsError() {
		return common.Address{}, false, apperror.New(apperror.CodeRegistryLookupFailed,
			apperror.WithContext(fmt.Sprintf("contract lookup for %s returned %d", id, resp.StatusCode)))
	}
	if result.EVMAddress == "" {
		return common.Address{}, false, nil
	}

	return common.HexToAddress(result.EVMAddress), true, nil
}

// TokenInfo looks up token metadata for an identifier.
func (c *Client) TokenInfo(ctx context.Context, id string) (*domain.TokenInfo, bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, false, err
	}

	var result tokenResponse
	resp, err := c.http.NewRequest().
		SetResult(&result).
		Get(ctx, "/tokens/"+url.PathEscape(id))
	if err != nil {
		return nil, false, apperror.New(apperror.CodeRegistryLookupFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("token lookup for %s", id)))
	}
	if resp.StatusCode == 404 {
		return nil, false, nil
	}
	if resp.IsError() {
		return nil, false, apperror.New(apperror.CodeRegistryLookupFailed,
			apperror.WithContext(fmt.Sprintf("token lookup for %s returned %d", id, resp.StatusCode)))
	}

	return toTokenInfo(result), true, nil
}

// SearchTokens finds tokens by symbol or name fragment.
func (c *Client) SearchTokens(ctx context.Context, symbol, name string, limit int) ([]domain.TokenInfo, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 25
	}

	req := c.http.NewRequest().SetQueryParam("limit", strconv.Itoa(limit))
	if symbol != "" {
		req = req.SetQueryParam("symbol", url.QueryEscape(symbol))
	}
	if name != "" {
		req = req.SetQueryParam("name", url.QueryEscape(name))
	}

	var result tokenListResponse
	resp, err := req.SetResult(&result).Get(ctx, "/tokens")
	if err != nil {
		return nil, apperror.New(apperror.CodeRegistryLookupFailed,
			apperror.WithCause(err),
			apperror.WithContext("token search"))
	}
	if resp.IsError() {
		return nil, apperror.New(apperror.CodeRegistryLookupFailed,
			apperror.WithContext(fmt.Sprintf("token search returned %d", resp.StatusCode)))
	}

	infos := make([]domain.TokenInfo, 0, len(result.Tokens))
	for _, t := range result.Tokens {
		infos = append(infos, *toTokenInfo(t))
	}
	return infos, nil
}

// toTokenInfo converts a mirror node payload into domain metadata.
// Decimals arrive as a JSON number or quoted string depending on the token
// type, so both are tolerated; absent or invalid values leave Decimals nil.
func toTokenInfo(t tokenResponse) *domain.TokenInfo {
	info := &domain.TokenInfo{
		ID:     t.TokenID,
		Symbol: t.Symbol,
		Name:   t.Name,
		Type:   t.Type,
	}
	if t.EVMAddress != "" {
		info.Address = common.HexToAddress(t.EVMAddress)
	}
	if t.Decimals != "" {
		if v, err := strconv.ParseUint(t.Decimals.String(), 10, 8); err == nil {
			d := uint8(v)
			info.Decimals = &d
		}
	}
	return info
}
