// Package delegated forwards guarded swaps to an external delegated-signing
// service.
package delegated

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/proptrader/oracle-arb/business/strategy/app"
	"github.com/proptrader/oracle-arb/business/strategy/domain"
	"github.com/proptrader/oracle-arb/internal/apperror"
	"github.com/proptrader/oracle-arb/internal/httpclient"
	"github.com/proptrader/oracle-arb/internal/logger"
)

const defaultTimeout = 60 * time.Second

// Ensure Client implements app.DelegatedExecutor.
var _ app.DelegatedExecutor = (*Client)(nil)

// swapParams is the parameter set forwarded to the service. It mirrors the
// executor call exactly; the service recomputes nothing.
type swapParams struct {
	Executor        string   `json:"executor"`
	Router          string   `json:"router"`
	TokenIn         string   `json:"tokenIn"`
	TokenOut        string   `json:"tokenOut"`
	AmountInWei     string   `json:"amountInWei"`
	MinAmountOutWei string   `json:"minAmountOutWei"`
	Recipient       string   `json:"recipient"`
	UpdateData      []string `json:"updateData"`
	PriceID         string   `json:"priceId"`
	MaxAgeSec       uint64   `json:"maxAgeSec"`
	MinPrice1e8     int64    `json:"minPrice1e8"`
	MaxPrice1e8     int64    `json:"maxPrice1e8"`
	FeeWei          string   `json:"feeWei"`
}

// executeRequest is the service's request envelope.
type executeRequest struct {
	DelegatorAddress string     `json:"delegatorAddress"`
	AppID            string     `json:"appId,omitempty"`
	Params           swapParams `json:"params"`
}

// executeResponse is the service's response envelope.
type executeResponse struct {
	TxHash string `json:"txHash"`
	Status uint64 `json:"status"`
	Error  string `json:"error"`
}

// Client talks to the delegated-execution service.
type Client struct {
	http   httpclient.Client
	appID  string
	logger logger.LoggerInterface
}

// NewClient creates a delegated-execution client.
func NewClient(baseURL, appID string, log logger.LoggerInterface) (*Client, error) {
	hc, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("delegated"),
		httpclient.WithBaseURL(baseURL),
		httpclient.WithRequestTimeout(defaultTimeout),
	)
	if err != nil {
		return nil, err
	}

	return &Client{http: hc, appID: appID, logger: log}, nil
}

// ExecuteSwap forwards the prepared swap for the delegator and relays the
// service's result.
func (c *Client) ExecuteSwap(ctx context.Context, delegator common.Address, proposal *domain.SwapProposal, recipient common.Address) (string, uint64, error) {
	feeWei := "0"
	if proposal.FeeWei != nil {
		feeWei = proposal.FeeWei.String()
	}

	req := executeRequest{
		DelegatorAddress: delegator.Hex(),
		AppID:            c.appID,
		Params: swapParams{
			Executor:        proposal.Executor.Hex(),
			Router:          proposal.Router.Hex(),
			TokenIn:         proposal.TokenIn.Hex(),
			TokenOut:        proposal.TokenOut.Hex(),
			AmountInWei:     proposal.AmountInWei.String(),
			MinAmountOutWei: proposal.MinAmountOutWei.String(),
			Recipient:       recipient.Hex(),
			UpdateData:      proposal.UpdateData,
			PriceID:         proposal.PriceID,
			MaxAgeSec:       proposal.MaxAgeSec,
			MinPrice1e8:     proposal.MinPrice1e8,
			MaxPrice1e8:     proposal.MaxPrice1e8,
			FeeWei:          feeWei,
		},
	}

	var result executeResponse
	resp, err := c.http.NewRequest().
		SetBody(req).
		SetResult(&result).
		Post(ctx, "/execute-swap")
	if err != nil {
		return "", 0, apperror.New(apperror.CodeDispatchFailed,
			apperror.WithCause(err),
			apperror.WithContext("delegated execution request failed"))
	}
	if resp.IsError() {
		return "", 0, apperror.New(apperror.CodeDispatchFailed,
			apperror.WithContext(fmt.Sprintf("delegated execution returned %d: %s", resp.StatusCode, resp.String())))
	}
	if result.Error != "" {
		return "", 0, apperror.New(apperror.CodeDispatchFailed,
			apperror.WithContext("delegated execution error: "+result.Error))
	}

	c.logger.Info(ctx, "delegated swap executed",
		"delegator", delegator.Hex(),
		"tx_hash", result.TxHash,
		"status", result.Status,
	)
	return result.TxHash, result.Status, nil
}
