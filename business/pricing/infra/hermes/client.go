// Package hermes implements the oracle price and update-data client.
package hermes

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"time"

	"github.com/proptrader/oracle-arb/business/pricing/app"
	"github.com/proptrader/oracle-arb/business/pricing/domain"
	"github.com/proptrader/oracle-arb/internal/apperror"
	"github.com/proptrader/oracle-arb/internal/httpclient"
	"github.com/proptrader/oracle-arb/internal/logger"
)

const defaultTimeout = 10 * time.Second

// Ensure Client implements OracleProvider.
var _ app.OracleProvider = (*Client)(nil)

// Client talks to a Hermes price aggregation service.
type Client struct {
	http   httpclient.Client
	logger logger.LoggerInterface
}

// NewClient creates a Hermes client.
func NewClient(baseURL string, log logger.LoggerInterface) (*Client, error) {
	hc, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("hermes"),
		httpclient.WithBaseURL(baseURL),
		httpclient.WithRequestTimeout(defaultTimeout),
	)
	if err != nil {
		return nil, err
	}

	return &Client{http: hc, logger: log}, nil
}

// LatestReading fetches the newest price for a feed.
func (c *Client) LatestReading(ctx context.Context, feedID string) (*domain.OracleReading, error) {
	var result latestPriceResponse
	resp, err := c.http.NewRequest().
		SetRawQuery("ids[]=" + url.QueryEscape(feedID)).
		SetResult(&result).
		Get(ctx, "/v2/price/latest")
	if err != nil {
		return nil, apperror.New(apperror.CodeOracleUnavailable,
			apperror.WithCause(err),
			apperror.WithContext("latest price fetch for "+feedID))
	}
	if resp.IsError() {
		return nil, apperror.New(apperror.CodeOracleUnavailable,
			apperror.WithContext(fmt.Sprintf("latest price fetch for %s returned %d", feedID, resp.StatusCode)))
	}

	items := result.items()
	if len(items) == 0 {
		return nil, apperror.New(apperror.CodeMalformedPrice,
			apperror.WithContext("no price entry for "+feedID))
	}

	body := items[0].Price
	price, err := body.Price.Int64()
	if err != nil {
		return nil, apperror.New(apperror.CodeMalformedPrice,
			apperror.WithCause(err),
			apperror.WithContext("non-numeric price for "+feedID))
	}

	expo, err := body.Expo.Int64()
	if err != nil {
		return nil, apperror.New(apperror.CodeMalformedPrice,
			apperror.WithCause(err),
			apperror.WithContext("missing or non-numeric exponent for "+feedID))
	}
	if expo < math.MinInt32 || expo > math.MaxInt32 {
		return nil, apperror.New(apperror.CodeMalformedPrice,
			apperror.WithContext(fmt.Sprintf("exponent %d out of range for %s", expo, feedID)))
	}

	conf := uint64(0)
	if body.Conf != "" {
		if v, err := body.Conf.Int64(); err == nil && v >= 0 {
			conf = uint64(v)
		}
	}

	return &domain.OracleReading{
		FeedID:      feedID,
		Price:       price,
		Expo:        int32(expo),
		Conf:        conf,
		PublishTime: body.PublishTime,
	}, nil
}

// LatestUpdateData fetches the signed binary update payloads for a feed.
func (c *Client) LatestUpdateData(ctx context.Context, feedID string) ([]string, error) {
	var result updateResponse
	resp, err := c.http.NewRequest().
		SetRawQuery("ids[]=" + url.QueryEscape(feedID) + "&encoding=hex").
		SetResult(&result).
		Get(ctx, "/v2/updates/price/latest")
	if err != nil {
		return nil, apperror.New(apperror.CodeOracleUnavailable,
			apperror.WithCause(err),
			apperror.WithContext("update data fetch for "+feedID))
	}
	if resp.IsError() {
		return nil, apperror.New(apperror.CodeOracleUnavailable,
			apperror.WithContext(fmt.Sprintf("update data fetch for %s returned %d", feedID, resp.StatusCode)))
	}

	return result.Binary.Data, nil
}

// FeedMetadata fetches descriptive metadata for a feed.
func (c *Client) FeedMetadata(ctx context.Context, feedID string) (*domain.FeedMetadata, error) {
	var result []feedEntry
	resp, err := c.http.NewRequest().
		SetRawQuery("ids[]=" + url.QueryEscape(feedID)).
		SetResult(&result).
		Get(ctx, "/v2/price_feeds")
	if err != nil {
		return nil, apperror.New(apperror.CodeOracleUnavailable,
			apperror.WithCause(err),
			apperror.WithContext("feed metadata fetch for "+feedID))
	}
	if resp.IsError() {
		return nil, apperror.New(apperror.CodeOracleUnavailable,
			apperror.WithContext(fmt.Sprintf("feed metadata fetch for %s returned %d", feedID, resp.StatusCode)))
	}
	if len(result) == 0 {
		return nil, apperror.New(apperror.CodeOracleUnavailable,
			apperror.WithContext("no feed metadata for "+feedID))
	}

	e := result[0]
	return &domain.FeedMetadata{
		ID:          e.ID,
		Symbol:      e.Attributes.Symbol,
		AssetType:   e.Attributes.AssetType,
		Base:        e.Attributes.Base,
		QuoteCcy:    e.Attributes.QuoteCcy,
		Description: e.Attributes.Description,
	}, nil
}
