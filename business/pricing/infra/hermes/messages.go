package hermes

import "encoding/json"

// priceBody is the nested price object in Hermes responses. Price and Expo
// stay json.Number so an absent field is distinguishable from a zero value.
type priceBody struct {
	Price       json.Number `json:"price"`
	Conf        json.Number `json:"conf"`
	Expo        json.Number `json:"expo"`
	PublishTime int64       `json:"publish_time"`
}

// priceItem is one feed entry in a latest-price response.
type priceItem struct {
	ID    string    `json:"id"`
	Price priceBody `json:"price"`
}

// latestPriceResponse is the /v2/price/latest payload.
type latestPriceResponse struct {
	Prices []priceItem `json:"prices"`
	Parsed []priceItem `json:"parsed"`
}

// items returns whichever entry list the server populated.
func (r *latestPriceResponse) items() []priceItem {
	if len(r.Prices) > 0 {
		return r.Prices
	}
	return r.Parsed
}

// updateResponse is the /v2/updates/price/latest payload.
type updateResponse struct {
	Binary struct {
		Encoding string   `json:"encoding"`
		Data     []string `json:"data"`
	} `json:"binary"`
}

// feedAttributes is the metadata block of a price feed entry.
type feedAttributes struct {
	Symbol      string `json:"symbol"`
	AssetType   string `json:"asset_type"`
	Base        string `json:"base"`
	QuoteCcy    string `json:"quote_currency"`
	Description string `json:"description"`
}

// feedEntry is one entry in a /v2/price_feeds response.
type feedEntry struct {
	ID         string         `json:"id"`
	Attributes feedAttributes `json:"attributes"`
}
