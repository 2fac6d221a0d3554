package finnhub

import (
	"context"
	"fmt"
	"net/http"

	sdk "github.com/Finnhub-Stock-API/finnhub-go/v2"
)

// Client narrows the official sdk down to the quote endpoint
type Client struct {
	api *sdk.DefaultApiService
}

// NewClient builds a quote client. baseURL and httpClient are optional
// and default to the public api and http.DefaultClient
func NewClient(apiKey, baseURL string, httpClient *http.Client) Client {
	cfg := sdk.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	if baseURL != "" {
		cfg.Servers = sdk.ServerConfigurations{{URL: baseURL}}
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}

	return Client{
		api: sdk.NewAPIClient(cfg).DefaultApi,
	}
}

// QuoteResponse mirrors https://finnhub.io/docs/api/quote. Unknown
// symbols come back as all zeros, and some fields can be null
type QuoteResponse struct {
	CurrentPrice  *float32
	Change        *float32
	PercentChange *float32
	High          *float32
	Low           *float32
	Open          *float32
	PreviousClose *float32
	Timestamp     int64
}

func (c Client) GetQuote(ctx context.Context, symbol string) (*QuoteResponse, error) {
	quote, response, err := c.api.Quote(ctx).Symbol(symbol).Execute()
	if response != nil && response.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("finnhub rate limit hit for %s", symbol)
	}
	if err != nil {
		return nil, fmt.Errorf("finnhub quote request for %s failed: %w", symbol, err)
	}

	out := &QuoteResponse{
		CurrentPrice:  quote.C,
		Change:        quote.D,
		PercentChange: quote.Dp,
		High:          quote.H,
		Low:           quote.L,
		Open:          quote.O,
		PreviousClose: quote.Pc,
	}
	if quote.T != nil {
		out.Timestamp = *quote.T
	}

	return out, nil
}
