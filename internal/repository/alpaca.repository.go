package repository

import (
	"context"
	"fmt"
	"rebalancer/internal/domain"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/shopspring/decimal"
)

type alpacaMarketDataClient interface {
	GetLatestQuotes(symbols []string, req marketdata.GetLatestQuoteRequest) (map[string]marketdata.Quote, error)
}

func NewAlpacaRepository(apiKey, apiSecret string, endpoint string) QuoteRepository {
	mdClient := marketdata.NewClient(marketdata.ClientOpts{
		BaseURL:   endpoint,
		APIKey:    apiKey,
		APISecret: apiSecret,
	})

	return &alpacaRepositoryHandler{
		MdClient: mdClient,
	}
}

type alpacaRepositoryHandler struct {
	MdClient alpacaMarketDataClient
}

func (h alpacaRepositoryHandler) GetLatestPrice(ctx context.Context, symbol string) (*domain.AssetPrice, error) {
	results, err := h.MdClient.GetLatestQuotes([]string{symbol}, marketdata.GetLatestQuoteRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to get alpaca quote for %s: %w", symbol, err)
	}
	result, ok := results[symbol]
	if !ok {
		return nil, fmt.Errorf("no alpaca quote returned for %s", symbol)
	}

	out := domain.AssetPrice{
		Symbol: symbol,
		Price:  decimal.NewFromFloat(result.BidPrice),
		Date:   result.Timestamp.UTC(),
	}
	if !out.Price.IsPositive() {
		return nil, fmt.Errorf("failed to get price for %s: got %s price", symbol, out.Price.String())
	}

	return &out, nil
}
