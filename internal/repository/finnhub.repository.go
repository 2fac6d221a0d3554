package repository

import (
	"context"
	"fmt"
	"rebalancer/internal/domain"
	"rebalancer/pkg/finnhub"
	"time"

	"github.com/shopspring/decimal"
)

type finnhubClient interface {
	GetQuote(ctx context.Context, symbol string) (*finnhub.QuoteResponse, error)
}

func NewFinnhubRepository(apiKey string) QuoteRepository {
	return finnhubRepositoryHandler{
		Client: finnhub.NewClient(apiKey, "", nil),
	}
}

type finnhubRepositoryHandler struct {
	Client finnhubClient
}

func (h finnhubRepositoryHandler) GetLatestPrice(ctx context.Context, symbol string) (*domain.AssetPrice, error) {
	quote, err := h.Client.GetQuote(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to get finnhub quote for %s: %w", symbol, err)
	}
	if quote.CurrentPrice == nil || *quote.CurrentPrice <= 0 {
		return nil, fmt.Errorf("invalid price data for %s", symbol)
	}

	date := time.Now().UTC()
	if quote.Timestamp > 0 {
		date = time.Unix(quote.Timestamp, 0).UTC()
	}

	return &domain.AssetPrice{
		Symbol: symbol,
		Price:  decimal.NewFromFloat32(*quote.CurrentPrice),
		Date:   date,
	}, nil
}
