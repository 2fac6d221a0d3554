package integration_tests

import (
	"context"
	"fmt"
	"rebalancer/internal/domain"
	"rebalancer/internal/repository"
	"time"

	"github.com/shopspring/decimal"
)

func NewMockQuoteRepositoryForTests() repository.QuoteRepository {
	return mockQuoteForTestsHandler{
		prices: map[string]decimal.Decimal{
			"META": decimal.NewFromInt(200),
			"AAPL": decimal.NewFromInt(100),
			"TSLA": decimal.NewFromInt(50),
			"GOOG": decimal.NewFromFloat(87.5940017700195),
		},
	}
}

type mockQuoteForTestsHandler struct {
	prices map[string]decimal.Decimal
}

func (m mockQuoteForTestsHandler) GetLatestPrice(ctx context.Context, symbol string) (*domain.AssetPrice, error) {
	price, ok := m.prices[symbol]
	if !ok {
		return nil, fmt.Errorf("invalid price data for %s", symbol)
	}
	return &domain.AssetPrice{
		Symbol: symbol,
		Price:  price,
		Date:   time.Date(2024, 3, 1, 21, 0, 0, 0, time.UTC),
	}, nil
}
