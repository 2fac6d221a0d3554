package repository

import (
	"context"
	"rebalancer/internal/domain"
)

// QuoteRepository fetches the latest quote for a single symbol from a
// market data provider. Implementations do not cache
type QuoteRepository interface {
	GetLatestPrice(ctx context.Context, symbol string) (*domain.AssetPrice, error)
}
