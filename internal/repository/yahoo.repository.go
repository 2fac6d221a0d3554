package repository

import (
	"context"
	"fmt"
	"rebalancer/internal/domain"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/shopspring/decimal"
)

// how far back to look for a daily bar, covers weekends and holidays
const yahooLookback = 7 * 24 * time.Hour

type yahooBar struct {
	Close     decimal.Decimal
	Timestamp time.Time
}

func NewYahooRepository() QuoteRepository {
	return yahooRepositoryHandler{
		FetchBars: fetchYahooBars,
		Now:       time.Now,
	}
}

type yahooRepositoryHandler struct {
	FetchBars func(params *chart.Params) ([]yahooBar, error)
	Now       func() time.Time
}

func fetchYahooBars(params *chart.Params) ([]yahooBar, error) {
	iter := chart.Get(params)

	bars := []yahooBar{}
	for iter.Next() {
		bars = append(bars, yahooBar{
			Close:     iter.Bar().Close,
			Timestamp: time.Unix(int64(iter.Bar().Timestamp), 0).UTC(),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	return bars, nil
}

// GetLatestPrice uses the close of the most recent daily bar. ctx is
// unused since finance-go does not take one
func (h yahooRepositoryHandler) GetLatestPrice(ctx context.Context, symbol string) (*domain.AssetPrice, error) {
	end := h.Now()
	start := end.Add(-yahooLookback)
	params := &chart.Params{
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Symbol:   symbol,
		Interval: datetime.OneDay,
	}

	bars, err := h.FetchBars(params)
	if err != nil {
		return nil, fmt.Errorf("failed to get prices for %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no recent bars for %s", symbol)
	}

	latest := bars[len(bars)-1]
	if !latest.Close.IsPositive() {
		return nil, fmt.Errorf("failed to get price for %s: got %s price", symbol, latest.Close.String())
	}

	return &domain.AssetPrice{
		Symbol: symbol,
		Price:  latest.Close,
		Date:   latest.Timestamp,
	}, nil
}
