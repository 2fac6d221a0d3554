package l1_service

import (
	"context"
	"errors"
	"rebalancer/internal/domain"
	"rebalancer/internal/logger"
	"rebalancer/internal/repository"
	"time"

	"github.com/shopspring/decimal"
)

/**

every call goes to the provider. nothing is cached here, so two calls for
the same symbol can return different prices

*/

// PriceSource returns the current price of a normalized ticker. The price
// is always strictly positive; anything else is a PriceUnavailableError
type PriceSource interface {
	GetCurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

type priceServiceHandler struct {
	QuoteRepository repository.QuoteRepository
	// zero means no deadline beyond the caller's ctx. the deadline is
	// enforced here as well as passed down, since the alpaca and yahoo
	// clients take no ctx and would otherwise ignore it
	Timeout time.Duration
}

func NewPriceService(quoteRepository repository.QuoteRepository, timeout time.Duration) PriceSource {
	return priceServiceHandler{
		QuoteRepository: quoteRepository,
		Timeout:         timeout,
	}
}

func (h priceServiceHandler) GetCurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	log := logger.FromContext(ctx)
	symbol = domain.NormalizeSymbol(symbol)
	if symbol == "" {
		return decimal.Zero, &domain.PriceUnavailableError{Symbol: symbol, Err: errors.New("empty symbol")}
	}

	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	start := time.Now()
	assetPrice, err := h.fetchPrice(ctx, symbol)
	if err != nil {
		log.Warnf("price lookup for %s failed: %v", symbol, err)
		return decimal.Zero, &domain.PriceUnavailableError{Symbol: symbol, Err: err}
	}
	if assetPrice == nil {
		return decimal.Zero, &domain.PriceUnavailableError{Symbol: symbol, Err: errors.New("no quote returned")}
	}
	if !assetPrice.Price.IsPositive() {
		return decimal.Zero, &domain.PriceUnavailableError{
			Symbol: symbol,
			Err:    errors.New("non-positive price " + assetPrice.Price.String()),
		}
	}

	log.Debugw(
		"fetched price",
		"symbol", symbol,
		"price", assetPrice.Price.String(),
		"quotedAt", assetPrice.Date,
		"elapsedMs", time.Since(start).Milliseconds(),
	)

	return assetPrice.Price, nil
}

type fetchResult struct {
	assetPrice *domain.AssetPrice
	err        error
}

// fetchPrice returns as soon as ctx is done, even if the repository call
// is still running. the abandoned call finishes in the background
func (h priceServiceHandler) fetchPrice(ctx context.Context, symbol string) (*domain.AssetPrice, error) {
	results := make(chan fetchResult, 1)
	go func() {
		assetPrice, err := h.QuoteRepository.GetLatestPrice(ctx, symbol)
		results <- fetchResult{assetPrice: assetPrice, err: err}
	}()

	select {
	case result := <-results:
		return result.assetPrice, result.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
