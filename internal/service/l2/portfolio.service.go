package l2_service

import (
	"context"
	"rebalancer/internal/domain"
	"rebalancer/internal/logger"
	l1_service "rebalancer/internal/service/l1"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RebalanceThreshold is the dead zone, in currency units. Differences
// this small or smaller are not worth trading
var RebalanceThreshold = decimal.NewFromInt(1)

// stock binds one symbol to the price source used to value it
type stock struct {
	Symbol      string
	PriceSource l1_service.PriceSource
}

func (s stock) currentPrice(ctx context.Context) (decimal.Decimal, error) {
	return s.PriceSource.GetCurrentPrice(ctx, s.Symbol)
}

// Portfolio is a set of holdings sized from an initial cash amount and
// target allocation. It is not safe for concurrent use
type Portfolio struct {
	ID uuid.UUID

	totalInvestment decimal.Decimal
	allocations     domain.Allocations
	holdings        domain.Holdings
	stocks          map[string]stock
	// tracked symbols in the order they were first seen
	symbols     []string
	priceSource l1_service.PriceSource
}

// NewPortfolio buys into targetAllocations with totalInvestment at the
// current price of each symbol. Either every symbol is priced and the
// portfolio is returned, or nothing is
func NewPortfolio(
	ctx context.Context,
	priceSource l1_service.PriceSource,
	totalInvestment decimal.Decimal,
	targetAllocations domain.Allocations,
) (*Portfolio, error) {
	if !totalInvestment.IsPositive() {
		return nil, &domain.InvalidInvestmentError{Amount: totalInvestment}
	}
	allocations, err := targetAllocations.Normalize()
	if err != nil {
		return nil, err
	}

	p := &Portfolio{
		ID:              uuid.New(),
		totalInvestment: totalInvestment,
		allocations:     allocations,
		holdings:        domain.Holdings{},
		stocks:          map[string]stock{},
		symbols:         []string{},
		priceSource:     priceSource,
	}

	for _, alloc := range allocations {
		s := p.newStock(alloc.Symbol)

		price, err := s.currentPrice(ctx)
		if err != nil {
			return nil, err
		}

		targetValue := totalInvestment.Mul(decimal.NewFromFloat(alloc.Weight))
		p.track(s, targetValue.Div(price))
	}

	logger.FromContext(ctx).Infow(
		"created portfolio",
		"portfolioID", p.ID.String(),
		"totalInvestment", totalInvestment.String(),
		"allocations", allocations.ToMap(),
	)

	return p, nil
}

func (p *Portfolio) newStock(symbol string) stock {
	return stock{
		Symbol:      symbol,
		PriceSource: p.priceSource,
	}
}

func (p *Portfolio) track(s stock, quantity decimal.Decimal) {
	if _, ok := p.stocks[s.Symbol]; !ok {
		p.symbols = append(p.symbols, s.Symbol)
	}
	p.stocks[s.Symbol] = s
	p.holdings[s.Symbol] = quantity
}

func (p *Portfolio) TotalInvestment() decimal.Decimal {
	return p.totalInvestment
}

// Allocations returns the allocation the portfolio was created with
func (p *Portfolio) Allocations() domain.Allocations {
	out := make(domain.Allocations, len(p.allocations))
	copy(out, p.allocations)
	return out
}

func (p *Portfolio) Holdings() domain.Holdings {
	return p.holdings.DeepCopy()
}

func (p *Portfolio) Symbols() []string {
	out := make([]string, len(p.symbols))
	copy(out, p.symbols)
	return out
}

func (p *Portfolio) currentPrices(ctx context.Context) (map[string]decimal.Decimal, error) {
	priceMap := map[string]decimal.Decimal{}
	for _, symbol := range p.symbols {
		price, err := p.stocks[symbol].currentPrice(ctx)
		if err != nil {
			return nil, err
		}
		priceMap[symbol] = price
	}
	return priceMap, nil
}

// GetPortfolioValue prices every tracked symbol fresh and sums
// shares * price
func (p *Portfolio) GetPortfolioValue(ctx context.Context) (decimal.Decimal, error) {
	priceMap, err := p.currentPrices(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	return p.holdings.TotalValue(priceMap)
}

// GetCurrentAllocations returns each symbol's share of the current
// portfolio value
func (p *Portfolio) GetCurrentAllocations(ctx context.Context) (map[string]float64, error) {
	totalValue, err := p.GetPortfolioValue(ctx)
	if err != nil {
		return nil, err
	}
	if totalValue.IsZero() {
		return nil, &domain.DegenerateValueError{}
	}

	// prices are fetched again, so fractions may not sum to exactly 1
	// if the market moved in between
	priceMap, err := p.currentPrices(ctx)
	if err != nil {
		return nil, err
	}

	currentAllocations := map[string]float64{}
	for _, symbol := range p.symbols {
		stockValue := p.holdings[symbol].Mul(priceMap[symbol])
		currentAllocations[symbol] = stockValue.Div(totalValue).InexactFloat64()
	}

	return currentAllocations, nil
}

// Rebalance works out how much of each symbol to sell or buy for the
// portfolio to match targetAllocations at current prices. Holdings are
// not changed. Symbols new to the portfolio are priced even though they
// hold nothing, so an unpriceable symbol fails here instead of later,
// and are tracked with zero shares once the call succeeds
func (p *Portfolio) Rebalance(ctx context.Context, targetAllocations domain.Allocations) (*domain.RebalanceResult, error) {
	log := logger.FromContext(ctx)

	allocations, err := targetAllocations.Normalize()
	if err != nil {
		return nil, err
	}

	currentPortfolioValue, err := p.GetPortfolioValue(ctx)
	if err != nil {
		return nil, err
	}

	result := domain.NewRebalanceResult()
	result.CurrentValue = currentPortfolioValue
	newStocks := []stock{}

	for _, alloc := range allocations {
		s, ok := p.stocks[alloc.Symbol]
		if !ok {
			s = p.newStock(alloc.Symbol)
			newStocks = append(newStocks, s)
		}

		aimingValue := currentPortfolioValue.Mul(decimal.NewFromFloat(alloc.Weight))
		currentPrice, err := s.currentPrice(ctx)
		if err != nil {
			return nil, err
		}
		// zero for symbols not yet held
		currentShares := p.holdings[alloc.Symbol]
		currentValue := currentShares.Mul(currentPrice)

		difference := aimingValue.Sub(currentValue)
		if difference.LessThan(RebalanceThreshold.Neg()) {
			result.ToSell[alloc.Symbol] = difference.Abs()
		} else if difference.GreaterThan(RebalanceThreshold) {
			result.ToBuy[alloc.Symbol] = difference
		} else {
			continue
		}

		result.ProposedTrades = append(result.ProposedTrades, domain.ProposedTrade{
			Symbol:        alloc.Symbol,
			ExactQuantity: difference.Div(currentPrice),
			ExpectedPrice: currentPrice,
		})
	}

	for _, s := range newStocks {
		p.track(s, decimal.Zero)
	}

	log.Infow(
		"computed rebalance",
		"portfolioID", p.ID.String(),
		"currentValue", currentPortfolioValue.String(),
		"numToSell", len(result.ToSell),
		"numToBuy", len(result.ToBuy),
	)

	return result, nil
}
