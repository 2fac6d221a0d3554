package domain

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// AllocationTolerance is how far the sum of an allocation set may drift
// from 1.0 before it is rejected
var AllocationTolerance = decimal.NewFromFloat(0.001)

// NormalizeSymbol trims and upper-cases a ticker so "meta" and "META"
// refer to the same asset
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

type Allocation struct {
	Symbol string
	Weight float64
}

// Allocations is an ordered set of target weights. Order is whatever
// the caller supplied and is what rebalancing iterates over
type Allocations []Allocation

// AllocationsFromMap builds an allocation set from a plain map. Go maps
// have no order, so symbols are sorted to keep iteration deterministic
func AllocationsFromMap(in map[string]float64) Allocations {
	symbols := []string{}
	for symbol := range in {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	out := Allocations{}
	for _, symbol := range symbols {
		out = append(out, Allocation{
			Symbol: symbol,
			Weight: in[symbol],
		})
	}
	return out
}

// Normalize returns a copy with every symbol normalized and the
// whole set validated
func (a Allocations) Normalize() (Allocations, error) {
	out := make(Allocations, 0, len(a))
	seen := map[string]bool{}
	sum := decimal.Zero

	for _, alloc := range a {
		symbol := NormalizeSymbol(alloc.Symbol)
		if symbol == "" {
			return nil, &InvalidAllocationError{Symbol: alloc.Symbol, Reason: "empty symbol"}
		}
		if seen[symbol] {
			return nil, &InvalidAllocationError{Symbol: symbol, Reason: "duplicate symbol"}
		}
		if math.IsNaN(alloc.Weight) || math.IsInf(alloc.Weight, 0) {
			return nil, &InvalidAllocationError{Symbol: symbol, Reason: "weight must be a finite number"}
		}
		if alloc.Weight <= 0 || alloc.Weight > 1 {
			return nil, &InvalidAllocationError{
				Symbol: symbol,
				Reason: "weight must be in (0, 1], got " + strconv.FormatFloat(alloc.Weight, 'f', -1, 64),
			}
		}
		seen[symbol] = true
		sum = sum.Add(decimal.NewFromFloat(alloc.Weight))
		out = append(out, Allocation{
			Symbol: symbol,
			Weight: alloc.Weight,
		})
	}

	if sum.Sub(decimal.NewFromInt(1)).Abs().GreaterThanOrEqual(AllocationTolerance) {
		return nil, &AllocationSumError{Sum: sum}
	}

	return out, nil
}

func (a Allocations) Symbols() []string {
	symbols := []string{}
	for _, alloc := range a {
		symbols = append(symbols, alloc.Symbol)
	}
	return symbols
}

func (a Allocations) ToMap() map[string]float64 {
	out := map[string]float64{}
	for _, alloc := range a {
		out[alloc.Symbol] = alloc.Weight
	}
	return out
}

// Holdings maps symbol to number of shares held
type Holdings map[string]decimal.Decimal

func (h Holdings) DeepCopy() Holdings {
	out := Holdings{}
	for symbol, quantity := range h {
		out[symbol] = quantity
	}
	return out
}

// TotalValue prices every holding with the given price map
func (h Holdings) TotalValue(priceMap map[string]decimal.Decimal) (decimal.Decimal, error) {
	totalValue := decimal.Zero
	for symbol, quantity := range h {
		price, ok := priceMap[symbol]
		if !ok {
			return decimal.Zero, &PriceUnavailableError{Symbol: symbol, Err: errMissingFromPriceMap}
		}
		totalValue = totalValue.Add(quantity.Mul(price))
	}

	return totalValue, nil
}

type ProposedTrade struct {
	Symbol string `json:"symbol"`
	// negative when selling
	ExactQuantity decimal.Decimal `json:"exactQuantity"`
	ExpectedPrice decimal.Decimal `json:"expectedPrice"`
}

func (p ProposedTrade) ExpectedAmount() decimal.Decimal {
	return p.ExactQuantity.Mul(p.ExpectedPrice).Abs()
}

func (p ProposedTrade) IsSell() bool {
	return p.ExactQuantity.IsNegative()
}

// RebalanceResult reports the currency amounts that would need to move
// for the portfolio to match a new allocation. Symbols inside the dead
// zone appear in neither map
type RebalanceResult struct {
	ToSell         map[string]decimal.Decimal `json:"toSell"`
	ToBuy          map[string]decimal.Decimal `json:"toBuy"`
	CurrentValue   decimal.Decimal            `json:"currentValue"`
	ProposedTrades []ProposedTrade            `json:"proposedTrades"`
}

func NewRebalanceResult() *RebalanceResult {
	return &RebalanceResult{
		ToSell:         map[string]decimal.Decimal{},
		ToBuy:          map[string]decimal.Decimal{},
		ProposedTrades: []ProposedTrade{},
	}
}
