package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var errMissingFromPriceMap = errors.New("missing from price map")

type AllocationSumError struct {
	Sum decimal.Decimal
}

func (e *AllocationSumError) Error() string {
	return fmt.Sprintf("allocations must sum to 1.0, got %s", e.Sum.StringFixed(3))
}

type InvalidAllocationError struct {
	Symbol string
	Reason string
}

func (e *InvalidAllocationError) Error() string {
	return fmt.Sprintf("invalid allocation for %q: %s", e.Symbol, e.Reason)
}

// InvalidInvestmentError rejects a total investment. Reason is set when
// the amount could not be represented at all, e.g. NaN
type InvalidInvestmentError struct {
	Amount decimal.Decimal
	Reason string
}

func (e *InvalidInvestmentError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid total investment: %s", e.Reason)
	}
	return fmt.Sprintf("total investment must be positive, got %s", e.Amount.String())
}

// PriceUnavailableError means no usable quote exists for a symbol. Err
// carries the provider-side cause when there is one
type PriceUnavailableError struct {
	Symbol string
	Err    error
}

func (e *PriceUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("price unavailable for %s", e.Symbol)
	}
	return fmt.Sprintf("price unavailable for %s: %s", e.Symbol, e.Err.Error())
}

func (e *PriceUnavailableError) Unwrap() error {
	return e.Err
}

// DegenerateValueError is returned when allocation fractions are asked of
// a portfolio worth nothing
type DegenerateValueError struct{}

func (e *DegenerateValueError) Error() string {
	return "cannot compute allocations: portfolio total value is zero"
}
