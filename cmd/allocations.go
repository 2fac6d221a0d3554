package cmd

import (
	"fmt"
	"io"
	"os"
	"rebalancer/internal/domain"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
)

type allocationRow struct {
	Symbol string  `csv:"symbol"`
	Weight float64 `csv:"weight"`
}

// ParseAllocationFlags turns ["META=0.4", "AAPL=0.6"] into an allocation
// set, keeping flag order
func ParseAllocationFlags(in []string) (domain.Allocations, error) {
	out := domain.Allocations{}
	for _, s := range in {
		parts := strings.SplitN(s, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid allocation %q, expected SYMBOL=WEIGHT", s)
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight in %q: %w", s, err)
		}
		out = append(out, domain.Allocation{
			Symbol: parts[0],
			Weight: weight,
		})
	}
	return out, nil
}

// ReadAllocationsCsv reads a "symbol,weight" csv, keeping row order
func ReadAllocationsCsv(r io.Reader) (domain.Allocations, error) {
	rows := []allocationRow{}
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse allocations csv: %w", err)
	}

	out := domain.Allocations{}
	for _, row := range rows {
		out = append(out, domain.Allocation{
			Symbol: row.Symbol,
			Weight: row.Weight,
		})
	}
	return out, nil
}

func loadAllocations(flags []string, file string) (domain.Allocations, error) {
	if file == "" {
		return ParseAllocationFlags(flags)
	}
	if len(flags) > 0 {
		return nil, fmt.Errorf("pass allocations as flags or as a file, not both")
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadAllocationsCsv(f)
}
