package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"rebalancer/internal/config"
	"rebalancer/internal/domain"
	"rebalancer/internal/logger"
	l1_service "rebalancer/internal/service/l1"
	l2_service "rebalancer/internal/service/l2"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type rebalanceOptions struct {
	spend           float64
	allocations     []string
	allocationsFile string
	targets         []string
	targetsFile     string
	provider        string
}

type startingState struct {
	PortfolioID     string             `json:"portfolioId"`
	TotalInvestment decimal.Decimal    `json:"totalInvestment"`
	Allocations     map[string]float64 `json:"allocations"`
	Holdings        domain.Holdings    `json:"holdings"`
}

type rebalanceOutput struct {
	Start     startingState           `json:"start"`
	Target    map[string]float64      `json:"target"`
	Rebalance *domain.RebalanceResult `json:"rebalance"`
}

// NewRootCommand builds a portfolio from --spend and --allocation, then
// prints what it would take to move it to --target
func NewRootCommand() *cobra.Command {
	opts := rebalanceOptions{}

	command := &cobra.Command{
		Use:          "rebalancer",
		Short:        "Size a portfolio from cash and compute the trades to reach a new allocation",
		SilenceUsage: true,
		RunE: func(command *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.provider)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			priceSource, err := InitializeDependencies(cfg)
			if err != nil {
				return err
			}

			return runRebalance(command, priceSource, opts)
		},
	}

	command.Flags().Float64Var(&opts.spend, "spend", 10000, "cash to invest")
	command.Flags().StringArrayVar(&opts.allocations, "allocation", nil, "initial allocation as SYMBOL=WEIGHT, repeatable")
	command.Flags().StringVar(&opts.allocationsFile, "allocations-file", "", "csv file of initial allocations (symbol,weight)")
	command.Flags().StringArrayVar(&opts.targets, "target", nil, "target allocation as SYMBOL=WEIGHT, repeatable")
	command.Flags().StringVar(&opts.targetsFile, "target-file", "", "csv file of target allocations (symbol,weight)")
	command.Flags().StringVar(&opts.provider, "provider", "", "price provider: finnhub, alpaca or yahoo")

	return command
}

func runRebalance(command *cobra.Command, priceSource l1_service.PriceSource, opts rebalanceOptions) error {
	log := logger.New()
	ctx := logger.NewContext(command.Context(), log)

	allocations, err := loadAllocations(opts.allocations, opts.allocationsFile)
	if err != nil {
		return err
	}
	targets, err := loadAllocations(opts.targets, opts.targetsFile)
	if err != nil {
		return err
	}

	spend, err := investmentFromFloat(opts.spend)
	if err != nil {
		return err
	}

	portfolio, err := l2_service.NewPortfolio(ctx, priceSource, spend, allocations)
	if err != nil {
		return fmt.Errorf("failed to create portfolio: %w", err)
	}

	out := rebalanceOutput{
		Start: startingState{
			PortfolioID:     portfolio.ID.String(),
			TotalInvestment: portfolio.TotalInvestment(),
			Allocations:     portfolio.Allocations().ToMap(),
			Holdings:        portfolio.Holdings(),
		},
		Target: targets.ToMap(),
	}

	if len(targets) > 0 {
		out.Rebalance, err = portfolio.Rebalance(ctx, targets)
		if err != nil {
			return fmt.Errorf("failed to rebalance: %w", err)
		}
	}

	return pprint(command.OutOrStdout(), out)
}

// investmentFromFloat converts --spend. decimal.NewFromFloat panics on
// NaN and Inf, so those are rejected here; sign checks stay with the
// portfolio
func investmentFromFloat(spend float64) (decimal.Decimal, error) {
	if math.IsNaN(spend) || math.IsInf(spend, 0) {
		return decimal.Zero, &domain.InvalidInvestmentError{
			Reason: fmt.Sprintf("spend must be a finite number, got %v", spend),
		}
	}
	return decimal.NewFromFloat(spend), nil
}

func pprint(w io.Writer, i interface{}) error {
	bytes, err := json.MarshalIndent(i, "", "    ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(bytes))
	return err
}
