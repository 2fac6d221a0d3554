package cmd

import (
	"fmt"
	integration_tests "rebalancer/integration-tests"
	"rebalancer/internal/config"
	"rebalancer/internal/repository"
	l1_service "rebalancer/internal/service/l1"
)

// UseMockQuotes swaps the market data provider for fixed test prices
var UseMockQuotes = false

func NewQuoteRepository(cfg *config.Config) (repository.QuoteRepository, error) {
	if cfg.Env == "test" || UseMockQuotes {
		return integration_tests.NewMockQuoteRepositoryForTests(), nil
	}

	switch cfg.PriceProvider {
	case config.ProviderFinnhub:
		return repository.NewFinnhubRepository(cfg.Secrets.Finnhub.ApiKey), nil
	case config.ProviderAlpaca:
		return repository.NewAlpacaRepository(
			cfg.Secrets.Alpaca.ApiKey,
			cfg.Secrets.Alpaca.ApiSecret,
			cfg.Secrets.Alpaca.Endpoint,
		), nil
	case config.ProviderYahoo:
		return repository.NewYahooRepository(), nil
	}

	return nil, fmt.Errorf("unknown price provider %q", cfg.PriceProvider)
}

func InitializeDependencies(cfg *config.Config) (l1_service.PriceSource, error) {
	quoteRepository, err := NewQuoteRepository(cfg)
	if err != nil {
		return nil, err
	}

	return l1_service.NewPriceService(quoteRepository, cfg.PriceTimeout), nil
}
