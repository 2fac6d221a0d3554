package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type staticAlpacaClient struct {
	quotes map[string]marketdata.Quote
	err    error
}

func (c staticAlpacaClient) GetLatestQuotes(symbols []string, req marketdata.GetLatestQuoteRequest) (map[string]marketdata.Quote, error) {
	return c.quotes, c.err
}

func Test_alpacaRepositoryHandler_GetLatestPrice(t *testing.T) {
	ts := time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)

	t.Run("uses bid price", func(t *testing.T) {
		handler := alpacaRepositoryHandler{
			MdClient: staticAlpacaClient{
				quotes: map[string]marketdata.Quote{
					"META": {BidPrice: 272.87, AskPrice: 273.1, Timestamp: ts},
				},
			},
		}

		price, err := handler.GetLatestPrice(context.Background(), "META")
		require.NoError(t, err)
		require.True(t, decimal.NewFromFloat(272.87).Equal(price.Price))
		require.Equal(t, ts, price.Date)
	})

	t.Run("zero bid price", func(t *testing.T) {
		handler := alpacaRepositoryHandler{
			MdClient: staticAlpacaClient{
				quotes: map[string]marketdata.Quote{
					"META": {BidPrice: 0, Timestamp: ts},
				},
			},
		}

		_, err := handler.GetLatestPrice(context.Background(), "META")
		require.EqualError(t, err, "failed to get price for META: got 0 price")
	})

	t.Run("symbol missing from response", func(t *testing.T) {
		handler := alpacaRepositoryHandler{
			MdClient: staticAlpacaClient{
				quotes: map[string]marketdata.Quote{},
			},
		}

		_, err := handler.GetLatestPrice(context.Background(), "META")
		require.Error(t, err)
	})

	t.Run("client error", func(t *testing.T) {
		clientErr := errors.New("forbidden")
		handler := alpacaRepositoryHandler{
			MdClient: staticAlpacaClient{err: clientErr},
		}

		_, err := handler.GetLatestPrice(context.Background(), "META")
		require.ErrorIs(t, err, clientErr)
	})
}
