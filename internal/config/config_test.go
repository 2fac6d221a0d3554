package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fakeEnv(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func Test_load(t *testing.T) {
	t.Run("defaults to finnhub", func(t *testing.T) {
		cfg, err := load(fakeEnv(map[string]string{
			"FINNHUB_API_KEY": "abc",
		}), "")
		require.NoError(t, err)
		require.Equal(t, ProviderFinnhub, cfg.PriceProvider)
		require.Equal(t, 10*time.Second, cfg.PriceTimeout)
		require.Equal(t, "abc", cfg.Secrets.Finnhub.ApiKey)
	})

	t.Run("missing finnhub key", func(t *testing.T) {
		_, err := load(fakeEnv(map[string]string{}), "")
		require.Error(t, err)
	})

	t.Run("yahoo needs no credentials", func(t *testing.T) {
		cfg, err := load(fakeEnv(map[string]string{
			"PRICE_PROVIDER": "Yahoo",
			"PRICE_TIMEOUT":  "2s",
		}), "")
		require.NoError(t, err)
		require.Equal(t, ProviderYahoo, cfg.PriceProvider)
		require.Equal(t, 2*time.Second, cfg.PriceTimeout)
	})

	t.Run("bad timeout", func(t *testing.T) {
		_, err := load(fakeEnv(map[string]string{
			"PRICE_PROVIDER": "yahoo",
			"PRICE_TIMEOUT":  "soon",
		}), "")
		require.Error(t, err)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := load(fakeEnv(map[string]string{
			"PRICE_PROVIDER": "bloomberg",
		}), "")
		require.EqualError(t, err, `unknown PRICE_PROVIDER "bloomberg"`)
	})

	t.Run("secrets file fills missing credentials", func(t *testing.T) {
		secretsFile := filepath.Join(t.TempDir(), "secrets.json")
		err := os.WriteFile(secretsFile, []byte(`{"alpaca":{"apiKey":"file-key","apiSecret":"file-secret"}}`), 0600)
		require.NoError(t, err)

		cfg, err := load(fakeEnv(map[string]string{
			"PRICE_PROVIDER": "alpaca",
			"ALPACA_API_KEY": "env-key",
			"SECRETS_FILE":   secretsFile,
		}), "")
		require.NoError(t, err)
		require.Equal(t, "env-key", cfg.Secrets.Alpaca.ApiKey)
		require.Equal(t, "file-secret", cfg.Secrets.Alpaca.ApiSecret)
	})

	t.Run("provider override wins over environment", func(t *testing.T) {
		cfg, err := load(fakeEnv(map[string]string{
			"PRICE_PROVIDER": "finnhub",
		}), "Yahoo")
		require.NoError(t, err)
		require.Equal(t, ProviderYahoo, cfg.PriceProvider)
	})

	t.Run("provider override is validated", func(t *testing.T) {
		_, err := load(fakeEnv(map[string]string{
			"PRICE_PROVIDER": "yahoo",
		}), "alpaca")
		require.EqualError(t, err, "ALPACA_API_KEY and ALPACA_API_SECRET are required for the alpaca price provider")
	})

	t.Run("missing secrets file is ignored", func(t *testing.T) {
		_, err := load(fakeEnv(map[string]string{
			"PRICE_PROVIDER": "yahoo",
			"SECRETS_FILE":   filepath.Join(t.TempDir(), "nope.json"),
		}), "")
		require.NoError(t, err)
	})
}
