package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderFinnhub = "finnhub"
	ProviderAlpaca  = "alpaca"
	ProviderYahoo   = "yahoo"
)

type Secrets struct {
	Finnhub struct {
		ApiKey string `json:"apiKey"`
	} `json:"finnhub"`
	Alpaca struct {
		ApiKey    string `json:"apiKey"`
		ApiSecret string `json:"apiSecret"`
		Endpoint  string `json:"endpoint"`
	} `json:"alpaca"`
}

type Config struct {
	Env           string
	PriceProvider string
	PriceTimeout  time.Duration
	Secrets       Secrets
}

// Load reads .env if present, then the environment, then fills any
// credential still missing from the secrets file for ALPHA_ENV. A
// non-empty providerOverride takes precedence over PRICE_PROVIDER
func Load(providerOverride string) (*Config, error) {
	_ = godotenv.Load()
	return load(os.Getenv, providerOverride)
}

func load(getenv func(string) string, providerOverride string) (*Config, error) {
	cfg := &Config{
		Env:           strings.ToLower(getenv("ALPHA_ENV")),
		PriceProvider: strings.ToLower(getEnv(getenv, "PRICE_PROVIDER", ProviderFinnhub)),
		PriceTimeout:  10 * time.Second,
	}
	if providerOverride != "" {
		cfg.PriceProvider = strings.ToLower(providerOverride)
	}

	if v := getenv("PRICE_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PRICE_TIMEOUT %q: %w", v, err)
		}
		cfg.PriceTimeout = timeout
	}

	cfg.Secrets.Finnhub.ApiKey = getenv("FINNHUB_API_KEY")
	cfg.Secrets.Alpaca.ApiKey = getenv("ALPACA_API_KEY")
	cfg.Secrets.Alpaca.ApiSecret = getenv("ALPACA_API_SECRET")
	cfg.Secrets.Alpaca.Endpoint = getenv("ALPACA_ENDPOINT")

	if secretsFile := secretsFileFor(cfg.Env, getenv("SECRETS_FILE")); secretsFile != "" {
		fileSecrets, err := LoadSecrets(secretsFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		if fileSecrets != nil {
			cfg.Secrets.fillFrom(*fileSecrets)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func secretsFileFor(env, override string) string {
	if override != "" {
		return override
	}
	switch env {
	case "dev":
		return "secrets-dev.json"
	case "test":
		return "secrets-test.json"
	}
	return ""
}

func LoadSecrets(secretsFile string) (*Secrets, error) {
	f, err := os.ReadFile(secretsFile)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", secretsFile, err)
	}

	secrets := Secrets{}
	err = json.Unmarshal(f, &secrets)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", secretsFile, err)
	}

	return &secrets, nil
}

func (s *Secrets) fillFrom(other Secrets) {
	if s.Finnhub.ApiKey == "" {
		s.Finnhub.ApiKey = other.Finnhub.ApiKey
	}
	if s.Alpaca.ApiKey == "" {
		s.Alpaca.ApiKey = other.Alpaca.ApiKey
	}
	if s.Alpaca.ApiSecret == "" {
		s.Alpaca.ApiSecret = other.Alpaca.ApiSecret
	}
	if s.Alpaca.Endpoint == "" {
		s.Alpaca.Endpoint = other.Alpaca.Endpoint
	}
}

// Validate checks the selected provider has what it needs
func (c *Config) Validate() error {
	if c.PriceTimeout < 0 {
		return fmt.Errorf("PRICE_TIMEOUT must not be negative, got %s", c.PriceTimeout)
	}

	switch c.PriceProvider {
	case ProviderFinnhub:
		if c.Secrets.Finnhub.ApiKey == "" {
			return fmt.Errorf("FINNHUB_API_KEY not found in environment variables. Create a .env file with your API key")
		}
	case ProviderAlpaca:
		if c.Secrets.Alpaca.ApiKey == "" || c.Secrets.Alpaca.ApiSecret == "" {
			return fmt.Errorf("ALPACA_API_KEY and ALPACA_API_SECRET are required for the alpaca price provider")
		}
	case ProviderYahoo:
	default:
		return fmt.Errorf("unknown PRICE_PROVIDER %q", c.PriceProvider)
	}

	return nil
}

func getEnv(getenv func(string) string, key, defaultValue string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return defaultValue
}
