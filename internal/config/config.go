package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/bankfeed-dev/bankfeed/internal/model"
)

// FileName is the workspace configuration file.
const FileName = "bankfeed.yaml"

// Config represents the top-level bankfeed.yaml configuration.
type Config struct {
	InputDir       string            `yaml:"input_dir"`
	DataDir        string            `yaml:"data_dir"`
	TargetCurrency string            `yaml:"target_currency"`
	Accounts       []AccountConfig   `yaml:"accounts,omitempty"`
	Rates          map[string]string `yaml:"rates,omitempty"` // units of target per unit of currency
}

// AccountConfig holds per-institution settings.
type AccountConfig struct {
	Account string `yaml:"account"`
	Format  string `yaml:"format,omitempty"` // explicit parser hint, overrides schema matching

	// AnchorBalance is the trusted end-of-day balance on the most
	// recent statement day, used to reconstruct history for sources
	// that report no running balance. Kept as a string so the value
	// stays exact.
	AnchorBalance string `yaml:"anchor_balance,omitempty"`
}

// Load reads a bankfeed.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace.
func Default() *Config {
	return &Config{
		InputDir:       "input",
		DataDir:        "data",
		TargetCurrency: string(model.CurrencyPLN),
		Accounts: []AccountConfig{
			{Account: string(model.AccountPekao24), Format: "pekao24"},
			{Account: string(model.AccountRevolut), Format: "revolut"},
		},
	}
}

// AccountFor returns the settings for an account, or nil.
func (c *Config) AccountFor(account model.Account) *AccountConfig {
	for i := range c.Accounts {
		if c.Accounts[i].Account == string(account) {
			return &c.Accounts[i]
		}
	}
	return nil
}

// Anchor parses the configured anchor balance for an account.
// ok is false when no anchor is configured.
func (c *Config) Anchor(account model.Account) (decimal.Decimal, bool, error) {
	ac := c.AccountFor(account)
	if ac == nil || ac.AnchorBalance == "" {
		return decimal.Decimal{}, false, nil
	}
	d, err := decimal.NewFromString(ac.AnchorBalance)
	if err != nil {
		return decimal.Decimal{}, false, fmt.Errorf("parsing anchor_balance for %s: %w", account, err)
	}
	return d, true, nil
}

// ParsedRates converts the configured rates into decimals keyed by
// currency.
func (c *Config) ParsedRates() (map[model.Currency]decimal.Decimal, error) {
	rates := make(map[model.Currency]decimal.Decimal, len(c.Rates))
	for code, value := range c.Rates {
		currency, err := model.ParseCurrency(code)
		if err != nil {
			return nil, fmt.Errorf("rates: %w", err)
		}
		d, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("parsing rate for %s: %w", code, err)
		}
		rates[currency] = d
	}
	return rates, nil
}
