// Package config loads service settings from the environment and an optional
// .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dvloznov/finance-dashboard/internal/advisor"
	"github.com/dvloznov/finance-dashboard/internal/dashboard"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/recurring"
	"github.com/dvloznov/finance-dashboard/internal/valuation"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Config holds application configuration
type Config struct {
	Port     int
	LogLevel zerolog.Level

	GeminiAPIKey string
	GeminiModel  string

	CurrencyTableURI         string
	NetWorthFallbackBaseline decimal.Decimal
	TaxRate                  decimal.Decimal

	BigQueryProject string
	BigQueryDataset string

	RecurringSchedule string
	SeedDemoData      bool
}

// AdvisorEnabled reports whether an API key was supplied.
func (c *Config) AdvisorEnabled() bool {
	return c.GeminiAPIKey != ""
}

// Load reads configuration from environment variables. A .env file in the
// working directory is applied first without overriding the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var errs []string
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	cfg := &Config{
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", advisor.DefaultModel),
		CurrencyTableURI:  getEnv("CURRENCY_TABLE_URI", ""),
		BigQueryProject:   getEnv("BIGQUERY_PROJECT", ""),
		BigQueryDataset:   getEnv("BIGQUERY_DATASET", "finance"),
		RecurringSchedule: getEnv("RECURRING_SCHEDULE", recurring.DefaultSchedule),
	}

	var err error
	cfg.Port, err = getEnvAsInt("PORT", 8080)
	collect(err)
	cfg.SeedDemoData, err = getEnvAsBool("SEED_DEMO_DATA", true)
	collect(err)
	cfg.NetWorthFallbackBaseline, err = getEnvAsDecimal("NET_WORTH_FALLBACK_BASELINE", decimal.NewFromInt(valuation.DefaultFallbackBaseline))
	collect(err)
	cfg.TaxRate, err = getEnvAsDecimal("TAX_RATE", dashboard.DefaultTaxRate)
	collect(err)

	level := getEnv("LOG_LEVEL", "info")
	cfg.LogLevel, err = zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		collect(&domain.ConfigurationError{Key: "LOG_LEVEL", Reason: fmt.Sprintf("unknown level %q", level)})
	}

	collect(cfg.Validate())

	if len(errs) > 0 {
		return nil, fmt.Errorf("config.Load: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// Validate checks ranges that parsing alone cannot.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return &domain.ConfigurationError{Key: "PORT", Reason: "must be between 1 and 65535"}
	}
	if c.TaxRate.IsNegative() || c.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return &domain.ConfigurationError{Key: "TAX_RATE", Reason: "must be between 0 and 1"}
	}
	if c.BigQueryProject != "" && c.BigQueryDataset == "" {
		return &domain.ConfigurationError{Key: "BIGQUERY_DATASET", Reason: "is required when BIGQUERY_PROJECT is set"}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue, &domain.ConfigurationError{Key: key, Reason: fmt.Sprintf("not an integer: %q", value)}
	}
	return n, nil
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue, &domain.ConfigurationError{Key: key, Reason: fmt.Sprintf("not a boolean: %q", value)}
	}
	return b, nil
}

func getEnvAsDecimal(key string, defaultValue decimal.Decimal) (decimal.Decimal, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return defaultValue, &domain.ConfigurationError{Key: key, Reason: fmt.Sprintf("not a number: %q", value)}
	}
	return d, nil
}
