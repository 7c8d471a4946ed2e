// Package config loads the YAML run configuration consumed by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"equityflow/analysis"
	"equityflow/cost"
	"equityflow/num"
	"equityflow/types"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Series   SeriesConfig   `yaml:"series"`
	Costs    CostsConfig    `yaml:"costs"`
	Returns  ReturnsConfig  `yaml:"returns"`
	Output   OutputConfig   `yaml:"output"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// SeriesConfig selects the bar history to load.
type SeriesConfig struct {
	Ticker   string    `yaml:"ticker"`
	Interval string    `yaml:"interval"`
	Start    time.Time `yaml:"start"`
	End      time.Time `yaml:"end"`
	// Precision of the numeric context; 0 uses the default.
	Precision int32 `yaml:"precision"`
}

// CostsConfig holds the fee parameters as decimal literals. Empty fields
// mean free.
type CostsConfig struct {
	FeePerTrade        string `yaml:"fee_per_trade"`
	InitialFee         string `yaml:"initial_fee"`
	BorrowFeePerPeriod string `yaml:"borrow_fee_per_period"`
}

type ReturnsConfig struct {
	// Type is "log" or "arithmetic".
	Type string `yaml:"type"`
}

type OutputConfig struct {
	Path string `yaml:"path"`
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return errors.New("database.url is required")
	}
	if c.Series.Ticker == "" {
		return errors.New("series.ticker is required")
	}
	if _, ok := types.ConvertInterval[c.Series.Interval]; !ok {
		return fmt.Errorf("series.interval: unknown interval %q", c.Series.Interval)
	}
	if !c.Series.End.After(c.Series.Start) {
		return errors.New("series.end must be after series.start")
	}
	if _, err := c.Costs.TransactionModel(); err != nil {
		return err
	}
	if _, err := c.Costs.HoldingModel(); err != nil {
		return err
	}
	if c.Returns.Type != "" {
		if _, err := analysis.ParseReturnType(c.Returns.Type); err != nil {
			return fmt.Errorf("returns.type: %w", err)
		}
	}
	return nil
}

// Interval returns the parsed series interval.
func (c *Config) Interval() types.Interval {
	return types.ConvertInterval[c.Series.Interval]
}

// NumContext returns the numeric context the run computes in.
func (c *Config) NumContext() num.Context {
	return num.NewContext(c.Series.Precision)
}

// ReturnType returns the configured return convention, defaulting to log.
func (c *Config) ReturnType() (analysis.ReturnType, error) {
	if c.Returns.Type == "" {
		return analysis.LogReturn, nil
	}
	return analysis.ParseReturnType(c.Returns.Type)
}

// TransactionModel builds the per-order cost model from the fee parameters.
func (c CostsConfig) TransactionModel() (types.CostModel, error) {
	if c.FeePerTrade == "" && c.InitialFee == "" {
		return cost.NewZeroCostModel(), nil
	}
	fee, err := parseFee("costs.fee_per_trade", c.FeePerTrade)
	if err != nil {
		return nil, err
	}
	initial, err := parseFee("costs.initial_fee", c.InitialFee)
	if err != nil {
		return nil, err
	}
	return cost.NewLinearTransactionCostModelWithInitialFee(fee, initial), nil
}

// HoldingModel builds the short-position holding cost model.
func (c CostsConfig) HoldingModel() (types.CostModel, error) {
	if c.BorrowFeePerPeriod == "" {
		return cost.NewZeroCostModel(), nil
	}
	fee, err := parseFee("costs.borrow_fee_per_period", c.BorrowFeePerPeriod)
	if err != nil {
		return nil, err
	}
	return cost.NewLinearBorrowingCostModel(fee), nil
}

func parseFee(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	fee, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", field, err)
	}
	if fee.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s: must not be negative", field)
	}
	return fee, nil
}
