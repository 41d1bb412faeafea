// Package collector fetches stock data from Yahoo Finance: company info,
// quarterly fundamentals, daily price history with moving averages, and the
// current market price.
package collector

import (
	"context"
	"strings"

	"stock-analyst/internal/errors"
	"stock-analyst/internal/models"
)

// Collector retrieves market and fundamental data for a symbol.
type Collector interface {
	// GetStockInfo returns basic company information.
	GetStockInfo(ctx context.Context, symbol string) (models.StockInfo, error)

	// GetFundamentals returns up to the requested number of most recent
	// quarters, newest first.
	GetFundamentals(ctx context.Context, symbol string, quarters int) ([]models.FundamentalRecord, error)

	// GetPrices returns daily price history covering the given number of
	// years, oldest first, with trailing moving averages attached. Rows
	// before the 200-day average becomes available are dropped.
	GetPrices(ctx context.Context, symbol string, years int) ([]models.PricePoint, error)

	// GetCurrentPrice returns the latest market price, nil when unavailable.
	GetCurrentPrice(ctx context.Context, symbol string) (*float64, error)

	// CollectAll fetches info, fundamentals, prices and the current price
	// for a symbol in one pass.
	CollectAll(ctx context.Context, symbol string, quarters, priceYears int) (StockBundle, error)
}

// StockBundle carries everything collected for one symbol in one pass.
type StockBundle struct {
	Info         models.StockInfo
	Fundamentals []models.FundamentalRecord
	Prices       []models.PricePoint
	CurrentPrice *float64
}

// ValidateSymbol checks that a ticker symbol is at most five alphabetic
// characters. The returned symbol is uppercased.
func ValidateSymbol(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return "", errors.Wrap(errors.ErrInvalidSymbol, "empty symbol")
	}
	if len(s) > 5 {
		return "", errors.Wrapf(errors.ErrInvalidSymbol, "%s: longer than 5 characters", s)
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return "", errors.Wrapf(errors.ErrInvalidSymbol, "%s: not alphabetic", s)
		}
	}
	return s, nil
}

// ParseSymbols splits a comma-separated symbol list, uppercases each entry,
// and drops invalid or duplicate entries. The skipped slice reports what was
// rejected.
func ParseSymbols(input string) (valid []string, skipped []string) {
	seen := make(map[string]bool)
	for _, raw := range strings.Split(input, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		s, err := ValidateSymbol(raw)
		if err != nil {
			skipped = append(skipped, strings.ToUpper(raw))
			continue
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		valid = append(valid, s)
	}
	return valid, skipped
}
