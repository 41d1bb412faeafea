// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"stock-analyst/internal/models"
)

// DataStore defines the interface for data persistence.
type DataStore interface {
	// Stocks
	UpsertStock(ctx context.Context, info models.StockInfo) error
	GetStocks(ctx context.Context) ([]models.StockInfo, error)

	// Fundamentals
	SaveFundamentals(ctx context.Context, symbol string, records []models.FundamentalRecord) error
	GetFundamentals(ctx context.Context, symbol string, quarters int) ([]models.FundamentalRecord, error)

	// Prices
	SavePrices(ctx context.Context, symbol string, prices []models.PricePoint) error
	GetPrices(ctx context.Context, symbol string, from, to time.Time) ([]models.PricePoint, error)

	// Analysis results. ReplaceAnalysisResults clears the previous run so
	// each symbol carries exactly one row per analysis run.
	SaveAnalysisResult(ctx context.Context, result models.AnalysisResult) error
	ReplaceAnalysisResults(ctx context.Context, results []models.AnalysisResult) error
	GetAnalysisResults(ctx context.Context) ([]models.AnalysisResult, error)

	// Reset drops all data and recreates the schema.
	Reset(ctx context.Context) error

	Close() error
}
