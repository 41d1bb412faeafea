// Package analysis provides the scoring and ranking engine: it derives
// fundamental and technical metrics per ticker, combines them into a bounded
// ranking score, and orders a batch of tickers against each other.
//
// The engine is pure: it performs no I/O, holds no state between calls, and
// never raises on missing data. Every derived metric is either a well-defined
// value or explicitly absent (nil), and absent inputs contribute zero to the
// score.
package analysis

import (
	"math"

	"stock-analyst/internal/models"
)

// StockData bundles the externally supplied inputs for one ticker.
type StockData struct {
	Symbol       string
	Fundamentals []models.FundamentalRecord
	Prices       []models.PricePoint
	CurrentPrice *float64
}

// TechnicalSnapshot holds the moving-average view of the most recent session.
// When the price series is empty or the current price is unknown every field
// is nil and MA50Rising is false.
type TechnicalSnapshot struct {
	MA20         *float64
	MA50         *float64
	MA200        *float64
	PriceVsMA20  *float64
	PriceVsMA50  *float64
	PriceVsMA200 *float64
	MA50Rising   bool
}

// round2 rounds to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// round1 rounds to 1 decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
