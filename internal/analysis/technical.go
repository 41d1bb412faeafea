package analysis

import (
	"stock-analyst/internal/models"
)

// AnalyzeTechnicals derives the moving-average snapshot for one ticker from
// its date-ascending price series and the externally supplied current price.
//
// The moving averages are taken from the last element of the series. Each
// price-vs-MA deviation is computed independently and is nil when that MA is
// nil. MA50Rising requires at least 10 sessions with the MA50 present at both
// endpoints; any missing prerequisite yields false.
//
// A fault while reading the series must never abort the batch: it degrades to
// the same all-nil snapshot an empty series produces.
func AnalyzeTechnicals(prices []models.PricePoint, currentPrice *float64) (snap TechnicalSnapshot) {
	if len(prices) == 0 || currentPrice == nil {
		return TechnicalSnapshot{}
	}

	defer func() {
		if r := recover(); r != nil {
			snap = TechnicalSnapshot{}
		}
	}()

	latest := prices[len(prices)-1]
	snap.MA20 = roundPtr(latest.MA20)
	snap.MA50 = roundPtr(latest.MA50)
	snap.MA200 = roundPtr(latest.MA200)

	snap.PriceVsMA20 = deviation(*currentPrice, latest.MA20)
	snap.PriceVsMA50 = deviation(*currentPrice, latest.MA50)
	snap.PriceVsMA200 = deviation(*currentPrice, latest.MA200)

	// MA50 trend over the trailing 10 sessions
	if len(prices) >= 10 && latest.MA50 != nil {
		tenBack := prices[len(prices)-10].MA50
		if tenBack != nil && *latest.MA50 > *tenBack {
			snap.MA50Rising = true
		}
	}

	return snap
}

// deviation returns the percentage deviation of price from ma, or nil when the
// moving average is absent or zero.
func deviation(price float64, ma *float64) *float64 {
	if ma == nil || *ma == 0 {
		return nil
	}
	d := round2((price - *ma) / *ma * 100)
	return &d
}

func roundPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := round2(*v)
	return &r
}
