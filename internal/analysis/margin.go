package analysis

import (
	"stock-analyst/internal/models"
)

// AvgEBITMargin calculates the arithmetic mean of the EBIT margins reported in
// the supplied quarters, rounded to 2 decimals. Quarters without a margin are
// ignored; no recency weighting is applied. Returns nil when no quarter
// reports a margin.
func AvgEBITMargin(records []models.FundamentalRecord) *float64 {
	var sum float64
	var count int

	for _, r := range records {
		if r.EBITMargin != nil {
			sum += *r.EBITMargin
			count++
		}
	}

	if count == 0 {
		return nil
	}

	avg := round2(sum / float64(count))
	return &avg
}
