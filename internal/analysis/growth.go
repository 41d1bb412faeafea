package analysis

import (
	"sort"

	"stock-analyst/internal/models"
)

// RevenueGrowth calculates the quarter-over-quarter revenue growth rate as a
// percentage, rounded to 2 decimals. The input may arrive in any order; it is
// re-sorted by (year, quarter) descending before the two most recent quarters
// with a reported revenue are compared.
//
// Returns nil when fewer than two quarters report revenue, or when the prior
// quarter's revenue is non-positive (growth against a non-positive base is
// undefined).
func RevenueGrowth(records []models.FundamentalRecord) *float64 {
	if len(records) < 2 {
		return nil
	}

	sorted := make([]models.FundamentalRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Year != sorted[j].Year {
			return sorted[i].Year > sorted[j].Year
		}
		return sorted[i].Quarter > sorted[j].Quarter
	})

	var revenues []float64
	for _, r := range sorted {
		if r.Revenue != nil {
			revenues = append(revenues, *r.Revenue)
		}
	}

	if len(revenues) < 2 {
		return nil
	}

	current := revenues[0]
	previous := revenues[1]

	if previous <= 0 {
		return nil
	}

	growth := round2((current - previous) / previous * 100)
	return &growth
}
