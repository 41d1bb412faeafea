package analysis

import (
	"fmt"
	"strings"

	"stock-analyst/internal/models"
)

// SummaryLine renders a one-line plain-text summary of an analysis result,
// suitable for logs and report prompts. Absent metrics render as "No data".
func SummaryLine(r models.AnalysisResult) string {
	parts := []string{fmt.Sprintf("Stock: %s", r.Symbol)}

	if r.RevenueGrowth != nil {
		parts = append(parts, fmt.Sprintf("Revenue growth QoQ: %.2f%%", *r.RevenueGrowth))
	} else {
		parts = append(parts, "Revenue growth: No data")
	}

	if r.AvgEBITMargin != nil {
		parts = append(parts, fmt.Sprintf("EBIT margin: %.2f%%", *r.AvgEBITMargin))
	} else {
		parts = append(parts, "EBIT margin: No data")
	}

	if r.MA50Rising {
		parts = append(parts, "MA50: Rising")
	} else {
		parts = append(parts, "MA50: Not rising")
	}

	parts = append(parts, fmt.Sprintf("Score: %.1f/100 - %s", r.RankingScore, r.Recommendation))

	return strings.Join(parts, ". ") + "."
}
