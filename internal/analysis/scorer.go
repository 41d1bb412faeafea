package analysis

import (
	"stock-analyst/internal/models"
)

// Score weights: revenue growth and EBIT margin carry up to 40 points each,
// a rising MA50 carries 20, for a maximum of exactly 100.

// RankingScore combines the three metric groups into a score in [0, 100],
// rounded to 1 decimal. Buckets are evaluated top-to-bottom with >= on the
// lower bound, so boundary values fall into the higher bucket. An absent
// metric contributes zero.
func RankingScore(revenueGrowth, avgMargin *float64, tech TechnicalSnapshot) float64 {
	var score float64

	// 1. Revenue growth QoQ (0-40 points)
	if revenueGrowth != nil {
		switch g := *revenueGrowth; {
		case g >= 10:
			score += 40
		case g >= 5:
			score += 30
		case g >= 0:
			score += 20
		}
	}

	// 2. EBIT margin (0-40 points)
	if avgMargin != nil {
		switch m := *avgMargin; {
		case m >= 25:
			score += 40
		case m >= 20:
			score += 35
		case m >= 15:
			score += 30
		case m >= 10:
			score += 20
		case m >= 5:
			score += 10
		}
	}

	// 3. Rising MA50 (0-20 points)
	if tech.MA50Rising {
		score += 20
	}

	return round1(score)
}

// ScoreToRecommendation maps a ranking score to its recommendation label.
// Boundaries are inclusive on the upper side: 80.0 is a STRONG BUY.
func ScoreToRecommendation(score float64) models.Recommendation {
	switch {
	case score >= 80:
		return models.StrongBuy
	case score >= 60:
		return models.Buy
	case score >= 40:
		return models.Hold
	default:
		return models.Sell
	}
}
