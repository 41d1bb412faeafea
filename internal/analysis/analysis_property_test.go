package analysis

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"stock-analyst/internal/models"
)

// optionalFloatGen generates a *float64 that is absent roughly a third of the
// time, covering the missing-data paths in the scorer.
func optionalFloatGen(lo, hi float64) gopter.Gen {
	return gen.Weighted([]gen.WeightedGen{
		{Weight: 1, Gen: gen.Const((*float64)(nil))},
		{Weight: 2, Gen: gen.Float64Range(lo, hi).Map(func(v float64) *float64 {
			return &v
		})},
	})
}

func snapshotGen() gopter.Gen {
	return gen.Bool().Map(func(rising bool) TechnicalSnapshot {
		return TechnicalSnapshot{MA50Rising: rising}
	})
}

// TestProperty_RankingScoreWithinBounds tests that ranking scores are always within [0, 100]
func TestProperty_RankingScoreWithinBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("Ranking score is within [0, 100]", prop.ForAll(
		func(growth, margin *float64, tech TechnicalSnapshot) bool {
			score := RankingScore(growth, margin, tech)
			return score >= 0 && score <= 100
		},
		optionalFloatGen(-500, 500),
		optionalFloatGen(-100, 100),
		snapshotGen(),
	))

	properties.TestingRun(t)
}

// TestProperty_AbsentMetricsNeverHelp tests that a missing metric never scores
// higher than any present value of that metric would
func TestProperty_AbsentMetricsNeverHelp(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("Dropping a metric never raises the score", prop.ForAll(
		func(growth, margin float64, tech TechnicalSnapshot) bool {
			withBoth := RankingScore(&growth, &margin, tech)
			noGrowth := RankingScore(nil, &margin, tech)
			noMargin := RankingScore(&growth, nil, tech)
			neither := RankingScore(nil, nil, tech)

			return noGrowth <= withBoth &&
				noMargin <= withBoth &&
				neither <= noGrowth && neither <= noMargin
		},
		gen.Float64Range(-500, 500),
		gen.Float64Range(-100, 100),
		snapshotGen(),
	))

	properties.TestingRun(t)
}

// TestProperty_RecommendationMapping tests that every score maps to the
// recommendation its threshold band defines
func TestProperty_RecommendationMapping(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("Score maps to the correct recommendation", prop.ForAll(
		func(score float64) bool {
			rec := ScoreToRecommendation(score)
			switch {
			case score >= 80:
				return rec == models.StrongBuy
			case score >= 60:
				return rec == models.Buy
			case score >= 40:
				return rec == models.Hold
			default:
				return rec == models.Sell
			}
		},
		gen.Float64Range(0, 100),
	))

	properties.TestingRun(t)
}

// TestProperty_RankOrdering tests that ranking produces 1..n ranks with
// non-increasing scores
func TestProperty_RankOrdering(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("Ranks are consecutive and scores non-increasing", prop.ForAll(
		func(scores []float64) bool {
			results := make([]models.AnalysisResult, len(scores))
			for i, s := range scores {
				results[i] = models.AnalysisResult{Symbol: "S", RankingScore: s}
			}

			ranked := Rank(results)
			if len(ranked) != len(results) {
				return false
			}
			for i := range ranked {
				if ranked[i].Rank != i+1 {
					return false
				}
				if i > 0 && ranked[i-1].RankingScore < ranked[i].RankingScore {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(0, 100)),
	))

	properties.TestingRun(t)
}
