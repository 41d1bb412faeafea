package analysis

import (
	"sort"

	"stock-analyst/internal/models"
)

// Rank orders a batch of results by ranking score descending and assigns
// 1-based ranks. The sort is stable: tied scores keep their input order, so a
// deterministic batch order yields a deterministic ranking. The input slice
// is not modified.
func Rank(results []models.AnalysisResult) []models.AnalysisResult {
	ranked := make([]models.AnalysisResult, len(results))
	copy(ranked, results)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RankingScore > ranked[j].RankingScore
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	return ranked
}
