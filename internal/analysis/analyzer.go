package analysis

import (
	"context"
	"sync"
	"time"

	"stock-analyst/internal/models"
	"stock-analyst/internal/performance"
)

// AnalyzeStock performs the full analysis for a single ticker: revenue
// growth, EBIT margin aggregation, the technical snapshot, the ranking
// score, and the recommendation. Rank is left unset; it is assigned by Rank
// once the whole batch is available.
//
// This is a pure function: the same inputs always produce the same result.
func AnalyzeStock(data StockData) models.AnalysisResult {
	growth := RevenueGrowth(data.Fundamentals)
	margin := AvgEBITMargin(data.Fundamentals)
	tech := AnalyzeTechnicals(data.Prices, data.CurrentPrice)
	score := RankingScore(growth, margin, tech)

	return models.AnalysisResult{
		Symbol:         data.Symbol,
		RevenueGrowth:  growth,
		AvgEBITMargin:  margin,
		CurrentPrice:   data.CurrentPrice,
		MA20:           tech.MA20,
		MA50:           tech.MA50,
		MA200:          tech.MA200,
		PriceVsMA20:    tech.PriceVsMA20,
		PriceVsMA50:    tech.PriceVsMA50,
		PriceVsMA200:   tech.PriceVsMA200,
		MA50Rising:     tech.MA50Rising,
		RankingScore:   score,
		Recommendation: ScoreToRecommendation(score),
		CreatedAt:      time.Now(),
	}
}

// AnalyzeBatch analyzes every ticker in the batch, fanning the per-ticker
// passes out across a worker pool. Results land at the index of their input,
// so batch order (and therefore ranking tie-breaks) stays deterministic
// regardless of scheduling. Duplicate symbols are a caller error and are not
// detected here.
func AnalyzeBatch(ctx context.Context, inputs []StockData, workers int) []models.AnalysisResult {
	results := make([]models.AnalysisResult, len(inputs))
	if len(inputs) == 0 {
		return results
	}

	pool := performance.NewWorkerPool(workers)
	pool.Start()
	defer pool.Stop()

	var wg sync.WaitGroup
	for i := range inputs {
		if ctx.Err() != nil {
			break
		}

		i := i
		wg.Add(1)
		submitted := pool.Submit(func() {
			defer wg.Done()
			results[i] = AnalyzeStock(inputs[i])
		})
		if !submitted {
			// Queue full or pool stopped: run inline rather than drop a ticker.
			results[i] = AnalyzeStock(inputs[i])
			wg.Done()
		}
	}
	wg.Wait()

	return results
}
