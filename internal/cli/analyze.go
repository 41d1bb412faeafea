package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"stock-analyst/internal/advisor"
	"stock-analyst/internal/analysis"
	"stock-analyst/internal/collector"
	"stock-analyst/internal/errors"
	"stock-analyst/internal/logging"
	"stock-analyst/internal/models"
	"stock-analyst/pkg/utils"
)

var errStoreUnavailable = errors.Wrap(errors.ErrDatabaseError, "store unavailable")

func newAnalyzeCmd(app *App) *cobra.Command {
	var withReport bool

	cmd := &cobra.Command{
		Use:   "analyze <symbols>",
		Short: "Collect data, score and rank a set of tickers",
		Long: `Collect fundamentals and price history for a comma-separated list of
tickers, score each one, rank them against each other and store the
results. Invalid symbols are skipped with a warning.`,
		Example: `  analyst analyze AAPL,MSFT,GOOGL
  analyst analyze AAPL,MSFT --report`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx := logging.WithLogger(cmd.Context(), app.Logger)

			symbols, skipped := collector.ParseSymbols(args[0])
			for _, s := range skipped {
				output.Warning("Skipping invalid symbol: %s", s)
			}
			if len(symbols) == 0 {
				output.Error("No valid symbols to analyze")
				return errors.ErrInvalidSymbol
			}

			ranked, err := app.runAnalysis(ctx, output, symbols)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				if err := output.JSON(ranked); err != nil {
					return err
				}
			} else {
				printRankingTable(output, ranked)
			}

			if withReport {
				return app.printReport(ctx, output, ranked)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withReport, "report", false, "generate an LLM investment note for the ranked results")
	return cmd
}

// runAnalysis collects data for every symbol, scores the batch, ranks it and
// persists the run.
func (a *App) runAnalysis(ctx context.Context, output *Output, symbols []string) ([]models.AnalysisResult, error) {
	quarters := a.Config.Analysis.Quarters
	years := a.Config.Analysis.PriceHistoryYears

	inputs := make([]analysis.StockData, len(symbols))
	bundles := make([]collector.StockBundle, len(symbols))

	// Collection is network-bound, so fan out one fetch per symbol. Results
	// land at the symbol's index to keep downstream ordering deterministic.
	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()

			bundle, err := a.Collector.CollectAll(ctx, symbol, quarters, years)
			if err != nil {
				logger := logging.FromContext(ctx)
				logger.Warn().Err(err).Str("symbol", symbol).Msg("collection incomplete")
			}
			bundles[i] = bundle
			inputs[i] = analysis.StockData{
				Symbol:       symbol,
				Fundamentals: bundle.Fundamentals,
				Prices:       bundle.Prices,
				CurrentPrice: bundle.CurrentPrice,
			}
		}(i, symbol)
	}
	wg.Wait()

	results := analysis.AnalyzeBatch(ctx, inputs, a.Config.Analysis.Workers)
	ranked := analysis.Rank(results)

	if len(ranked) > 0 {
		logging.LogRanking(logging.FromContext(ctx), len(ranked), ranked[0].Symbol, ranked[0].RankingScore)
	}

	if a.Store != nil {
		if err := a.persistRun(ctx, symbols, bundles, ranked); err != nil {
			output.Warning("Failed to persist results: %v", err)
		}
	}

	return ranked, nil
}

func (a *App) persistRun(ctx context.Context, symbols []string, bundles []collector.StockBundle, ranked []models.AnalysisResult) error {
	for i, symbol := range symbols {
		info := bundles[i].Info
		if info.Symbol == "" {
			info.Symbol = symbol
		}
		if err := a.Store.UpsertStock(ctx, info); err != nil {
			return err
		}
		if err := a.Store.SaveFundamentals(ctx, symbol, bundles[i].Fundamentals); err != nil {
			return err
		}
		if err := a.Store.SavePrices(ctx, symbol, bundles[i].Prices); err != nil {
			return err
		}
	}
	return a.Store.ReplaceAnalysisResults(ctx, ranked)
}

func (a *App) printReport(ctx context.Context, output *Output, ranked []models.AnalysisResult) error {
	if a.LLMClient == nil {
		output.Warning("No LLM provider configured; skipping report")
		return nil
	}

	output.Info("Generating investment note...")
	report, err := advisor.New(a.LLMClient).InvestmentRecommendation(ctx, ranked)
	if err != nil {
		return err
	}
	output.Println()
	output.Println(report)
	return nil
}

func printRankingTable(output *Output, ranked []models.AnalysisResult) {
	output.Bold("%-5s %-7s %-12s %-12s %-10s %-8s %s", "Rank", "Symbol", "Growth QoQ", "EBIT Margin", "MA50", "Score", "Recommendation")
	output.Println(strings.Repeat("-", 72))

	for _, r := range ranked {
		trend := "flat"
		if r.MA50Rising {
			trend = "rising"
		}
		output.Printf("%-5d %-7s %-12s %-12s %-10s %-8.1f %s\n",
			r.Rank,
			r.Symbol,
			utils.FormatOptionalPercent(r.RevenueGrowth),
			utils.FormatOptionalPercent(r.AvgEBITMargin),
			trend,
			r.RankingScore,
			output.RecommendationString(string(r.Recommendation)),
		)
	}

	output.Println()
	output.Dim(fmt.Sprintf("%d tickers analyzed", len(ranked)))
}
