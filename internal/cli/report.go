package cli

import (
	"time"

	"github.com/spf13/cobra"

	"stock-analyst/internal/advisor"
	"stock-analyst/internal/analysis"
	"stock-analyst/internal/collector"
	"stock-analyst/internal/errors"
	"stock-analyst/internal/logging"
	"stock-analyst/internal/models"
)

func newReportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Generate an LLM investment note over the stored ranking",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ranked, err := app.storedResults(cmd)
			if err != nil {
				return err
			}

			adv, err := app.advisor()
			if err != nil {
				return err
			}

			start := time.Now()
			report, err := adv.InvestmentRecommendation(cmd.Context(), ranked)
			logging.LogReport(app.Logger, "recommendation", len(ranked), time.Since(start), err)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"report": report})
			}
			output.Println(report)
			return nil
		},
	}
}

func newSummaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <symbol>",
		Short: "Generate a detailed LLM note for one analyzed ticker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			symbol, err := collector.ValidateSymbol(args[0])
			if err != nil {
				return err
			}

			ranked, err := app.storedResults(cmd)
			if err != nil {
				return err
			}

			var result *models.AnalysisResult
			for i := range ranked {
				if ranked[i].Symbol == symbol {
					result = &ranked[i]
					break
				}
			}
			if result == nil {
				output.Error("No analysis result for %s. Run 'analyst analyze %s' first.", symbol, symbol)
				return errors.ErrNoData
			}

			// The structured one-liner doubles as cheap context for the model.
			marketContext := analysis.SummaryLine(*result)

			adv, err := app.advisor()
			if err != nil {
				return err
			}

			start := time.Now()
			note, err := adv.StockSummary(cmd.Context(), *result, marketContext)
			logging.LogReport(app.Logger, "summary", 1, time.Since(start), err)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"symbol": symbol, "summary": note})
			}
			output.Println(note)
			return nil
		},
	}
}

func newPortfolioCmd(app *App) *cobra.Command {
	var amount float64

	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Generate an LLM portfolio allocation for the top-ranked stocks",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ranked, err := app.storedResults(cmd)
			if err != nil {
				return err
			}

			adv, err := app.advisor()
			if err != nil {
				return err
			}

			if amount <= 0 {
				amount = app.Config.Advisor.PortfolioAmount
			}

			start := time.Now()
			strategy, err := adv.PortfolioStrategy(cmd.Context(), ranked, amount)
			logging.LogReport(app.Logger, "portfolio", len(ranked), time.Since(start), err)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"strategy": strategy})
			}
			output.Println(strategy)
			return nil
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "portfolio amount in USD (default from config)")
	return cmd
}

// storedResults loads the last analysis run from the store.
func (a *App) storedResults(cmd *cobra.Command) ([]models.AnalysisResult, error) {
	if a.Store == nil {
		return nil, errStoreUnavailable
	}
	ranked, err := a.Store.GetAnalysisResults(cmd.Context())
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return nil, errors.Wrap(errors.ErrNoData, "no stored analysis results, run 'analyst analyze' first")
	}
	return ranked, nil
}

// advisor returns the configured advisor or a configuration error.
func (a *App) advisor() (*advisor.Advisor, error) {
	if a.LLMClient == nil {
		return nil, errors.Wrap(errors.ErrNotConfigured, "no LLM provider configured, set ANTHROPIC_API_KEY or OPENAI_API_KEY")
	}
	return advisor.New(a.LLMClient), nil
}
