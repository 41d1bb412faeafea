// Package advisor turns ranked analysis results into prose investment notes
// using a language model. The engine output stays fully structured; only the
// report text comes from the model.
package advisor

import (
	"context"
	"fmt"
	"strings"

	"stock-analyst/internal/config"
	"stock-analyst/internal/errors"
	"stock-analyst/internal/logging"
	"stock-analyst/internal/models"
	"stock-analyst/pkg/utils"
)

// LLMClient defines the interface for language model providers.
type LLMClient interface {
	// Complete sends a prompt to the LLM and returns the response.
	Complete(ctx context.Context, prompt string) (string, error)

	// CompleteWithSystem sends a prompt with a system message.
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// NewLLMClient builds the provider configured in the advisor section.
func NewLLMClient(cfg *config.Config) (LLMClient, error) {
	switch cfg.Advisor.Provider {
	case "openai":
		if cfg.Credentials.OpenAI.APIKey == "" {
			return nil, errors.Wrap(errors.ErrNotConfigured, "openai api key missing")
		}
		return NewOpenAIClient(cfg.Credentials.OpenAI.APIKey, cfg.Advisor.Model), nil
	case "anthropic", "":
		if cfg.Credentials.Anthropic.APIKey == "" {
			return nil, errors.Wrap(errors.ErrNotConfigured, "anthropic api key missing")
		}
		return NewClaudeClient(cfg.Credentials.Anthropic.APIKey, cfg.Advisor.Model, cfg.Advisor.MaxTokens), nil
	default:
		return nil, errors.Wrapf(errors.ErrConfigInvalid, "unknown advisor provider %q", cfg.Advisor.Provider)
	}
}

// Advisor generates investment reports from ranked analysis results.
type Advisor struct {
	llm   LLMClient
	retry utils.RetryConfig
}

// New creates an advisor backed by the given LLM client.
func New(llm LLMClient) *Advisor {
	return &Advisor{
		llm:   llm,
		retry: utils.DefaultRetryConfig(),
	}
}

// InvestmentRecommendation produces a committee-style report covering every
// ranked stock.
func (a *Advisor) InvestmentRecommendation(ctx context.Context, ranked []models.AnalysisResult) (string, error) {
	if len(ranked) == 0 {
		return "", errors.Wrap(errors.ErrNoData, "no analysis results to report on")
	}

	prompt := buildRecommendationPrompt(ranked)
	return a.complete(ctx, "recommendation", prompt)
}

// StockSummary produces a detailed note for a single stock.
func (a *Advisor) StockSummary(ctx context.Context, result models.AnalysisResult, marketContext string) (string, error) {
	prompt := buildStockSummaryPrompt(result, marketContext)
	return a.complete(ctx, "summary", prompt)
}

// PortfolioStrategy produces an allocation plan for the top ranked stocks.
func (a *Advisor) PortfolioStrategy(ctx context.Context, ranked []models.AnalysisResult, amount float64) (string, error) {
	if len(ranked) == 0 {
		return "", errors.Wrap(errors.ErrNoData, "no analysis results to allocate")
	}

	top := ranked
	if len(top) > 5 {
		top = top[:5]
	}
	prompt := buildPortfolioPrompt(top, amount)
	return a.complete(ctx, "portfolio", prompt)
}

func (a *Advisor) complete(ctx context.Context, operation, prompt string) (string, error) {
	logger := logging.WithOperation(logging.FromContext(ctx), operation)

	text, err := utils.RetryWithResult(ctx, a.retry, func() (string, error) {
		return a.llm.Complete(ctx, prompt)
	})
	if err != nil {
		logger.Error().Err(err).Msg("advisor request failed")
		return "", errors.NewAdvisorError("llm", operation, err)
	}
	return text, nil
}

// analysisSummary renders the ranked results as the plain-text block fed to
// the model.
func analysisSummary(ranked []models.AnalysisResult) string {
	lines := []string{"STOCK ANALYSIS SUMMARY", strings.Repeat("=", 50), ""}

	for _, r := range ranked {
		lines = append(lines,
			fmt.Sprintf("Stock: %s (Rank #%d)", r.Symbol, r.Rank),
			fmt.Sprintf("  Revenue Growth (QoQ): %s", utils.FormatOptionalPercent(r.RevenueGrowth)),
			fmt.Sprintf("  Average EBIT Margin: %s", utils.FormatOptionalPercent(r.AvgEBITMargin)),
			fmt.Sprintf("  MA50 Trend: %s", trendWord(r.MA50Rising)),
			fmt.Sprintf("  Overall Score: %.1f/100", r.RankingScore),
			"",
		)
	}

	return strings.Join(lines, "\n")
}

func trendWord(rising bool) string {
	if rising {
		return "Rising"
	}
	return "Not rising"
}

func buildRecommendationPrompt(ranked []models.AnalysisResult) string {
	return fmt.Sprintf(`As a financial analyst, please provide an investment recommendation based on the following stock analysis data:

%s

Please provide:
1. An overall investment recommendation (Buy, Hold, or Avoid) for each stock
2. A portfolio allocation suggestion if investing in multiple stocks
3. Key risks and opportunities identified
4. Summary rationale for your recommendations

Please format your response as a professional investment report suitable for presentation to an investment committee.`,
		analysisSummary(ranked))
}

func buildStockSummaryPrompt(r models.AnalysisResult, marketContext string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `As a financial analyst, provide a detailed investment analysis for the following stock:

Stock Symbol: %s
Revenue Growth (QoQ): %s
Average EBIT Margin: %s
MA50 Trend: %s
Overall Ranking Score: %.1f/100
`,
		r.Symbol,
		utils.FormatOptionalPercent(r.RevenueGrowth),
		utils.FormatOptionalPercent(r.AvgEBITMargin),
		trendWord(r.MA50Rising),
		r.RankingScore)

	if marketContext != "" {
		sb.WriteString("\n" + marketContext + "\n")
	}

	sb.WriteString(`
Please provide:
1. Investment thesis (2-3 sentences)
2. Key strengths and weaknesses
3. Risk factors to consider
4. Price target recommendation (qualitative)
5. Overall rating: Strong Buy / Buy / Hold / Sell / Strong Sell

Keep the analysis concise but professional.`)

	return sb.String()
}

func buildPortfolioPrompt(top []models.AnalysisResult, amount float64) string {
	return fmt.Sprintf(`As a portfolio manager, create an investment strategy for a %s portfolio based on these top-ranked stocks:

%s

Provide:
1. Recommended portfolio allocation (%% for each stock)
2. Rationale for allocation weights
3. Risk management considerations
4. Rebalancing timeline recommendations
5. Expected portfolio characteristics (growth vs value, risk level)

Format as a professional portfolio strategy document.`,
		utils.FormatUSD(amount), analysisSummary(top))
}
