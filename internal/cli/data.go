package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"stock-analyst/internal/collector"
	"stock-analyst/pkg/utils"
)

func newDataCmd(app *App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "data <symbol>",
		Short: "Show stored fundamentals and recent prices for a ticker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				output.Error("Store is not available")
				return errStoreUnavailable
			}

			symbol, err := collector.ValidateSymbol(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			fundamentals, err := app.Store.GetFundamentals(ctx, symbol, app.Config.Analysis.Quarters)
			if err != nil {
				return err
			}

			to := time.Now()
			from := to.AddDate(0, 0, -days)
			prices, err := app.Store.GetPrices(ctx, symbol, from, to)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"symbol":       symbol,
					"fundamentals": fundamentals,
					"prices":       prices,
				})
			}

			output.Bold("Fundamentals: %s", symbol)
			if len(fundamentals) == 0 {
				output.Dim("No stored fundamentals. Run 'analyst analyze %s' first.", symbol)
			} else {
				output.Printf("%-8s %-14s %-14s %-12s %-10s\n", "Quarter", "Revenue", "Op. Income", "EBIT Margin", "ROE")
				output.Println(strings.Repeat("-", 62))
				for _, r := range fundamentals {
					output.Printf("Q%d %d  %-14s %-14s %-12s %-10s\n",
						r.Quarter, r.Year,
						compactOptional(r.Revenue),
						compactOptional(r.OperatingIncome),
						utils.FormatOptionalPercent(r.EBITMargin),
						utils.FormatOptionalPercent(r.ROE),
					)
				}
			}

			output.Println()
			output.Bold("Prices: %s (last %d days)", symbol, days)
			if len(prices) == 0 {
				output.Dim("No stored prices in range.")
				return nil
			}
			output.Printf("%-12s %-10s %-10s %-10s %-10s\n", "Date", "Close", "MA20", "MA50", "MA200")
			output.Println(strings.Repeat("-", 56))
			for _, p := range prices {
				output.Printf("%-12s %-10.2f %-10s %-10s %-10s\n",
					p.Date.Format("2006-01-02"),
					p.Close,
					utils.FormatOptionalPrice(p.MA20),
					utils.FormatOptionalPrice(p.MA50),
					utils.FormatOptionalPrice(p.MA200),
				)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "number of days of price history to show")
	return cmd
}

func compactOptional(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return utils.FormatCompact(*v)
}
