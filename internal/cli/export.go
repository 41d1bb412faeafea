package cli

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"stock-analyst/internal/models"
	"stock-analyst/pkg/utils"
)

// rankingRow is the CSV shape of one ranked result. Absent metrics export
// as empty cells.
type rankingRow struct {
	Rank           int    `csv:"rank"`
	Symbol         string `csv:"symbol"`
	RevenueGrowth  string `csv:"revenue_growth_qoq"`
	AvgEBITMargin  string `csv:"avg_ebit_margin"`
	CurrentPrice   string `csv:"current_price"`
	MA20           string `csv:"ma_20"`
	MA50           string `csv:"ma_50"`
	MA200          string `csv:"ma_200"`
	MA50Rising     bool   `csv:"ma50_rising"`
	RankingScore   string `csv:"ranking_score"`
	Recommendation string `csv:"recommendation"`
}

func newExportCmd(app *App) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the stored ranking as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ranked, err := app.storedResults(cmd)
			if err != nil {
				return err
			}

			file, err := os.Create(outPath)
			if err != nil {
				return err
			}
			defer file.Close()

			rows := make([]rankingRow, 0, len(ranked))
			for _, r := range ranked {
				rows = append(rows, toRankingRow(r))
			}

			if err := gocsv.MarshalFile(&rows, file); err != nil {
				return err
			}

			output.Success("Exported %d rows to %s", len(rows), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "rankings.csv", "output file path")
	return cmd
}

func toRankingRow(r models.AnalysisResult) rankingRow {
	return rankingRow{
		Rank:           r.Rank,
		Symbol:         r.Symbol,
		RevenueGrowth:  csvOptional(r.RevenueGrowth),
		AvgEBITMargin:  csvOptional(r.AvgEBITMargin),
		CurrentPrice:   csvOptional(r.CurrentPrice),
		MA20:           csvOptional(r.MA20),
		MA50:           csvOptional(r.MA50),
		MA200:          csvOptional(r.MA200),
		MA50Rising:     r.MA50Rising,
		RankingScore:   fmt.Sprintf("%.1f", r.RankingScore),
		Recommendation: string(r.Recommendation),
	}
}

func csvOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return utils.FormatOptionalPrice(v)
}
