package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"stock-analyst/internal/errors"
	"stock-analyst/internal/models"
)

const timeseriesBaseURL = "https://query1.finance.yahoo.com/ws/fundamentals-timeseries/v1/finance/timeseries"

// Metric candidate keys, in preference order. Yahoo reports the same line
// item under different names depending on the filer, so each field tries a
// list of keys and takes the first one with data.
var (
	revenueKeys = []string{"quarterlyTotalRevenue", "quarterlyOperatingRevenue"}
	ebitKeys    = []string{"quarterlyOperatingIncome", "quarterlyEBIT"}
	netKeys     = []string{"quarterlyNetIncome", "quarterlyNetIncomeCommonStockholders"}
	assetsKeys  = []string{"quarterlyTotalAssets"}
	debtKeys    = []string{"quarterlyTotalDebt", "quarterlyLongTermDebt"}
	equityKeys  = []string{"quarterlyStockholdersEquity", "quarterlyTotalEquityGrossMinorityInterest"}
	cashKeys    = []string{"quarterlyCashAndCashEquivalents", "quarterlyCashCashEquivalentsAndShortTermInvestments"}
)

// timeseriesClient talks to Yahoo's fundamentals timeseries endpoint.
type timeseriesClient struct {
	http *resty.Client
}

func newTimeseriesClient() *timeseriesClient {
	client := resty.New().
		SetBaseURL(timeseriesBaseURL).
		SetTimeout(30 * time.Second).
		SetHeader("User-Agent", "Mozilla/5.0 (compatible; stock-analyst/1.0)").
		SetHeader("Accept", "application/json")

	return &timeseriesClient{http: client}
}

// timeseriesResponse mirrors the relevant parts of the endpoint's payload.
// Each result carries one metric; the metric array sits under a dynamic key
// named after the metric itself.
type timeseriesResponse struct {
	Timeseries struct {
		Result []json.RawMessage `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"timeseries"`
}

type timeseriesMeta struct {
	Meta struct {
		Symbol []string `json:"symbol"`
		Type   []string `json:"type"`
	} `json:"meta"`
}

type timeseriesValue struct {
	AsOfDate      string `json:"asOfDate"`
	PeriodType    string `json:"periodType"`
	ReportedValue *struct {
		Raw decimal.Decimal `json:"raw"`
	} `json:"reportedValue"`
}

// QuarterlyFundamentals fetches the most recent quarters for a symbol,
// newest first.
func (c *timeseriesClient) QuarterlyFundamentals(ctx context.Context, symbol string, quarters int) ([]models.FundamentalRecord, error) {
	if quarters <= 0 {
		quarters = 4
	}

	metrics := allMetricKeys()
	now := time.Now()
	// Two extra quarters of slack so a late filer still yields enough rows.
	from := now.AddDate(0, -3*(quarters+2), 0)

	var payload timeseriesResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol":  symbol,
			"type":    strings.Join(metrics, ","),
			"period1": fmt.Sprintf("%d", from.Unix()),
			"period2": fmt.Sprintf("%d", now.Unix()),
			"merge":   "false",
		}).
		SetResult(&payload).
		Get("/" + symbol)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		if resp.StatusCode() == 429 {
			return nil, errors.ErrRateLimited
		}
		return nil, errors.Wrapf(errors.ErrProviderResponse, "timeseries returned %d", resp.StatusCode())
	}
	if payload.Timeseries.Error != nil {
		return nil, errors.Wrapf(errors.ErrProviderResponse, "timeseries error: %s", payload.Timeseries.Error.Description)
	}

	// metric name -> asOfDate -> value
	byMetric := make(map[string]map[string]float64)
	for _, raw := range payload.Timeseries.Result {
		var meta timeseriesMeta
		if err := json.Unmarshal(raw, &meta); err != nil || len(meta.Meta.Type) == 0 {
			continue
		}
		metric := meta.Meta.Type[0]

		var body map[string]json.RawMessage
		if err := json.Unmarshal(raw, &body); err != nil {
			continue
		}
		series, ok := body[metric]
		if !ok {
			continue
		}

		var values []*timeseriesValue
		if err := json.Unmarshal(series, &values); err != nil {
			continue
		}
		for _, v := range values {
			if v == nil || v.ReportedValue == nil || v.AsOfDate == "" {
				continue
			}
			if byMetric[metric] == nil {
				byMetric[metric] = make(map[string]float64)
			}
			byMetric[metric][v.AsOfDate] = v.ReportedValue.Raw.InexactFloat64()
		}
	}

	records := buildQuarterRecords(byMetric)
	if len(records) == 0 {
		return nil, errors.ErrNoData
	}
	if len(records) > quarters {
		records = records[:quarters]
	}
	return records, nil
}

func allMetricKeys() []string {
	var keys []string
	for _, group := range [][]string{revenueKeys, ebitKeys, netKeys, assetsKeys, debtKeys, equityKeys, cashKeys} {
		keys = append(keys, group...)
	}
	return keys
}

// buildQuarterRecords joins the per-metric maps into one record per quarter,
// newest first.
func buildQuarterRecords(byMetric map[string]map[string]float64) []models.FundamentalRecord {
	dates := make(map[string]bool)
	for _, series := range byMetric {
		for d := range series {
			dates[d] = true
		}
	}

	sorted := make([]string, 0, len(dates))
	for d := range dates {
		sorted = append(sorted, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(sorted)))

	var records []models.FundamentalRecord
	for _, d := range sorted {
		asOf, err := time.Parse("2006-01-02", d)
		if err != nil {
			continue
		}
		quarter := (int(asOf.Month())-1)/3 + 1

		records = append(records, models.NewFundamentalRecord(
			quarter, asOf.Year(),
			pickMetric(byMetric, d, revenueKeys),
			pickMetric(byMetric, d, ebitKeys),
			pickMetric(byMetric, d, netKeys),
			pickMetric(byMetric, d, assetsKeys),
			pickMetric(byMetric, d, debtKeys),
			pickMetric(byMetric, d, equityKeys),
			pickMetric(byMetric, d, cashKeys),
		))
	}
	return records
}

// pickMetric returns the value for the first candidate key that reported
// this quarter, nil when none did.
func pickMetric(byMetric map[string]map[string]float64, date string, candidates []string) *float64 {
	for _, key := range candidates {
		if series, ok := byMetric[key]; ok {
			if v, ok := series[date]; ok {
				return models.Float(v)
			}
		}
	}
	return nil
}
