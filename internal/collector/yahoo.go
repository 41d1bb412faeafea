package collector

import (
	"context"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/quote"

	"stock-analyst/internal/errors"
	"stock-analyst/internal/logging"
	"stock-analyst/internal/models"
	"stock-analyst/internal/resilience"
	"stock-analyst/pkg/utils"
)

// YahooCollector implements Collector against Yahoo Finance. Quotes and
// price history go through the chart API, quarterly fundamentals through
// the fundamentals timeseries endpoint. All provider calls share one
// circuit breaker.
type YahooCollector struct {
	fundamentals *timeseriesClient
	retry        utils.RetryConfig
	breaker      *resilience.Breaker
}

// NewYahooCollector creates a collector with default retry settings.
func NewYahooCollector() *YahooCollector {
	return &YahooCollector{
		fundamentals: newTimeseriesClient(),
		retry:        utils.DefaultRetryConfig(),
		breaker:      resilience.NewBreaker("yahoo", resilience.DefaultConfig()),
	}
}

// GetStockInfo returns company name, sector and industry for a symbol.
// Yahoo's quote endpoint does not expose sector and industry, so those
// stay empty and the company name falls back to the symbol itself.
func (c *YahooCollector) GetStockInfo(ctx context.Context, symbol string) (models.StockInfo, error) {
	start := time.Now()
	logger := logging.WithSymbol(logging.FromContext(ctx), symbol)

	q, err := utils.RetryWithResult(ctx, c.retry, func() (*finance.Quote, error) {
		return resilience.DoWithResult(c.breaker, func() (*finance.Quote, error) {
			return quote.Get(symbol)
		})
	})
	logging.LogAPICall(logger, "GET", "quote", time.Since(start), err)
	if err != nil {
		return models.StockInfo{Symbol: symbol, CompanyName: symbol},
			errors.NewProviderError("yahoo", symbol, "quote lookup failed", err)
	}
	if q == nil {
		return models.StockInfo{Symbol: symbol, CompanyName: symbol},
			errors.NewProviderError("yahoo", symbol, "empty quote", errors.ErrNoData)
	}

	info := models.StockInfo{
		Symbol:      symbol,
		CompanyName: q.ShortName,
	}
	if info.CompanyName == "" {
		info.CompanyName = symbol
	}
	return info, nil
}

// GetFundamentals returns the most recent quarters, newest first.
func (c *YahooCollector) GetFundamentals(ctx context.Context, symbol string, quarters int) ([]models.FundamentalRecord, error) {
	start := time.Now()
	logger := logging.WithSymbol(logging.FromContext(ctx), symbol)

	records, err := utils.RetryWithResult(ctx, c.retry, func() ([]models.FundamentalRecord, error) {
		return resilience.DoWithResult(c.breaker, func() ([]models.FundamentalRecord, error) {
			return c.fundamentals.QuarterlyFundamentals(ctx, symbol, quarters)
		})
	})
	logging.LogFetch(logger, symbol, "fundamentals", len(records), time.Since(start))
	if err != nil {
		return nil, errors.NewDataError("fundamentals", symbol, "fetch failed", err)
	}
	return records, nil
}

// GetPrices returns daily history with trailing moving averages, oldest
// first. Rows before the 200-day average becomes available are dropped.
func (c *YahooCollector) GetPrices(ctx context.Context, symbol string, years int) ([]models.PricePoint, error) {
	start := time.Now()
	logger := logging.WithSymbol(logging.FromContext(ctx), symbol)

	end := time.Now()
	from := end.AddDate(-years, 0, 0)

	prices, err := utils.RetryWithResult(ctx, c.retry, func() ([]models.PricePoint, error) {
		return resilience.DoWithResult(c.breaker, func() ([]models.PricePoint, error) {
			return fetchDailyBars(symbol, from, end)
		})
	})
	logging.LogFetch(logger, symbol, "prices", len(prices), time.Since(start))
	if err != nil {
		return nil, errors.NewDataError("prices", symbol, "fetch failed", err)
	}

	ApplyMovingAverages(prices)
	return TrimBeforeMA200(prices), nil
}

// GetCurrentPrice returns the latest regular market price.
func (c *YahooCollector) GetCurrentPrice(ctx context.Context, symbol string) (*float64, error) {
	start := time.Now()
	logger := logging.WithSymbol(logging.FromContext(ctx), symbol)

	q, err := utils.RetryWithResult(ctx, c.retry, func() (*finance.Quote, error) {
		return resilience.DoWithResult(c.breaker, func() (*finance.Quote, error) {
			return quote.Get(symbol)
		})
	})
	logging.LogAPICall(logger, "GET", "quote", time.Since(start), err)
	if err != nil {
		return nil, errors.NewProviderError("yahoo", symbol, "quote lookup failed", err)
	}
	if q == nil || q.RegularMarketPrice <= 0 {
		return nil, nil
	}
	return models.Float(q.RegularMarketPrice), nil
}

func fetchDailyBars(symbol string, from, to time.Time) ([]models.PricePoint, error) {
	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&from),
		End:      datetime.New(&to),
		Interval: datetime.OneDay,
	}

	iter := chart.Get(params)

	var prices []models.PricePoint
	for iter.Next() {
		bar := iter.Bar()
		prices = append(prices, models.PricePoint{
			Date:          time.Unix(int64(bar.Timestamp), 0).UTC(),
			Open:          bar.Open.InexactFloat64(),
			High:          bar.High.InexactFloat64(),
			Low:           bar.Low.InexactFloat64(),
			Close:         bar.Close.InexactFloat64(),
			AdjustedClose: bar.AdjClose.InexactFloat64(),
			Volume:        int64(bar.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	if len(prices) == 0 {
		return nil, errors.ErrNoData
	}
	return prices, nil
}

// CollectAll fetches info, fundamentals, prices and the current price for
// one symbol. A failure in one section leaves that section empty; the
// bundle errors only when every section came back empty.
func (c *YahooCollector) CollectAll(ctx context.Context, symbol string, quarters, priceYears int) (StockBundle, error) {
	logger := logging.WithSymbol(logging.FromContext(ctx), symbol)

	var bundle StockBundle

	info, err := c.GetStockInfo(ctx, symbol)
	if err != nil {
		logger.Warn().Err(err).Msg("stock info unavailable")
	}
	bundle.Info = info

	if bundle.Fundamentals, err = c.GetFundamentals(ctx, symbol, quarters); err != nil {
		logger.Warn().Err(err).Msg("fundamentals unavailable")
	}
	if bundle.Prices, err = c.GetPrices(ctx, symbol, priceYears); err != nil {
		logger.Warn().Err(err).Msg("price history unavailable")
	}
	if bundle.CurrentPrice, err = c.GetCurrentPrice(ctx, symbol); err != nil {
		logger.Warn().Err(err).Msg("current price unavailable")
	}

	if len(bundle.Fundamentals) == 0 && len(bundle.Prices) == 0 && bundle.CurrentPrice == nil {
		return bundle, errors.NewDataError("bundle", symbol, "no data from any feed", errors.ErrNoData)
	}
	return bundle, nil
}
