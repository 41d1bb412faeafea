// Package models provides domain models for the financial analysis application.
package models

import (
	"time"
)

// Recommendation represents an investment recommendation label.
type Recommendation string

const (
	StrongBuy Recommendation = "STRONG BUY"
	Buy       Recommendation = "BUY"
	Hold      Recommendation = "HOLD"
	Sell      Recommendation = "SELL"
)

// StockInfo holds basic identification data for a listed company.
type StockInfo struct {
	Symbol      string
	CompanyName string
	Sector      string
	Industry    string
}

// FundamentalRecord holds one fiscal quarter of fundamental data for a ticker.
// Line items the provider did not report are nil, never zero. Derived ratios
// are computed once at construction and are immutable afterwards.
type FundamentalRecord struct {
	Quarter int // 1-4
	Year    int

	Revenue            *float64
	OperatingIncome    *float64
	NetIncome          *float64
	TotalAssets        *float64
	TotalDebt          *float64
	ShareholdersEquity *float64
	CashAndEquivalents *float64

	EBITMargin   *float64
	ROE          *float64
	DebtToEquity *float64
}

// NewFundamentalRecord builds a record and computes its derived ratios.
// A ratio is present only when every input it needs is present and its
// denominator is nonzero.
func NewFundamentalRecord(quarter, year int, revenue, operatingIncome, netIncome, totalAssets, totalDebt, shareholdersEquity, cash *float64) FundamentalRecord {
	r := FundamentalRecord{
		Quarter:            quarter,
		Year:               year,
		Revenue:            revenue,
		OperatingIncome:    operatingIncome,
		NetIncome:          netIncome,
		TotalAssets:        totalAssets,
		TotalDebt:          totalDebt,
		ShareholdersEquity: shareholdersEquity,
		CashAndEquivalents: cash,
	}

	if revenue != nil && operatingIncome != nil && *revenue != 0 {
		m := *operatingIncome / *revenue * 100
		r.EBITMargin = &m
	}
	if netIncome != nil && shareholdersEquity != nil && *shareholdersEquity != 0 {
		roe := *netIncome / *shareholdersEquity * 100
		r.ROE = &roe
	}
	if totalDebt != nil && shareholdersEquity != nil && *shareholdersEquity != 0 {
		de := *totalDebt / *shareholdersEquity
		r.DebtToEquity = &de
	}

	return r
}

// PricePoint holds one trading day of price data with trailing moving
// averages of the close. An MA is nil until enough prior sessions exist.
type PricePoint struct {
	Date          time.Time
	Open          float64
	High          float64
	Low           float64
	Close         float64
	Volume        int64
	AdjustedClose float64

	MA20  *float64
	MA50  *float64
	MA200 *float64
}

// AnalysisResult holds the derived metrics, score and recommendation for
// one ticker. Created once per analysis run; Rank is assigned only after
// the whole batch has been scored.
type AnalysisResult struct {
	Symbol string

	RevenueGrowth *float64
	AvgEBITMargin *float64
	CurrentPrice  *float64

	MA20         *float64
	MA50         *float64
	MA200        *float64
	PriceVsMA20  *float64
	PriceVsMA50  *float64
	PriceVsMA200 *float64
	MA50Rising   bool

	RankingScore   float64
	Recommendation Recommendation
	Rank           int

	CreatedAt time.Time
}

// Float returns a pointer to v. Convenience constructor for optional fields.
func Float(v float64) *float64 {
	return &v
}
