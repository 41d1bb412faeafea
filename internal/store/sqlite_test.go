package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"stock-analyst/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "analyst_test.db")
	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStockUpsertAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.UpsertStock(ctx, models.StockInfo{Symbol: "MSFT", CompanyName: "Microsoft"}); err != nil {
		t.Fatalf("UpsertStock failed: %v", err)
	}
	if err := store.UpsertStock(ctx, models.StockInfo{Symbol: "AAPL", CompanyName: "Apple Inc."}); err != nil {
		t.Fatalf("UpsertStock failed: %v", err)
	}
	// Replacing an existing row must not duplicate it.
	if err := store.UpsertStock(ctx, models.StockInfo{Symbol: "AAPL", CompanyName: "Apple"}); err != nil {
		t.Fatalf("UpsertStock failed: %v", err)
	}

	stocks, err := store.GetStocks(ctx)
	if err != nil {
		t.Fatalf("GetStocks failed: %v", err)
	}
	if len(stocks) != 2 {
		t.Fatalf("got %d stocks, want 2", len(stocks))
	}
	if stocks[0].Symbol != "AAPL" || stocks[0].CompanyName != "Apple" {
		t.Errorf("stocks[0] = %+v, want replaced AAPL row", stocks[0])
	}
	if stocks[1].Symbol != "MSFT" {
		t.Errorf("stocks[1].Symbol = %s, want MSFT", stocks[1].Symbol)
	}
}

func TestFundamentalsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	records := []models.FundamentalRecord{
		models.NewFundamentalRecord(2, 2024, models.Float(110e9), models.Float(22e9), nil, nil, nil, models.Float(60e9), nil),
		models.NewFundamentalRecord(1, 2024, models.Float(100e9), nil, nil, nil, nil, nil, nil),
		models.NewFundamentalRecord(4, 2023, models.Float(95e9), models.Float(19e9), nil, nil, nil, nil, nil),
	}
	if err := store.SaveFundamentals(ctx, "AAPL", records); err != nil {
		t.Fatalf("SaveFundamentals failed: %v", err)
	}

	got, err := store.GetFundamentals(ctx, "AAPL", 2)
	if err != nil {
		t.Fatalf("GetFundamentals failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want limit 2", len(got))
	}

	// Newest first.
	if got[0].Year != 2024 || got[0].Quarter != 2 {
		t.Errorf("got[0] = Q%d %d, want Q2 2024", got[0].Quarter, got[0].Year)
	}
	if got[0].Revenue == nil || *got[0].Revenue != 110e9 {
		t.Errorf("got[0].Revenue = %v, want 110e9", got[0].Revenue)
	}
	if got[0].EBITMargin == nil || *got[0].EBITMargin != 20 {
		t.Errorf("got[0].EBITMargin = %v, want 20", got[0].EBITMargin)
	}
	// Absent line items stay absent through the round trip.
	if got[1].OperatingIncome != nil || got[1].EBITMargin != nil {
		t.Errorf("got[1] absent fields came back present: %+v", got[1])
	}

	// Re-saving the same quarters replaces rather than duplicates.
	if err := store.SaveFundamentals(ctx, "AAPL", records); err != nil {
		t.Fatalf("second SaveFundamentals failed: %v", err)
	}
	all, err := store.GetFundamentals(ctx, "AAPL", 10)
	if err != nil {
		t.Fatalf("GetFundamentals failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d records after re-save, want 3", len(all))
	}
}

func TestPricesRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	prices := []models.PricePoint{
		{Date: base, Open: 100, High: 105, Low: 99, Close: 104, Volume: 1000, AdjustedClose: 104, MA20: models.Float(101.5)},
		{Date: base.AddDate(0, 0, 1), Open: 104, High: 106, Low: 103, Close: 105, Volume: 1200, AdjustedClose: 105, MA20: models.Float(102), MA50: models.Float(98.25)},
	}
	if err := store.SavePrices(ctx, "AAPL", prices); err != nil {
		t.Fatalf("SavePrices failed: %v", err)
	}

	got, err := store.GetPrices(ctx, "AAPL", base, base.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("GetPrices failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d points, want 2", len(got))
	}
	if !got[0].Date.Equal(base) || got[0].Close != 104 {
		t.Errorf("got[0] = %+v, want first day", got[0])
	}
	if got[0].MA50 != nil || got[0].MA200 != nil {
		t.Errorf("got[0] absent averages came back present")
	}
	if got[1].MA50 == nil || *got[1].MA50 != 98.25 {
		t.Errorf("got[1].MA50 = %v, want 98.25", got[1].MA50)
	}

	// Date range excludes points outside the window.
	none, err := store.GetPrices(ctx, "AAPL", base.AddDate(0, 1, 0), base.AddDate(0, 2, 0))
	if err != nil {
		t.Fatalf("GetPrices failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("got %d points outside range, want 0", len(none))
	}
}

func TestReplaceAnalysisResults(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	first := []models.AnalysisResult{
		{Symbol: "OLD", RankingScore: 50, Recommendation: models.Hold, Rank: 1, CreatedAt: now},
	}
	if err := store.ReplaceAnalysisResults(ctx, first); err != nil {
		t.Fatalf("ReplaceAnalysisResults failed: %v", err)
	}

	second := []models.AnalysisResult{
		{
			Symbol:         "AAPL",
			RevenueGrowth:  models.Float(10),
			AvgEBITMargin:  models.Float(18.75),
			CurrentPrice:   models.Float(190.5),
			MA50:           models.Float(185),
			PriceVsMA50:    models.Float(2.97),
			MA50Rising:     true,
			RankingScore:   90,
			Recommendation: models.StrongBuy,
			Rank:           1,
			CreatedAt:      now,
		},
		{Symbol: "XYZ", RankingScore: 20, Recommendation: models.Sell, Rank: 2, CreatedAt: now},
	}
	if err := store.ReplaceAnalysisResults(ctx, second); err != nil {
		t.Fatalf("ReplaceAnalysisResults failed: %v", err)
	}

	got, err := store.GetAnalysisResults(ctx)
	if err != nil {
		t.Fatalf("GetAnalysisResults failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results after replace, want 2", len(got))
	}
	// Score descending.
	if got[0].Symbol != "AAPL" || got[1].Symbol != "XYZ" {
		t.Errorf("order = %s, %s; want AAPL, XYZ", got[0].Symbol, got[1].Symbol)
	}

	r := got[0]
	if r.RevenueGrowth == nil || *r.RevenueGrowth != 10 {
		t.Errorf("RevenueGrowth = %v, want 10", r.RevenueGrowth)
	}
	if !r.MA50Rising || r.Rank != 1 || r.Recommendation != models.StrongBuy {
		t.Errorf("result fields lost in round trip: %+v", r)
	}
	if r.MA20 != nil || r.PriceVsMA20 != nil {
		t.Errorf("absent fields came back present: %+v", r)
	}
}

func TestReset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.UpsertStock(ctx, models.StockInfo{Symbol: "AAPL"}); err != nil {
		t.Fatalf("UpsertStock failed: %v", err)
	}
	if err := store.SaveAnalysisResult(ctx, models.AnalysisResult{
		Symbol: "AAPL", RankingScore: 40, Recommendation: models.Hold, CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("SaveAnalysisResult failed: %v", err)
	}

	if err := store.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	stocks, err := store.GetStocks(ctx)
	if err != nil {
		t.Fatalf("GetStocks after reset failed: %v", err)
	}
	if len(stocks) != 0 {
		t.Errorf("got %d stocks after reset, want 0", len(stocks))
	}

	// The store stays usable after a reset.
	if err := store.UpsertStock(ctx, models.StockInfo{Symbol: "MSFT"}); err != nil {
		t.Errorf("UpsertStock after reset failed: %v", err)
	}
}
