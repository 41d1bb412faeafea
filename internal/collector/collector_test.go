package collector

import (
	"math"
	"reflect"
	"testing"
	"time"

	"stock-analyst/internal/models"
)

func TestValidateSymbol(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"aapl", "AAPL", false},
		{" msft ", "MSFT", false},
		{"GOOGL", "GOOGL", false},
		{"", "", true},
		{"TOOLONG", "", true},
		{"BRK.B", "", true},
		{"123", "", true},
	}

	for _, tt := range tests {
		got, err := ValidateSymbol(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateSymbol(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ValidateSymbol(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseSymbols(t *testing.T) {
	valid, skipped := ParseSymbols("aapl, msft, brk.b, AAPL, , toolong, tsla")

	wantValid := []string{"AAPL", "MSFT", "TSLA"}
	if !reflect.DeepEqual(valid, wantValid) {
		t.Errorf("valid = %v, want %v", valid, wantValid)
	}

	wantSkipped := []string{"BRK.B", "TOOLONG"}
	if !reflect.DeepEqual(skipped, wantSkipped) {
		t.Errorf("skipped = %v, want %v", skipped, wantSkipped)
	}
}

func closeSeries(closes ...float64) []models.PricePoint {
	prices := make([]models.PricePoint, len(closes))
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		prices[i] = models.PricePoint{Date: base.AddDate(0, 0, i), Close: c}
	}
	return prices
}

func TestApplyMovingAveragesWindowBoundaries(t *testing.T) {
	closes := make([]float64, 250)
	for i := range closes {
		closes[i] = float64(i + 1)
	}
	prices := closeSeries(closes...)

	ApplyMovingAverages(prices)

	// Averages are absent until the window fills.
	if prices[18].MA20 != nil {
		t.Errorf("MA20 present at index 18 before window full")
	}
	if prices[19].MA20 == nil {
		t.Fatalf("MA20 absent at index 19")
	}
	// Mean of 1..20 is 10.5.
	if got := *prices[19].MA20; got != 10.5 {
		t.Errorf("MA20[19] = %v, want 10.5", got)
	}

	if prices[48].MA50 != nil {
		t.Errorf("MA50 present at index 48 before window full")
	}
	if prices[49].MA50 == nil || *prices[49].MA50 != 25.5 {
		t.Errorf("MA50[49] = %v, want 25.5", fmtMA(prices[49].MA50))
	}

	if prices[198].MA200 != nil {
		t.Errorf("MA200 present at index 198 before window full")
	}
	if prices[199].MA200 == nil || *prices[199].MA200 != 100.5 {
		t.Errorf("MA200[199] = %v, want 100.5", fmtMA(prices[199].MA200))
	}

	// A later point's trailing window: mean of 51..250 is 150.5.
	last := prices[249]
	if last.MA200 == nil || math.Abs(*last.MA200-150.5) > 1e-9 {
		t.Errorf("MA200[249] = %v, want 150.5", fmtMA(last.MA200))
	}
}

func TestTrimBeforeMA200(t *testing.T) {
	closes := make([]float64, 210)
	for i := range closes {
		closes[i] = 100
	}
	prices := closeSeries(closes...)
	ApplyMovingAverages(prices)

	trimmed := TrimBeforeMA200(prices)
	if len(trimmed) != 11 {
		t.Fatalf("len(trimmed) = %d, want 11", len(trimmed))
	}
	for i := range trimmed {
		if trimmed[i].MA200 == nil {
			t.Errorf("trimmed[%d].MA200 is nil", i)
		}
	}

	// A series shorter than the window trims to nothing.
	short := closeSeries(closes[:100]...)
	ApplyMovingAverages(short)
	if got := TrimBeforeMA200(short); got != nil {
		t.Errorf("TrimBeforeMA200(short) = %d points, want none", len(got))
	}
}

func fmtMA(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
