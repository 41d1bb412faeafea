package collector

import "stock-analyst/internal/models"

// ApplyMovingAverages computes trailing 20, 50 and 200 day simple moving
// averages of the close price in place. An average is nil until its window
// is full. The input must be sorted oldest first.
func ApplyMovingAverages(prices []models.PricePoint) {
	applyWindow(prices, 20, func(p *models.PricePoint, v *float64) { p.MA20 = v })
	applyWindow(prices, 50, func(p *models.PricePoint, v *float64) { p.MA50 = v })
	applyWindow(prices, 200, func(p *models.PricePoint, v *float64) { p.MA200 = v })
}

func applyWindow(prices []models.PricePoint, window int, set func(*models.PricePoint, *float64)) {
	var sum float64
	for i := range prices {
		sum += prices[i].Close
		if i >= window {
			sum -= prices[i-window].Close
		}
		if i >= window-1 {
			set(&prices[i], models.Float(sum/float64(window)))
		} else {
			set(&prices[i], nil)
		}
	}
}

// TrimBeforeMA200 drops leading rows without a 200-day average so every
// retained point has all three averages available.
func TrimBeforeMA200(prices []models.PricePoint) []models.PricePoint {
	for i := range prices {
		if prices[i].MA200 != nil {
			return prices[i:]
		}
	}
	return nil
}
