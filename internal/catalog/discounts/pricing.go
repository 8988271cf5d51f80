package discounts

import (
	"math"

	"golang.org/x/text/currency"
)

// PriceView is what the console renders for a possibly discounted product.
// Discounted is false for a zero-percentage binding so the UI applies no
// discount styling to an unchanged price.
type PriceView struct {
	Original   float64 `json:"original"`
	Effective  float64 `json:"effective"`
	Percentage float64 `json:"percentage"`
	Discounted bool    `json:"discounted"`
}

// EffectivePrice applies a percentage discount to a base price and rounds
// to the currency's minor unit. Percentages outside [0,100] are a data
// quality condition and are clamped before display.
func EffectivePrice(base, percentage float64, unit currency.Unit) float64 {
	percentage = clampPercentage(percentage)
	scale, _ := currency.Standard.Rounding(unit)
	factor := math.Pow(10, float64(scale))
	return math.Round(base*(1-percentage/100)*factor) / factor
}

// Price builds the display view for a base price and an optional binding
// percentage.
func Price(base float64, percentage float64, unit currency.Unit) PriceView {
	percentage = clampPercentage(percentage)
	return PriceView{
		Original:   base,
		Effective:  EffectivePrice(base, percentage, unit),
		Percentage: percentage,
		Discounted: percentage > 0,
	}
}

func clampPercentage(p float64) float64 {
	if p < 0 || math.IsNaN(p) {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
