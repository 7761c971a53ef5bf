package odds

import (
	"fmt"
	"math"
)

// Conversions from bookmaker price encodings to canonical American odds.
// Both converters are total: any malformed input (zero, the 1.0 "no price"
// decimal, NaN, infinities) yields the neutral 0 instead of an error, so a
// single bad row can never take down an evaluation pass.

// DecimalToAmerican converts a decimal (European) price.
// d >= 2.0 -> round((d-1)*100); 1 < d < 2 -> round(-100/(d-1)).
// A decimal price is >= 1 by definition and exactly 1.0 means "no real
// price", so anything <= 1 is malformed.
func DecimalToAmerican(d float64) int {
	if math.IsNaN(d) || math.IsInf(d, 0) || d <= 1 {
		return 0
	}
	if d >= 2 {
		return safeRound((d - 1) * 100)
	}
	return safeRound(-100 / (d - 1))
}

// HongKongToAmerican converts a Hong Kong price.
// h >= 1 -> round(h*100); 0 < h < 1 -> round(-100/h). A Hong Kong price
// is positive by definition, so anything <= 0 is malformed.
func HongKongToAmerican(h float64) int {
	if math.IsNaN(h) || math.IsInf(h, 0) || h <= 0 {
		return 0
	}
	if h >= 1 {
		return safeRound(h * 100)
	}
	return safeRound(-100 / h)
}

// FormatAmerican renders a canonical price with an explicit sign: +150, -200.
func FormatAmerican(v int) string {
	return fmt.Sprintf("%+d", v)
}

func safeRound(v float64) int {
	if math.IsNaN(v) || v > math.MaxInt32 || v < math.MinInt32 {
		return 0
	}
	return int(math.Round(v))
}
