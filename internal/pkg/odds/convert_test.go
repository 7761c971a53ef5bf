package odds

import (
	"math"
	"testing"
)

func TestDecimalToAmerican(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{2.0, 100},
		{3.5, 250},
		{11.0, 1000},
		{1.5, -200},
		{1.25, -400},
		{1.01, -10000},
		{2.05, 105},
		{1.91, -110},
		// degenerate inputs collapse to the neutral price: a decimal
		// price below 1 is impossible, never a valid negative-odds input
		{0, 0},
		{1.0, 0},
		{0.5, 0},
		{-1.5, 0},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{math.Inf(-1), 0},
	}
	for _, tt := range tests {
		if got := DecimalToAmerican(tt.in); got != tt.want {
			t.Errorf("DecimalToAmerican(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestHongKongToAmerican(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{1.0, 100},
		{2.0, 200},
		{0.5, -200},
		{0.95, -105},
		{0.85, -118},
		{1.08, 108},
		{0, 0},
		{-2, 0},
		{-0.5, 0},
		{math.NaN(), 0},
		{math.Inf(1), 0},
	}
	for _, tt := range tests {
		if got := HongKongToAmerican(tt.in); got != tt.want {
			t.Errorf("HongKongToAmerican(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFormatAmerican(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{150, "+150"},
		{-200, "-200"},
		{0, "+0"},
	}
	for _, tt := range tests {
		if got := FormatAmerican(tt.in); got != tt.want {
			t.Errorf("FormatAmerican(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
