package odds

import (
	"testing"

	"github.com/Vodeneev/matchwatch/internal/pkg/models"
)

func at(n int) models.OddsMinute { return models.OddsMinute{Minute: n} }
func pre() models.OddsMinute     { return models.OddsMinute{PreMatch: true} }

func TestWindowContains(t *testing.T) {
	w := EarlyWindow
	tests := []struct {
		m    models.OddsMinute
		want bool
	}{
		{at(4), true},
		{at(5), true},
		{at(6), true},
		{at(3), false},
		{at(7), false},
		{at(0), false},
		{pre(), false},
	}
	for _, tt := range tests {
		if got := w.Contains(tt.m); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.m, got, tt.want)
		}
	}
}

func TestSelectIndex(t *testing.T) {
	tests := []struct {
		name  string
		times []models.OddsMinute
		want  int
	}{
		// exact hit wins over closer-but-outside samples
		{"exact hit", []models.OddsMinute{at(1), at(4), at(7)}, 1},
		// last exact hit in provider order wins
		{"last exact hit", []models.OddsMinute{at(4), at(5), at(6), at(9)}, 2},
		// no hit: nearest numeric minute
		{"nearest below", []models.OddsMinute{at(1), at(2), at(8)}, 1},
		{"nearest above", []models.OddsMinute{at(9), at(8), at(30)}, 1},
		// equidistant: earliest minute wins
		{"tie earliest minute", []models.OddsMinute{at(8), at(2)}, 1},
		// same minute twice: earliest position wins
		{"tie earliest position", []models.OddsMinute{at(8), at(8)}, 0},
		// numeric minutes beat pre-match no matter how far off
		{"numeric beats prematch", []models.OddsMinute{pre(), at(85), pre()}, 1},
		// only pre-match: last one wins
		{"prematch fallback", []models.OddsMinute{pre(), pre(), pre()}, 2},
		{"empty", nil, -1},
	}
	for _, tt := range tests {
		if got := EarlyWindow.SelectIndex(tt.times); got != tt.want {
			t.Errorf("%s: SelectIndex(%v) = %d, want %d", tt.name, tt.times, got, tt.want)
		}
	}
}
