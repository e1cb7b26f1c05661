package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeBonus(t *testing.T) {
	tests := []struct {
		name      string
		offerText string
		qty       int
		want      int
	}{
		{"exact threshold", "5+1", 5, 1},
		{"scales with multiples", "5+1", 12, 2},
		{"below threshold", "5+1", 4, 0},
		{"three for one", "3+1", 9, 3},
		{"multi free units", "6+2", 12, 4},
		{"spaces around plus", "Buy 5 + 1 Free!", 10, 2},
		{"pattern inside text", "MEGA DEAL 10+3 this week", 20, 6},
		{"no pattern", "10% off", 50, 0},
		{"empty text", "", 10, 0},
		{"zero quantity", "5+1", 0, 0},
		{"negative quantity", "5+1", -3, 0},
		{"zero buy threshold", "0+5", 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeBonus(tt.offerText, tt.qty))
		})
	}
}

func TestComputeBonusUsesFirstMatch(t *testing.T) {
	// Only the first buy+free pair in the text counts.
	assert.Equal(t, 2, ComputeBonus("5+1 or 3+2", 10))
}
