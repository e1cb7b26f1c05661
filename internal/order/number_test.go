package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumberPrefix(t *testing.T) {
	tests := []struct {
		name    string
		company string
		want    string
	}{
		{"plain name", "Acme Traders", "ACME"},
		{"strips punctuation", "A.B. & Co", "ABCO"},
		{"short name padded", "Jo", "JOXX"},
		{"digits kept", "7-Eleven", "7ELE"},
		{"empty falls back", "", "MEDX"},
		{"symbols only falls back", "@#$%", "MEDX"},
		{"lowercase uppercased", "medplus", "MEDP"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NumberPrefix(tt.company))
		})
	}
}

func TestFormatOrderNumber(t *testing.T) {
	assert.Equal(t, "ORD-ACME-000007", FormatOrderNumber("ACME", 7))
	assert.Equal(t, "ORD-MEDX-000001", FormatOrderNumber("MEDX", 1))
	assert.Equal(t, "ORD-ACME-123456", FormatOrderNumber("ACME", 123456))
	// Sequences past six digits widen rather than truncate.
	assert.Equal(t, "ORD-ACME-1000000", FormatOrderNumber("ACME", 1000000))
}

func TestSequenceFromNumber(t *testing.T) {
	tests := []struct {
		name   string
		number string
		want   int
	}{
		{"standard number", "ORD-ACME-000007", 7},
		{"large sequence", "ORD-ACME-123456", 123456},
		{"no dashes", "garbage", 0},
		{"non numeric suffix", "ORD-ACME-FINAL", 0},
		{"trailing dash", "ORD-ACME-", 0},
		{"empty string", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SequenceFromNumber(tt.number))
		})
	}
}

func TestNumberRoundTrip(t *testing.T) {
	for _, seq := range []int{1, 42, 999999} {
		n := FormatOrderNumber(NumberPrefix("Acme Traders"), seq)
		assert.Equal(t, seq, SequenceFromNumber(n))
	}
}
