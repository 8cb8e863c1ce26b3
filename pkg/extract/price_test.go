package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/soundline/catalog-sync/pkg/extract"
)

func TestPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		want   float64
		wantOK bool
	}{
		{"plain", "1234.50", 1234.50, true},
		{"rand symbol with thousands", "R1,234.50", 1234.50, true},
		{"dollar", "$999.99", 999.99, true},
		{"euro with space", "€ 1 299.00", 1299.00, true},
		{"comma decimal", "1234,56", 1234.56, true},
		{"comma decimal single digit", "99,5", 99.5, true},
		{"comma thousands only", "1,234", 1234.0, true},
		{"multiple thousands groups", "1,234,567.89", 1234567.89, true},
		{"comma followed by three digits is thousands", "12,345", 12345.0, true},
		{"integer", "450", 450.0, true},
		{"zero", "0", 0.0, true},
		{"empty", "", 0, false},
		{"whitespace only", "   ", 0, false},
		{"symbols only", "R$", 0, false},
		{"not a number", "call for price", 0, false},
		{"trailing garbage", "123abc", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := extract.Price(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}
