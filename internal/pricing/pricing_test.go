package pricing_test

import (
	"testing"

	"github.com/doorland/catalog-sync/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitCalculate(t *testing.T) {
	tests := map[string]struct {
		original     string
		wantPrice    string
		wantDiscount string
	}{
		"whole price":      {original: "10000", wantPrice: "12000", wantDiscount: "10000"},
		"rounded up":       {original: "33", wantPrice: "40", wantDiscount: "33"},
		"rounded down":     {original: "12", wantPrice: "14", wantDiscount: "12"},
		"fractional input": {original: "1049.5", wantPrice: "1259", wantDiscount: "1049.5"},
		"zero":             {original: "0", wantPrice: "0", wantDiscount: "0"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			original, err := decimal.NewFromString(tt.original)
			require.NoError(t, err)

			price, discount := pricing.Calculate(original)

			assert.Equal(t, tt.wantPrice, price.String(), "should derive display price")
			assert.Equal(t, tt.wantDiscount, discount.String(), "should keep original as discount price")
		})
	}
}

func TestUnitCalculateIdempotent(t *testing.T) {
	original := decimal.NewFromInt(12000)

	first, firstDiscount := pricing.Calculate(original)
	second, secondDiscount := pricing.Calculate(original)

	assert.True(t, first.Equal(second), "price should be stable across repeated syncs")
	assert.True(t, firstDiscount.Equal(secondDiscount), "discount price should be stable across repeated syncs")
	assert.Equal(t, "14400", first.String())
}

func TestUnitParsePrice(t *testing.T) {
	tests := map[string]struct {
		text string
		want string
	}{
		"plain":              {text: "10000", want: "10000"},
		"currency sign":      {text: "10 000 ₽", want: "10000"},
		"nbsp grouping":      {text: "12 500 руб.", want: "12500"},
		"comma decimal":      {text: "1049,50", want: "1049.5"},
		"dot grouping":       {text: "1.049.50", want: "1049.5"},
		"garbage":            {text: "цена по запросу", want: "0"},
		"empty":              {text: "", want: "0"},
		"negative clamped":   {text: "-500", want: "0"},
		"prefixed with text": {text: "от 7 900 руб", want: "7900"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := pricing.ParsePrice(tt.text)
			assert.Equal(t, tt.want, got.String())
		})
	}
}
