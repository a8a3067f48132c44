// Package pricing derives display and discount prices from scraped vendor prices.
package pricing

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// markup is the display price multiplier applied to every scraped price.
var markup = decimal.NewFromFloat(1.2)

var priceCleaner = regexp.MustCompile(`[^\d.,\-]`)

// Calculate returns the display price and the discount price for a scraped
// original price. The same rule is applied on creation and on update, so
// repeated syncs are idempotent on price fields.
//
// price = round(original * 1.2), discountPrice = original.
func Calculate(original decimal.Decimal) (price, discountPrice decimal.Decimal) {
	return original.Mul(markup).Round(0), original
}

// ParsePrice extracts a decimal price from free vendor markup, tolerating
// currency glyphs, grouping spaces (including NBSP) and comma decimal
// separators. Unparsable or negative input yields zero.
func ParsePrice(text string) decimal.Decimal {
	cleaned := strings.NewReplacer(" ", "", " ", "", " ", "").Replace(text)
	cleaned = priceCleaner.ReplaceAllString(cleaned, "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	// keep only the last dot as decimal separator, the rest are grouping marks
	if parts := strings.Split(cleaned, "."); len(parts) > 2 {
		cleaned = strings.Join(parts[:len(parts)-1], "") + "." + parts[len(parts)-1]
	}

	price, err := decimal.NewFromString(cleaned)
	if err != nil || price.IsNegative() {
		return decimal.Zero
	}

	return price
}
