// pkg/valueobjects/money.go
package valueobjects

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// amountReplacer strips the currency decoration models tend to add to amounts.
var amountReplacer = strings.NewReplacer("$", "", ",", "")

// ParseAmount coerces a decoded JSON value into a dollar amount. Numbers are
// taken as-is; strings have "$" and "," removed and are trimmed before
// parsing. Anything else, including NaN and infinities, is rejected.
func ParseAmount(v interface{}) (decimal.Decimal, bool) {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(val), true
	case int:
		return decimal.NewFromInt(int64(val)), true
	case int64:
		return decimal.NewFromInt(val), true
	case string:
		cleaned := strings.TrimSpace(amountReplacer.Replace(val))
		if cleaned == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(cleaned)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}

// FormatUSD renders an amount as "$1,234.56".
func FormatUSD(amount decimal.Decimal) string {
	fixed := amount.Abs().StringFixed(2)
	whole, frac := fixed, ""
	if i := strings.IndexByte(fixed, '.'); i >= 0 {
		whole, frac = fixed[:i], fixed[i:]
	}

	var b strings.Builder
	if amount.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(frac)
	return b.String()
}

// AmountFloat converts a parsed amount to the float64 sent in API responses.
func AmountFloat(amount decimal.Decimal) float64 {
	f, _ := amount.Float64()
	return f
}
