// Money parsing for currency-formatted amount strings.
//
// Upstream stamps amounts as display strings ("$1,234.50", "-€12,00").
// ParseAmount canonicalizes them to a decimal; anything unparsable
// canonicalizes to zero rather than an error, because a zero amount is
// already excluded downstream as a failed scan.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a currency-formatted string to its canonical
// decimal. Currency symbols, thousands separators and whitespace are
// stripped; a single leading minus is preserved. Unparsable input
// yields decimal.Zero, so zero is indistinguishable from
// "field absent", which the classifier re-checks.
func ParseAmount(s string) decimal.Decimal {
	cleaned := stripCurrency(s)
	if cleaned == "" || cleaned == "-" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseAbsAmount is the aggregation-path variant: every spend and risk
// total sums absolute values, so negative scans count by magnitude.
func ParseAbsAmount(s string) decimal.Decimal {
	return ParseAmount(s).Abs()
}

func stripCurrency(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	neg := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0 && !neg:
			neg = true
		case r == ',', r == '$', r == '€', r == '£':
			// thousands separator or currency symbol
		case r == ' ', r == '\t', r == ' ':
			// whitespace, including the non-breaking space some
			// locales put between symbol and digits
		default:
			// any other rune makes the whole string unparsable
			return ""
		}
	}
	if b.Len() == 0 {
		return ""
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
