package services

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney formats an amount with the given currency symbol, thousands
// separators and exactly 2 decimal places, e.g. $12,345.60.
func FormatMoney(amount decimal.Decimal, symbol string) string {
	negative := amount.IsNegative()
	raw := amount.Abs().StringFixed(2)

	parts := strings.SplitN(raw, ".", 2)
	result := symbol + applyThousandsGrouping(parts[0]) + "." + parts[1]
	if negative && !amount.Round(2).IsZero() {
		result = "-" + result
	}
	return result
}

// FormatPercent renders a percentage without trailing zeros, e.g. 12.5%.
func FormatPercent(pct float64) string {
	return decimal.NewFromFloat(pct).String() + "%"
}

func formatQty(qty int) string {
	return strconv.Itoa(qty)
}

// applyThousandsGrouping inserts a comma every 3 digits from the right.
func applyThousandsGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
