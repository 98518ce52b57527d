package report

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatMoney renders an amount as "$1,234.56". Negative amounts keep the
// sign after the currency symbol ("$-30.00").
//
// Only the whole part goes through the printer for grouping; the cents come
// from the decimal itself so the amount is never converted to float64.
func FormatMoney(d decimal.Decimal) string {
	r := d.Round(2)

	sign := ""
	if r.Sign() < 0 {
		sign = "-"
	}
	r = r.Abs()

	_, cents, _ := strings.Cut(r.StringFixed(2), ".")

	whole := r.Truncate(0).BigInt()
	digits := whole.String()
	if whole.IsInt64() {
		digits = message.NewPrinter(language.English).Sprintf("%d", whole.Int64())
	}

	return "$" + sign + digits + "." + cents
}
