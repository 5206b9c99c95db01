package format

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EuroSuffix is appended to every formatted amount.
const EuroSuffix = " €"

// Euro formats an amount with the euro suffix. Fixed amounts always carry two
// decimals ("12.50 €"); otherwise the shortest form is used ("199 €", "199.9 €").
func Euro(amount decimal.Decimal, fixed bool) string {
	if fixed {
		return amount.StringFixed(2) + EuroSuffix
	}
	return amount.String() + EuroSuffix
}

// HasCurrency reports whether s already carries a currency mark.
func HasCurrency(s string) bool {
	return strings.ContainsAny(s, "€$£") || strings.Contains(strings.ToUpper(s), "EUR")
}

// Percent renders a whole percentage such as "-20%".
func Percent(p int64) string {
	if p <= 0 {
		return ""
	}
	return "-" + decimal.NewFromInt(p).String() + "%"
}

// FmtDate formats time in a locale-friendly short form.
func FmtDate(t time.Time, lang string) string {
	if t.IsZero() {
		return ""
	}
	switch strings.ToLower(lang) {
	case "fr":
		return t.Format("02/01/2006")
	default:
		return t.Format("Jan 2, 2006")
	}
}
