package catalog

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"speedwaymoto.fr/storefront-web/internal/format"
)

// PriceKind tells which JSON shape a price was given in.
type PriceKind int

const (
	PriceAbsent PriceKind = iota
	PriceNumber
	PriceText
	PriceStructured
)

// Price is a raw price: a number, a display string, or a {web, recommended, discounted} object.
type Price struct {
	Kind        PriceKind
	Number      decimal.Decimal
	Text        string
	Web         Amount
	Recommended Amount
	Discounted  Amount
}

// UnmarshalJSON never fails; unsupported shapes decode as PriceAbsent.
func (p *Price) UnmarshalJSON(b []byte) error {
	*p = Price{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch c := b[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(b, &s); err == nil && strings.TrimSpace(s) != "" {
			p.Kind = PriceText
			p.Text = s
		}
	case c == '{':
		var obj struct {
			Web         Amount `json:"web"`
			Recommended Amount `json:"recommended"`
			Discounted  Amount `json:"discounted"`
		}
		if err := json.Unmarshal(b, &obj); err == nil {
			p.Kind = PriceStructured
			p.Web = obj.Web
			p.Recommended = obj.Recommended
			p.Discounted = obj.Discounted
		}
	case c == '-' || (c >= '0' && c <= '9'):
		if d, err := decimal.NewFromString(string(b)); err == nil {
			p.Kind = PriceNumber
			p.Number = d
		}
	}
	return nil
}

// Amount is one member of a structured price, or a standalone sale/list price.
type Amount struct {
	Value   decimal.Decimal
	Text    string
	Numeric bool
	set     bool
}

// NewAmount builds a numeric amount.
func NewAmount(v decimal.Decimal) Amount {
	return Amount{Value: v, Numeric: true, set: true}
}

// TextAmount builds an amount given as display text.
func TextAmount(s string) Amount {
	return Amount{Text: s, set: true}
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	*a = Amount{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch c := b[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			*a = TextAmount(s)
		}
	case c == '-' || (c >= '0' && c <= '9'):
		if d, err := decimal.NewFromString(string(b)); err == nil {
			*a = NewAmount(d)
		}
	}
	return nil
}

// IsSet reports whether the amount carries a usable value. Absent, null and
// blank values count as missing; a numeric zero is a price.
func (a Amount) IsSet() bool {
	if !a.set {
		return false
	}
	if a.Numeric {
		return true
	}
	return strings.TrimSpace(a.Text) != ""
}

// IsZero reports a numeric amount of exactly zero.
func (a Amount) IsZero() bool {
	return a.set && a.Numeric && a.Value.IsZero()
}

// Display renders the amount. Numbers use their shortest form; text is kept
// as is, gaining the euro suffix only when it has no currency mark.
func (a Amount) Display() string {
	if !a.IsSet() {
		return ""
	}
	if a.Numeric {
		return format.Euro(a.Value, false)
	}
	text := strings.TrimSpace(a.Text)
	if format.HasCurrency(text) {
		return text
	}
	return text + format.EuroSuffix
}

// Decimal returns the numeric value, parsing text amounts.
func (a Amount) Decimal() (decimal.Decimal, bool) {
	if !a.IsSet() {
		return decimal.Zero, false
	}
	if a.Numeric {
		return a.Value, true
	}
	return ParsePrice(a.Text)
}

func sameAmount(x, y Amount) bool {
	dx, okx := x.Decimal()
	dy, oky := y.Decimal()
	if okx && oky {
		return dx.Equal(dy)
	}
	return x.Display() == y.Display()
}

// PriceInfo is the display form of a price.
type PriceInfo struct {
	Current  string          `json:"current"`
	Original string          `json:"original,omitempty"`
	Value    decimal.Decimal `json:"value"`
	Known    bool            `json:"known"`
}

// HasDiscount reports whether a struck-through list price should be shown.
func (p PriceInfo) HasDiscount() bool {
	return p.Original != "" && p.Original != p.Current
}

// FormatPrice derives the current and original price strings.
//
//   - number: two fixed decimals with the euro suffix
//   - string: unchanged
//   - object: discounted, then web, then recommended; recommended becomes the
//     original price only when it differs from the chosen value
func FormatPrice(p Price) PriceInfo {
	switch p.Kind {
	case PriceNumber:
		return PriceInfo{Current: format.Euro(p.Number, true), Value: p.Number, Known: true}
	case PriceText:
		info := PriceInfo{Current: p.Text}
		info.Value, info.Known = ParsePrice(p.Text)
		return info
	case PriceStructured:
		return priceFromAmounts(p.Recommended, p.Discounted, p.Web, p.Recommended)
	}
	return PriceInfo{}
}

// priceFromAmounts picks the first set candidate as current price and exposes
// list as original when it differs.
func priceFromAmounts(list Amount, candidates ...Amount) PriceInfo {
	var current Amount
	for _, c := range candidates {
		if c.IsSet() {
			current = c
			break
		}
	}
	if !current.IsSet() {
		return PriceInfo{}
	}
	info := PriceInfo{Current: current.Display()}
	info.Value, info.Known = current.Decimal()
	if list.IsSet() && !sameAmount(current, list) {
		info.Original = list.Display()
	}
	return info
}

// ParsePrice extracts a number from a display price such as "49,90 €" or
// "1 299,00 €". A comma is read as the decimal separator unless a dot follows
// it; repeated separators are taken as thousands grouping.
func ParsePrice(s string) (decimal.Decimal, bool) {
	var b strings.Builder
	for i, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsDigit(r), r == ',', r == '.':
			b.WriteRune(r)
		case r == '-' && i == 0:
			b.WriteRune(r)
		}
	}
	t := b.String()
	lastComma := strings.LastIndexByte(t, ',')
	lastDot := strings.LastIndexByte(t, '.')
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			t = strings.ReplaceAll(t, ".", "")
			t = strings.Replace(t, ",", ".", 1)
		} else {
			t = strings.ReplaceAll(t, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(t, ",") > 1 {
			t = strings.ReplaceAll(t, ",", "")
		} else {
			t = strings.Replace(t, ",", ".", 1)
		}
	case lastDot >= 0:
		if strings.Count(t, ".") > 1 {
			t = strings.ReplaceAll(t, ".", "")
		}
	}
	t = strings.TrimRight(t, ".")
	if t == "" || t == "-" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(t)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
