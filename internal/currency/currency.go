// Package currency holds the static table of supported currencies and the
// display formatters. Formatting is a total function: any finite amount and
// any code produce a non-empty string, unknown codes degrade to the Naira
// symbol with en-NG grouping.
package currency

import (
	"math"
	"strconv"
	"strings"
)

// BaseCurrency is the currency stored amounts are denominated in.
// Conversion in Format is opt-in: it only happens when a positive rate is
// supplied and the target code differs from this base.
const BaseCurrency = "NGN"

// Currency is a static reference entity, immutable for the process lifetime.
type Currency struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Flag   string `json:"flag"`
}

var Currencies = []Currency{
	{Code: "NGN", Name: "Nigerian Naira", Symbol: "₦", Flag: "🇳🇬"},
	{Code: "USD", Name: "US Dollar", Symbol: "$", Flag: "🇺🇸"},
	{Code: "EUR", Name: "Euro", Symbol: "€", Flag: "🇪🇺"},
	{Code: "GBP", Name: "British Pound", Symbol: "£", Flag: "🇬🇧"},
	{Code: "JPY", Name: "Japanese Yen", Symbol: "¥", Flag: "🇯🇵"},
	{Code: "CAD", Name: "Canadian Dollar", Symbol: "C$", Flag: "🇨🇦"},
	{Code: "AUD", Name: "Australian Dollar", Symbol: "A$", Flag: "🇦🇺"},
	{Code: "CHF", Name: "Swiss Franc", Symbol: "CHF", Flag: "🇨🇭"},
	{Code: "CNY", Name: "Chinese Yuan", Symbol: "¥", Flag: "🇨🇳"},
	{Code: "INR", Name: "Indian Rupee", Symbol: "₹", Flag: "🇮🇳"},
}

// Lookup finds a supported currency by ISO code.
func Lookup(code string) (Currency, bool) {
	for _, c := range Currencies {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{}, false
}

// Codes returns the supported ISO codes in table order.
func Codes() []string {
	out := make([]string, len(Currencies))
	for i, c := range Currencies {
		out[i] = c.Code
	}
	return out
}

// localeStyle captures the separator conventions of the locale mapped to a
// currency code. Unmapped codes use the en-US style.
type localeStyle struct {
	group   string
	decimal string
	indian  bool // 1,00,000 style grouping
}

var localeStyles = map[string]localeStyle{
	"NGN": {group: ",", decimal: "."},
	"USD": {group: ",", decimal: "."},
	"EUR": {group: ".", decimal: ","}, // de-DE
	"GBP": {group: ",", decimal: "."},
	"JPY": {group: ",", decimal: "."},
	"CAD": {group: ",", decimal: "."},
	"AUD": {group: ",", decimal: "."},
	"CHF": {group: "’", decimal: "."}, // de-CH
	"CNY": {group: ",", decimal: "."},
	"INR": {group: ",", decimal: ".", indian: true},
}

var defaultStyle = localeStyle{group: ",", decimal: "."}

// Format renders an amount as a symbol-prefixed, locale-grouped string.
// A positive rate converts base-currency amounts into the target currency;
// with no rate the raw amount is shown unconverted.
func Format(amount float64, code string, rate float64) string {
	cur, known := Lookup(code)
	if !known {
		cur = Currencies[0] // NGN fallback, en-NG grouping
		code = BaseCurrency
	}
	if rate > 0 && code != BaseCurrency {
		amount *= rate
	}
	style, ok := localeStyles[code]
	if !ok {
		style = defaultStyle
	}
	return cur.Symbol + localize(amount, style)
}

// FormatShort is Format with magnitude collapsing: amounts >= 1,000,000
// render as "X.YM" and >= 1,000 as "X.YK", both symbol-prefixed. The
// thresholds apply to the converted amount.
func FormatShort(amount float64, code string, rate float64) string {
	cur, known := Lookup(code)
	if !known {
		cur = Currencies[0]
		code = BaseCurrency
	}
	if rate > 0 && code != BaseCurrency {
		amount *= rate
	}
	switch {
	case amount >= 1_000_000:
		return cur.Symbol + strconv.FormatFloat(amount/1_000_000, 'f', 1, 64) + "M"
	case amount >= 1_000:
		return cur.Symbol + strconv.FormatFloat(amount/1_000, 'f', 1, 64) + "K"
	}
	style, ok := localeStyles[code]
	if !ok {
		style = defaultStyle
	}
	return cur.Symbol + localize(amount, style)
}

// localize renders the number with the locale's separators, grouping the
// integer digits and keeping at most two fraction digits with trailing
// zeros trimmed.
func localize(amount float64, style localeStyle) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "0"
	}
	neg := math.Signbit(amount)
	abs := math.Abs(amount)

	// Round to 2 decimals first so 999.999 does not group as 999.
	rounded := math.Round(abs*100) / 100
	intPart := uint64(rounded)
	frac := rounded - float64(intPart)

	digits := strconv.FormatUint(intPart, 10)
	grouped := group(digits, style)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(grouped)
	if frac > 0 {
		f := strconv.FormatFloat(frac, 'f', 2, 64) // "0.xy"
		f = strings.TrimRight(f[1:], "0")          // ".x" or ".xy"
		if f != "." {
			b.WriteString(style.decimal)
			b.WriteString(f[1:])
		}
	}
	return b.String()
}

func group(digits string, style localeStyle) string {
	if len(digits) <= 3 {
		return digits
	}
	var parts []string
	rest := digits
	// Rightmost group is always three digits; Indian grouping then
	// continues in pairs.
	parts = append(parts, rest[len(rest)-3:])
	rest = rest[:len(rest)-3]
	width := 3
	if style.indian {
		width = 2
	}
	for len(rest) > width {
		parts = append(parts, rest[len(rest)-width:])
		rest = rest[:len(rest)-width]
	}
	if rest != "" {
		parts = append(parts, rest)
	}
	var b strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteString(parts[i])
		if i > 0 {
			b.WriteString(style.group)
		}
	}
	return b.String()
}
