package currency

import (
	"math"
	"strings"
	"testing"
)

func TestFormatContainsSymbolForAllCodes(t *testing.T) {
	amounts := []float64{0, 1, 999.99, 1_000, 2_500_000_000}
	for _, c := range Currencies {
		for _, a := range amounts {
			got := Format(a, c.Code, 0)
			if got == "" {
				t.Fatalf("%s/%v produced empty string", c.Code, a)
			}
			if !strings.HasPrefix(got, c.Symbol) {
				t.Fatalf("Format(%v, %s) = %q, missing symbol %q", a, c.Code, got, c.Symbol)
			}
		}
	}
}

func TestFormatKnownValues(t *testing.T) {
	cases := []struct {
		amount float64
		code   string
		want   string
	}{
		{1000, "NGN", "₦1,000"},
		{100, "USD", "$100"},
		{1234567.5, "USD", "$1,234,567.5"},
		{1000000, "EUR", "€1.000.000"},
		{100000, "INR", "₹1,00,000"},
		{-2500, "NGN", "₦-2,500"},
		{0, "USD", "$0"},
	}
	for _, tc := range cases {
		if got := Format(tc.amount, tc.code, 0); got != tc.want {
			t.Errorf("Format(%v, %s) = %q, want %q", tc.amount, tc.code, got, tc.want)
		}
	}
}

func TestFormatConversionOptIn(t *testing.T) {
	// rate supplied and target differs from base: converted
	if got := Format(1000, "USD", 0.5); got != "$500" {
		t.Fatalf("converted = %q", got)
	}
	// base currency ignores the rate
	if got := Format(1000, "NGN", 0.5); got != "₦1,000" {
		t.Fatalf("base with rate = %q", got)
	}
	// no rate: raw amount
	if got := Format(1000, "USD", 0); got != "$1,000" {
		t.Fatalf("unconverted = %q", got)
	}
}

func TestFormatUnknownCodeFallsBack(t *testing.T) {
	got := Format(100, "XXX", 0)
	if got == "" {
		t.Fatal("unknown code must not produce empty string")
	}
	if !strings.HasPrefix(got, "₦") {
		t.Fatalf("unknown code should use Naira fallback, got %q", got)
	}
}

func TestFormatShortSuffixes(t *testing.T) {
	if got := FormatShort(1_000_000, "USD", 0); got != "$1.0M" {
		t.Fatalf("millions = %q", got)
	}
	if got := FormatShort(1_500, "USD", 0); got != "$1.5K" {
		t.Fatalf("thousands = %q", got)
	}
	got := FormatShort(999, "USD", 0)
	if strings.HasSuffix(got, "M") || strings.HasSuffix(got, "K") {
		t.Fatalf("sub-thousand should not collapse, got %q", got)
	}
	if got != "$999" {
		t.Fatalf("sub-thousand = %q", got)
	}
}

func TestFormatShortThresholdsUseConvertedAmount(t *testing.T) {
	// 2,000,000 NGN at 0.0006 USD/NGN is 1,200 USD: K suffix, not M
	if got := FormatShort(2_000_000, "USD", 0.0006); got != "$1.2K" {
		t.Fatalf("converted short = %q", got)
	}
}

func TestFormatTotalOverFloats(t *testing.T) {
	for _, a := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -0.0, 1e18} {
		if got := Format(a, "USD", 0); got == "" {
			t.Fatalf("Format(%v) produced empty string", a)
		}
	}
}

func TestLookup(t *testing.T) {
	if _, ok := Lookup("GBP"); !ok {
		t.Fatal("GBP should be supported")
	}
	if _, ok := Lookup("BTC"); ok {
		t.Fatal("BTC should not be supported")
	}
	if len(Codes()) != len(Currencies) {
		t.Fatal("Codes length mismatch")
	}
}
