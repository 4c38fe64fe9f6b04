package normalize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrMalformedNumber = errors.New("malformed number")
	ErrOutOfRange      = errors.New("value out of range")
	ErrUnknownCurrency = errors.New("unknown currency")
	ErrPrecision       = errors.New("more fractional digits than the currency allows")
)

// Accepted numeral shapes, after width folding and sign removal:
// comma-grouped in threes or ungrouped, with an optional dot fraction.
var numberShapes = []*regexp.Regexp{
	regexp.MustCompile(`^[0-9]{1,3}(,[0-9]{3})+(\.[0-9]+)?$`),
	regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`),
}

// minus signs seen in Japanese business documents
var minusSigns = []string{"-", "−", "△", "▲"}

// Currency describes one recognized currency marker set.
type Currency struct {
	Code      string
	Precision int32 // minor-unit digits
	Prefixes  []string
	Suffixes  []string
}

// currencies is the table of currencies the scraper recognizes. Codes are
// accepted as prefix or suffix in addition to the listed symbols.
var currencies = []Currency{
	{Code: "JPY", Precision: 0, Prefixes: []string{"¥"}, Suffixes: []string{"円"}},
	{Code: "USD", Precision: 2, Prefixes: []string{"US$", "$"}},
	{Code: "EUR", Precision: 2, Prefixes: []string{"€"}, Suffixes: []string{"€"}},
}

// Amount is a monetary value with the currency marker it was written with.
// Currency is empty when the text carried no marker.
type Amount struct {
	Value    decimal.Decimal
	Currency string
}

// CurrencyPrecision returns the number of minor-unit digits for an ISO code.
func CurrencyPrecision(code string) (int32, error) {
	for _, c := range currencies {
		if c.Code == code {
			return c.Precision, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
}

// CheckPrecision fails when d has more fractional digits than the currency's
// minor unit, e.g. 10.5 yen.
func CheckPrecision(d decimal.Decimal, code string) error {
	prec, err := CurrencyPrecision(code)
	if err != nil {
		return err
	}
	if !d.Equal(d.Truncate(prec)) {
		return fmt.Errorf("%w: %s %s", ErrPrecision, d.String(), code)
	}
	return nil
}

// Decimal parses a locale-formatted numeral such as "1,234", "１２３.５" or
// "△500". Thousands separators must group exactly three digits.
func Decimal(raw string) (decimal.Decimal, error) {
	neg, s := cutSign(Text(raw))
	return parseUnsigned(raw, s, neg)
}

// Money parses an amount with at most one currency marker, e.g. "¥1,234",
// "1,234円", "-$12.50" or "JPY 500". A bare numeral yields an empty
// Currency. A trailing parenthesized note such as "(税込)" is ignored.
func Money(raw string) (Amount, error) {
	s := Text(raw)
	if i := strings.LastIndex(s, "("); i > 0 && strings.HasSuffix(s, ")") {
		s = strings.TrimSpace(s[:i])
	}

	neg, s := cutSign(s)
	code, s := cutCurrency(s)
	if !neg {
		neg, s = cutSign(s)
	}
	d, err := parseUnsigned(raw, s, neg)
	if err != nil {
		return Amount{}, err
	}
	return Amount{Value: d, Currency: code}, nil
}

// Percent parses a rate such as "10%", "８％" or "8". The value must lie in
// [0, 100].
func Percent(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(strings.TrimSuffix(Text(raw), "%"))
	d, err := Decimal(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedNumber, raw)
	}
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrOutOfRange, raw)
	}
	return d, nil
}

func cutSign(s string) (bool, string) {
	for _, m := range minusSigns {
		if rest, ok := strings.CutPrefix(s, m); ok {
			return true, strings.TrimSpace(rest)
		}
	}
	return false, s
}

// cutCurrency strips one currency marker. Anything left over, such as a
// second marker, is rejected later by the numeral shapes.
func cutCurrency(s string) (string, string) {
	for _, c := range currencies {
		for _, p := range append([]string{c.Code}, c.Prefixes...) {
			if rest, ok := strings.CutPrefix(s, p); ok {
				return c.Code, strings.TrimSpace(rest)
			}
		}
		for _, sfx := range append([]string{c.Code}, c.Suffixes...) {
			if rest, ok := strings.CutSuffix(s, sfx); ok {
				return c.Code, strings.TrimSpace(rest)
			}
		}
	}
	return "", s
}

func parseUnsigned(raw, s string, neg bool) (decimal.Decimal, error) {
	matched := false
	for _, shape := range numberShapes {
		if shape.MatchString(s) {
			matched = true
			break
		}
	}
	if !matched {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedNumber, raw)
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedNumber, raw)
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}
