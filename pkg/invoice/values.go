package invoice

import (
	"errors"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/gardar/invoicekit/pkg/normalize"
)

var errNotWholeNumber = errors.New("not a whole number")

// moneyRecord remembers a parsed amount until the document currency is
// known and its precision can be checked.
type moneyRecord struct {
	field string
	raw   string
	row   int
	value decimal.Decimal
}

// moneyLedger tracks the currency markers seen during one parse. The first
// marker fixes the document currency; a different marker later is an error.
type moneyLedger struct {
	currency string
	records  []moneyRecord
}

func (l *moneyLedger) parse(field, raw string, row int) (decimal.Decimal, error) {
	a, err := normalize.Money(raw)
	if err != nil {
		return decimal.Zero, normalizationError(field, raw, row, err)
	}
	if a.Currency != "" {
		switch l.currency {
		case "":
			l.currency = a.Currency
		case a.Currency:
		default:
			return decimal.Zero, &ParseError{Kind: KindValidation, Field: field, Raw: raw, Row: row, Err: ErrMixedCurrency}
		}
	}
	l.records = append(l.records, moneyRecord{field: field, raw: raw, row: row, value: a.Value})
	return a.Value, nil
}

// resolve returns the document currency, falling back to def when no amount
// carried a marker, and checks every amount against its minor unit.
func (l *moneyLedger) resolve(def string) (string, error) {
	code := l.currency
	if code == "" {
		code = def
	}
	for _, r := range l.records {
		if err := normalize.CheckPrecision(r.value, code); err != nil {
			return "", normalizationError(r.field, r.raw, r.row, err)
		}
	}
	return code, nil
}

func parseDate(field, raw string) (civil.Date, error) {
	d, err := normalize.Date(raw)
	if err != nil {
		return civil.Date{}, normalizationError(field, raw, 0, err)
	}
	return d, nil
}

// parseCount reads a stated count such as "3" or "３件".
func parseCount(field, raw string) (int, error) {
	s := normalize.Text(raw)
	for _, suffix := range []string{"件", "点", "items", "item"} {
		if rest, ok := strings.CutSuffix(s, suffix); ok {
			s = strings.TrimSpace(rest)
			break
		}
	}
	d, err := normalize.Decimal(s)
	if err != nil {
		return 0, normalizationError(field, raw, 0, err)
	}
	if !d.IsInteger() || d.IsNegative() || !d.LessThan(decimal.NewFromInt(1<<31)) {
		return 0, normalizationError(field, raw, 0, errNotWholeNumber)
	}
	return int(d.IntPart()), nil
}
