package invoice

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a parse failure.
type Kind int

const (
	// KindStructural: the document is not recognizable as an invoice of the
	// expected shape, e.g. no item table.
	KindStructural Kind = iota + 1
	// KindFieldExtraction: the document has the expected shape but a
	// mandatory field could not be found next to its label.
	KindFieldExtraction
	// KindNormalization: a value was found but is not a valid number, amount
	// or date.
	KindNormalization
	// KindValidation: individually valid values contradict each other.
	KindValidation
	// KindIO: the input could not be read or decoded.
	KindIO
)

// Sentinels matched by errors.Is against any *ParseError of that kind.
var (
	ErrStructural      = errors.New("structural error")
	ErrFieldExtraction = errors.New("field extraction error")
	ErrNormalization   = errors.New("normalization error")
	ErrValidation      = errors.New("validation error")
	ErrIO              = errors.New("io error")
)

// Causes carried in ParseError.Err.
var (
	ErrItemTableNotFound = errors.New("no item table found")
	ErrUnclassifiedRow   = errors.New("row matches no known row shape")
	ErrFieldNotFound     = errors.New("label not found")
	ErrEmptyValue        = errors.New("empty value")
	ErrNoLineItems       = errors.New("no line items")
	ErrItemCountMismatch = errors.New("stated item count differs from item rows")
	ErrMixedCurrency     = errors.New("amounts use more than one currency")
	ErrDateOrder         = errors.New("date precedes issue date")
	ErrNegativeQuantity  = errors.New("negative quantity")
)

var kindSentinels = map[Kind]error{
	KindStructural:      ErrStructural,
	KindFieldExtraction: ErrFieldExtraction,
	KindNormalization:   ErrNormalization,
	KindValidation:      ErrValidation,
	KindIO:              ErrIO,
}

func (k Kind) String() string {
	if err, ok := kindSentinels[k]; ok {
		return err.Error()
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Guidance returns a short user-facing hint for the kind of failure.
func (k Kind) Guidance() string {
	switch k {
	case KindStructural:
		return "The file does not look like a supported invoice. Check that the right document was exported."
	case KindFieldExtraction:
		return "The invoice is missing a required field. Re-export the complete document."
	case KindNormalization:
		return "A number, amount or date in the invoice could not be read. Check the value shown in the error."
	case KindValidation:
		return "The invoice contents are inconsistent. Re-export the document or check it by hand."
	case KindIO:
		return "The file could not be read. Check the path and permissions."
	}
	return "The invoice could not be parsed."
}

// ParseError is the single error type returned by the parser.
type ParseError struct {
	Kind  Kind
	Field string // field or column name, if any
	Raw   string // offending source text, if any
	Row   int    // 1-based row within the item table, 0 when not row related
	Err   error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Field != "" {
		fmt.Fprintf(&b, ": %s", e.Field)
	}
	if e.Row > 0 {
		fmt.Fprintf(&b, " (row %d)", e.Row)
	}
	if e.Raw != "" {
		fmt.Fprintf(&b, " %q", e.Raw)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is matches the kind sentinels, so errors.Is(err, ErrValidation) holds for
// every validation failure.
func (e *ParseError) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// KindOf returns the Kind of a *ParseError in err's chain, or 0.
func KindOf(err error) Kind {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}
