package normalize

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

var (
	ErrMalformedDate = errors.New("unrecognized date format")
	ErrAmbiguousDate = errors.New("ambiguous date")
	ErrInvalidDate   = errors.New("invalid calendar date")
)

// dateShape is one accepted date layout. The year, month and day
// sub-matches are named so shapes can order them freely.
type dateShape struct {
	name string
	re   *regexp.Regexp
}

// Accepted layouts, all year first. Separators within one date must agree.
var dateShapes = []dateShape{
	{"slash", regexp.MustCompile(`^(?P<y>[0-9]{4})/(?P<m>[0-9]{1,2})/(?P<d>[0-9]{1,2})$`)},
	{"dash", regexp.MustCompile(`^(?P<y>[0-9]{4})-(?P<m>[0-9]{1,2})-(?P<d>[0-9]{1,2})$`)},
	{"dot", regexp.MustCompile(`^(?P<y>[0-9]{4})\.(?P<m>[0-9]{1,2})\.(?P<d>[0-9]{1,2})$`)},
	{"kanji", regexp.MustCompile(`^(?P<y>[0-9]{4})年(?P<m>[0-9]{1,2})月(?P<d>[0-9]{1,2})日$`)},
}

// Shapes that carry a date but cannot be read without guessing the field
// order or the century.
var ambiguousShapes = []*regexp.Regexp{
	regexp.MustCompile(`^[0-9]{1,2}[/.-][0-9]{1,2}[/.-][0-9]{2,4}$`),
	regexp.MustCompile(`^[0-9]{2}[/.-][0-9]{1,2}[/.-][0-9]{1,2}$`),
	regexp.MustCompile(`^[0-9]{1,2}月[0-9]{1,2}日$`),
}

var eraShape = regexp.MustCompile(`^(?P<era>令和|平成|昭和)(?P<y>元|[0-9]{1,2})年(?P<m>[0-9]{1,2})月(?P<d>[0-9]{1,2})日$`)

type era struct {
	first civil.Date
	last  civil.Date // zero for the current era
}

var eras = map[string]era{
	"昭和": {first: civil.Date{Year: 1926, Month: time.December, Day: 25}, last: civil.Date{Year: 1989, Month: time.January, Day: 7}},
	"平成": {first: civil.Date{Year: 1989, Month: time.January, Day: 8}, last: civil.Date{Year: 2019, Month: time.April, Day: 30}},
	"令和": {first: civil.Date{Year: 2019, Month: time.May, Day: 1}},
}

var (
	// a weekday after the day, optionally followed by the time of day
	weekdaySuffix = regexp.MustCompile(`\s*\([^()]*\)\s*([0-9]{1,2}:[0-9]{2}(:[0-9]{2})?)?$`)
	timeSuffix    = regexp.MustCompile(`\s+[0-9]{1,2}:[0-9]{2}(:[0-9]{2})?$`)
)

// Date parses a calendar date such as "2025/01/03", "2025年1月3日(金)",
// "2025-01-03 10:15" or "令和7年1月3日". A time of day and a weekday are
// dropped. Day-first, month-first and two-digit-year forms are rejected as
// ambiguous.
func Date(raw string) (civil.Date, error) {
	s := Text(raw)
	s = weekdaySuffix.ReplaceAllString(s, " ${1}")
	s = strings.TrimSpace(timeSuffix.ReplaceAllString(strings.TrimSpace(s), ""))
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return civil.Date{}, fmt.Errorf("%w: %q", ErrMalformedDate, raw)
	}

	if m := eraShape.FindStringSubmatch(s); m != nil {
		return eraDate(raw, m)
	}

	for _, shape := range dateShapes {
		m := shape.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		y, _ := strconv.Atoi(m[shape.re.SubexpIndex("y")])
		return makeDate(raw, y, m[shape.re.SubexpIndex("m")], m[shape.re.SubexpIndex("d")])
	}

	for _, re := range ambiguousShapes {
		if re.MatchString(s) {
			return civil.Date{}, fmt.Errorf("%w: %q", ErrAmbiguousDate, raw)
		}
	}
	return civil.Date{}, fmt.Errorf("%w: %q", ErrMalformedDate, raw)
}

func eraDate(raw string, m []string) (civil.Date, error) {
	e := eras[m[eraShape.SubexpIndex("era")]]
	n := 1
	if y := m[eraShape.SubexpIndex("y")]; y != "元" {
		n, _ = strconv.Atoi(y)
	}
	if n < 1 {
		return civil.Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	d, err := makeDate(raw, e.first.Year+n-1, m[eraShape.SubexpIndex("m")], m[eraShape.SubexpIndex("d")])
	if err != nil {
		return civil.Date{}, err
	}
	if d.Before(e.first) || (e.last.IsValid() && d.After(e.last)) {
		return civil.Date{}, fmt.Errorf("%w: %q is outside the era", ErrInvalidDate, raw)
	}
	return d, nil
}

func makeDate(raw string, year int, month, day string) (civil.Date, error) {
	mo, _ := strconv.Atoi(month)
	dd, _ := strconv.Atoi(day)
	d := civil.Date{Year: year, Month: time.Month(mo), Day: dd}
	if !d.IsValid() {
		return civil.Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return d, nil
}
