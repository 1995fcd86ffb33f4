// Package dates resolves the flexible date arguments accepted on the command
// line into warehouse date expressions and calendar ranges.
//
// Three shapes are understood:
//   - a relative day offset, zero or negative ("-30"), meaning N days from now
//   - a calendar day ("2019-03-18")
//   - a calendar month ("2019-03"), which expands to its first and last day
//
// Every operation starts from a single classification step (Classify) so the
// shape checks live in one place.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/leapstack-labs/pkginfo/pkg/core"
)

// Layouts used when parsing and rendering dates.
const (
	DayLayout       = "2006-01-02"
	MonthLayout     = "2006-01"
	TimestampLayout = "2006-01-02 15:04:05"
)

// TimestampTemplate wraps a "YYYY-MM-DD HH:MM:SS" string in a legacy SQL
// timestamp literal. The %s placeholder receives the formatted timestamp.
const TimestampTemplate = `TIMESTAMP("%s")`

// relativeTemplate is the legacy SQL expression for "now plus N days".
const relativeTemplate = `DATE_ADD(CURRENT_TIMESTAMP(), %d, "day")`

var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// Kind identifies the shape of a date argument.
type Kind uint8

// Date argument shapes.
const (
	// Relative is a non-positive day offset from the current time.
	Relative Kind = iota + 1
	// Day is a single calendar day.
	Day
	// Month is a whole calendar month.
	Month
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Relative:
		return "relative"
	case Day:
		return "day"
	case Month:
		return "month"
	default:
		return "unknown"
	}
}

// Input is a date argument as supplied by a caller: either text or an integer
// day offset. The zero value is the empty string.
type Input struct {
	text   string
	offset int
	isInt  bool
}

// FromString wraps a textual date argument.
func FromString(s string) Input {
	return Input{text: s}
}

// FromOffset wraps an integer day offset.
func FromOffset(days int) Input {
	return Input{offset: days, isInt: true}
}

// IsInt reports whether the input was given as an integer value rather than text.
func (in Input) IsInt() bool { return in.isInt }

// String returns the textual form of the input.
func (in Input) String() string {
	if in.isInt {
		return strconv.Itoa(in.offset)
	}
	return in.text
}

// Date is a classified date argument.
type Date struct {
	Kind Kind
	// Offset is the day offset for Relative dates.
	Offset int
	// Time is the day for Day dates and the first day for Month dates.
	Time time.Time
}

// Range is the first and last day of a month as ISO dates.
type Range struct {
	First string
	Last  string
}

// Classify determines the shape of a date argument.
// Positive offsets and unparseable text fail with core.ErrFormat.
func Classify(in Input) (Date, error) {
	if in.isInt {
		return relative(in.offset)
	}

	s := in.text
	if n, err := strconv.Atoi(s); err == nil {
		return relative(n)
	}

	if monthPattern.MatchString(s) {
		t, err := time.Parse(MonthLayout, s)
		if err != nil {
			return Date{}, fmt.Errorf("%w: invalid month %q", core.ErrFormat, s)
		}
		return Date{Kind: Month, Time: t}, nil
	}

	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: dates must be negative integers or YYYY-MM-DD, got %q", core.ErrFormat, s)
	}
	return Date{Kind: Day, Time: t}, nil
}

func relative(days int) (Date, error) {
	if days > 0 {
		return Date{}, fmt.Errorf("%w: relative day offsets must be zero or negative, got %d", core.ErrFormat, days)
	}
	return Date{Kind: Relative, Offset: days}, nil
}

// ValidateDate checks that s is a non-positive integer or a YYYY-MM-DD date.
func ValidateDate(s string) error {
	d, err := Classify(FromString(s))
	if err != nil {
		return err
	}
	if d.Kind == Month {
		return fmt.Errorf("%w: dates must be negative integers or YYYY-MM-DD, got %q", core.ErrFormat, s)
	}
	return nil
}

// FormatDate converts a date argument into a legacy SQL timestamp expression.
//
// A relative offset becomes DATE_ADD(CURRENT_TIMESTAMP(), N, "day") and the
// template is not used. A calendar day is rendered as midnight of that day and
// substituted into the template's %s placeholder.
func FormatDate(s, template string) (string, error) {
	d, err := Classify(FromString(s))
	if err != nil {
		return "", err
	}

	switch d.Kind {
	case Relative:
		return fmt.Sprintf(relativeTemplate, d.Offset), nil
	case Day:
		return fmt.Sprintf(template, d.Time.Format(TimestampLayout)), nil
	default:
		return "", fmt.Errorf("%w: cannot format %s %q as a timestamp", core.ErrFormat, d.Kind, s)
	}
}

// MonthEnds returns the first and last day of a YYYY-MM month.
//
// Text of any other shape, a full date included, fails with core.ErrFormat.
// An integer input fails with core.ErrType.
func MonthEnds(in Input) (Range, error) {
	if in.isInt {
		return Range{}, fmt.Errorf("%w: month must be a YYYY-MM string, got integer %d", core.ErrType, in.offset)
	}
	if !monthPattern.MatchString(in.text) {
		return Range{}, fmt.Errorf("%w: month must match YYYY-MM, got %q", core.ErrFormat, in.text)
	}

	first, err := time.Parse(MonthLayout, in.text)
	if err != nil {
		return Range{}, fmt.Errorf("%w: invalid month %q", core.ErrFormat, in.text)
	}
	last := first.AddDate(0, 1, -1)

	return Range{
		First: first.Format(DayLayout),
		Last:  last.Format(DayLayout),
	}, nil
}

// NormalizeDates expands YYYY-MM arguments: start becomes the first day of its
// month and end the last day of its month. Each argument is resolved on its
// own and any other shape is returned unchanged.
func NormalizeDates(start, end Input) (Input, Input, error) {
	if isMonth(start) {
		r, err := MonthEnds(start)
		if err != nil {
			return start, end, fmt.Errorf("start date: %w", err)
		}
		start = FromString(r.First)
	}
	if isMonth(end) {
		r, err := MonthEnds(end)
		if err != nil {
			return start, end, fmt.Errorf("end date: %w", err)
		}
		end = FromString(r.Last)
	}
	return start, end, nil
}

func isMonth(in Input) bool {
	return !in.isInt && monthPattern.MatchString(in.text)
}
