package lexical

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DisplayLayout is the date layout printed on certificates.
const DisplayLayout = "02/01/2006"

// RegisterLayout is the dd-MM-yyyy layout used by register entries and imports.
const RegisterLayout = "02-01-2006"

var inputLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	RegisterLayout,
	DisplayLayout,
}

// ErrUnparseableDate is returned by ParseDate when no known layout matches.
var ErrUnparseableDate = errors.New("unparseable date")

// ParseDate accepts ISO-like strings and dd-MM-yyyy / dd/MM/yyyy register dates.
// Timestamps keep the calendar date of their own offset.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrUnparseableDate
	}
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDate, s)
}

// DateStyle selects the punctuation used when spelling a date.
type DateStyle struct {
	Separator string
	Speller   Speller
}

var (
	// LeaveDateStyle renders "First January, Two Thousand Ten"-style dates.
	LeaveDateStyle = DateStyle{Separator: ", ", Speller: LeaveSpeller}
	// BonafideDateStyle omits the comma before the year.
	BonafideDateStyle = DateStyle{Separator: " ", Speller: BonafideSpeller}
)

// DateToWords spells a date, e.g. "Fifth June, Two Thousand Ten". Unparseable input yields "".
func DateToWords(s string, style DateStyle) string {
	t, err := ParseDate(s)
	if err != nil {
		return ""
	}
	return OrdinalWord(t.Day()) + " " + t.Month().String() + style.Separator + style.Speller.Spell(t.Year())
}

// MonthYear renders "June, 2015". Unparseable input yields "".
func MonthYear(s string) string {
	t, err := ParseDate(s)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s, %d", t.Month(), t.Year())
}

// FormatDate renders dd/MM/yyyy. Empty input yields "" and unparseable input is returned as is.
func FormatDate(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	t, err := ParseDate(s)
	if err != nil {
		return s
	}
	return t.Format(DisplayLayout)
}
