// Package locale formats entry timestamps for display.
package locale

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

// Russian month names in the genitive case, as used in "2 января 2006"
var ruMonths = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// Formatter renders dates for one locale
type Formatter struct {
	tag language.Tag
}

// New returns a Formatter for tag
func New(tag language.Tag) Formatter {
	return Formatter{tag: tag}
}

// Parse returns a Formatter for a BCP 47 tag such as "ru-RU"
func Parse(s string) (Formatter, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return Formatter{}, fmt.Errorf("parse locale %q: %w", s, err)
	}
	return New(tag), nil
}

// Tag returns the locale's language tag
func (f Formatter) Tag() language.Tag {
	return f.tag
}

func (f Formatter) base() string {
	b, _ := f.tag.Base()
	return b.String()
}

func (f Formatter) region() string {
	r, _ := f.tag.Region()
	return r.String()
}

// DayMonth renders the two-digit day and month, e.g. "05.03" for ru
func (f Formatter) DayMonth(t time.Time) string {
	switch {
	case f.base() == "en" && f.region() == "US":
		return t.Format("01/02")
	case f.base() == "en":
		return t.Format("02/01")
	default:
		return t.Format("02.01")
	}
}

// DateTime renders day, month name, year, hour and minute,
// e.g. "5 марта 2026 г., 18:30" for ru
func (f Formatter) DateTime(t time.Time) string {
	switch f.base() {
	case "ru":
		return fmt.Sprintf("%d %s %d г., %s", t.Day(), ruMonths[t.Month()-1], t.Year(), t.Format("15:04"))
	case "en":
		return t.Format("January 2, 2006 15:04")
	default:
		return t.Format("2006-01-02 15:04")
	}
}
