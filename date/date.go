// Package date implements a day granular Date used to stamp records.
package date

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Format is the ISO-8601 layout used to write dates.
const Format = "2006-01-02"

// readFormat is permissive and accepts single digit month and day.
const readFormat = "2006-1-2"

// legacyFormats are browser locale layouts found in data written by older
// front ends (toLocaleDateString). US order is tried first.
var legacyFormats = []string{"1/2/2006", "2/1/2006", "2.1.2006"}

// Date represents a calendar day.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns a normalized Date, so New(2026, 1, 32) is February 1st.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Of returns the day of t in t's location.
func Of(t time.Time) Date { return New(t.Date()) }

// time returns the canonical time of the day, midnight UTC.
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

func (d Date) Year() int              { return d.y }
func (d Date) Month() time.Month      { return d.m }
func (d Date) Day() int               { return d.d }
func (d Date) Weekday() time.Weekday  { return d.time().Weekday() }
func (d Date) ISOWeek() (int, int)    { return d.time().ISOWeek() }
func (d Date) IsZero() bool           { return d == Date{} }
func (d Date) Before(x Date) bool     { return d.time().Before(x.time()) }
func (d Date) After(x Date) bool      { return d.time().After(x.time()) }
func (d Date) Add(days int) Date      { return New(d.y, d.m, d.d+days) }
func (d Date) Format(l string) string { return d.time().Format(l) }

// String formats the date as ISO-8601, or "" for the zero Date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.time().Format(Format)
}

// Parse parses an ISO-8601 date, leniently ("2026-7-1" is accepted).
func Parse(str string) (Date, error) {
	on, err := time.Parse(readFormat, strings.TrimSpace(str))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, Format, err)
	}
	return Of(on), nil
}

// ParseLegacy parses ISO-8601 first, then the browser locale layouts.
func ParseLegacy(str string) (Date, error) {
	if d, err := Parse(str); err == nil {
		return d, nil
	}
	for _, layout := range legacyFormats {
		if on, err := time.Parse(layout, strings.TrimSpace(str)); err == nil {
			return Of(on), nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q: unknown layout", str)
}

// UnmarshalJSON accepts ISO and legacy layouts. An empty string is the zero Date.
func (d *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	if str == "" {
		*d = Date{}
		return nil
	}
	on, err := ParseLegacy(str)
	if err != nil {
		return err
	}
	*d = on
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

var _ json.Marshaler = Date{}
var _ json.Unmarshaler = (*Date)(nil)
