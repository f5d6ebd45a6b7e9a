package date

import "fmt"

// Range is an inclusive range of days.
type Range struct{ From, To Date }

// NewRange returns the period p containing d.
func NewRange(d Date, p Period) Range {
	return Range{From: d.StartOf(p), To: d.EndOf(p)}
}

// Contains reports whether d is within the range, boundaries included.
func (r Range) Contains(d Date) bool { return !d.Before(r.From) && !d.After(r.To) }

func (r Range) String() string {
	if r.From == r.To {
		return r.From.String()
	}
	return fmt.Sprintf("%s to %s", r.From, r.To)
}

// IsZero reports whether r is the zero Range, meaning no restriction.
func (r Range) IsZero() bool { return r.From.IsZero() && r.To.IsZero() }
