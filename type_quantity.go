package tracker

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// amounts are persisted as JSON numbers, as older front ends did.
	decimal.MarshalJSONWithoutQuotes = true
}

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float64 | int | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	default:
		panic("unsupported type")
	}
}

// parseDecimal parses user input such as "2", "2.5" or " 50 ".
func parseDecimal(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s %q is not a number", field, s)
	}
	return d, nil
}

// decimalText formats d with the digits it was entered with: "2.50" stays
// "2.50" where d.String() would print "2.5".
func decimalText(d decimal.Decimal) string {
	if d.Exponent() < 0 {
		return d.StringFixed(-d.Exponent())
	}
	return d.String()
}

// Quantity is a number of units of an expense item.
type Quantity struct {
	value decimal.Decimal
}

func (q Quantity) Decimal() decimal.Decimal     { return q.value }
func (q Quantity) Equal(p Quantity) bool        { return q.value.Equal(p.value) }
func (q Quantity) IsZero() bool                 { return q.value.IsZero() }
func (q Quantity) String() string               { return decimalText(q.value) }
func (q Quantity) MarshalJSON() ([]byte, error) { return json.Marshal(json.Number(q.String())) }

func (q *Quantity) UnmarshalJSON(b []byte) error {
	return q.value.UnmarshalJSON(b)
}
