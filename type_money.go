package tracker

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency amounts are displayed in when none is configured.
const DefaultCurrency = "INR"

// Money is an amount in a display currency. Records store bare decimals, the
// currency is a display concern of the Store.
type Money struct {
	value decimal.Decimal
	cur   string
}

func M[T float64 | int | int64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// currency returns the money's currency, never nil even for unknown codes.
func (m Money) currency() money.Currency {
	return *money.New(0, m.cur).Currency()
}

// String formats the value with the currency grapheme and separators, e.g. "₹1,250.00".
func (m Money) String() string {
	cur := m.currency()
	minor := m.value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// SignedString returns the value with an explicit sign, and "-" for zero.
func (m Money) SignedString() string {
	switch {
	case m.value.IsZero():
		return "-"
	case m.value.IsPositive():
		return "+" + m.String()
	default:
		return m.String()
	}
}

func (m Money) Decimal() decimal.Decimal { return m.value }
func (m Money) Currency() string         { return m.cur }
func (m Money) IsZero() bool             { return m.value.IsZero() }
func (m Money) Equal(n Money) bool       { return m.value.Equal(n.value) && m.cur == n.cur }

// MarshalJSON writes the money as {"amount":..,"currency":..}.
func (m Money) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("amount", m.value)
	w.Optional("currency", m.cur)
	return w.MarshalJSON()
}
