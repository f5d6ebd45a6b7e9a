package tracker

import (
	"encoding/json"
	"fmt"

	"github.com/etnz/tracker/date"
	"github.com/shopspring/decimal"
)

// Expense is an itemized purchase. Amount is Quantity * UnitPrice computed
// once at commit time and never recomputed.
type Expense struct {
	ID        ID
	Name      string
	Quantity  Quantity
	Unit      string
	UnitPrice decimal.Decimal
	Amount    decimal.Decimal
	Date      date.Date
}

// Itemized reports whether the quantity, unit and unit price are known.
// Expenses loaded from an undecomposable legacy title are not itemized: Name
// then holds the raw title.
func (e Expense) Itemized() bool { return e.Unit != "" }

// Label is the display title, like "Rice (2 kg @ Rs50 per unit)".
func (e Expense) Label() string {
	if !e.Itemized() {
		return e.Name
	}
	return ComposeExpenseLabel(e.Name, e.Quantity.String(), e.Unit, decimalText(e.UnitPrice))
}

// MarshalJSON writes the structured fields plus the composed "title", so
// that readers of the older shape still find a title and an amount.
func (e Expense) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", e.ID)
	w.Append("title", e.Label())
	w.Append("name", e.Name)
	if e.Itemized() {
		w.Append("quantity", e.Quantity)
		w.Append("unit", e.Unit)
		w.Append("unitPrice", json.Number(decimalText(e.UnitPrice)))
	}
	w.Append("amount", e.Amount)
	w.Append("date", e.Date)
	return w.MarshalJSON()
}

// UnmarshalJSON reads both the structured shape and the legacy
// {title, amount, date} shape, decomposing the title when possible.
func (e *Expense) UnmarshalJSON(data []byte) error {
	var je struct {
		ID        ID               `json:"id"`
		Title     string           `json:"title"`
		Name      *string          `json:"name"`
		Quantity  *Quantity        `json:"quantity"`
		Unit      string           `json:"unit"`
		UnitPrice *decimal.Decimal `json:"unitPrice"`
		Amount    decimal.Decimal  `json:"amount"`
		Date      json.RawMessage  `json:"date"`
	}
	if err := json.Unmarshal(data, &je); err != nil {
		return err
	}
	*e = Expense{ID: je.ID, Amount: je.Amount}
	e.Date, _ = decodeDate(je.Date)

	switch {
	case je.Name != nil && je.Quantity != nil && je.UnitPrice != nil && je.Unit != "":
		e.Name, e.Quantity, e.Unit, e.UnitPrice = *je.Name, *je.Quantity, je.Unit, *je.UnitPrice
	case je.Name != nil && je.Title == "":
		e.Name = *je.Name
	default:
		fields, err := ParseExpenseLabel(je.Title)
		if err != nil {
			e.Name = je.Title
			return nil
		}
		// ParseExpenseLabel has already checked both numbers.
		q, _ := parseDecimal("quantity", fields.Quantity)
		p, _ := parseDecimal("unit price", fields.UnitPrice)
		e.Name, e.Quantity, e.Unit, e.UnitPrice = fields.Title, Quantity{q}, fields.Unit, p
	}
	return nil
}

// decodeDate reads a date leniently; an unreadable date is returned as
// the zero Date together with the error.
func decodeDate(raw json.RawMessage) (date.Date, error) {
	var d date.Date
	if len(raw) == 0 || string(raw) == "null" {
		return d, nil
	}
	if err := json.Unmarshal(raw, &d); err != nil {
		return date.Date{}, err
	}
	return d, nil
}

// LoanType tells who owes whom.
type LoanType string

const (
	// Borrowed is money taken from the person: the user owes it.
	Borrowed LoanType = "borrowed"
	// Lent is money given to the person: it is owed to the user.
	Lent LoanType = "lent"
)

// ParseLoanType accepts the two loan types.
func ParseLoanType(s string) (LoanType, error) {
	switch t := LoanType(s); t {
	case Borrowed, Lent:
		return t, nil
	default:
		return "", fmt.Errorf("loan type must be %q or %q, got %q", Borrowed, Lent, s)
	}
}

// Loan is an informal person to person loan. Loans are immutable once created.
type Loan struct {
	ID         ID              `json:"id"`
	PersonName string          `json:"personName"`
	Amount     decimal.Decimal `json:"amount"`
	Type       LoanType        `json:"type"`
	Date       date.Date       `json:"date"`
}

// CompanyRecord is a company cash record. Records are immutable once created.
type CompanyRecord struct {
	ID          ID              `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        date.Date       `json:"date"`
}

// UnmarshalJSON tolerates unreadable legacy dates, they load as zero.
func (l *Loan) UnmarshalJSON(data []byte) error {
	type plain Loan
	var jl struct {
		plain
		Date json.RawMessage `json:"date"`
	}
	if err := json.Unmarshal(data, &jl); err != nil {
		return err
	}
	*l = Loan(jl.plain)
	l.Date, _ = decodeDate(jl.Date)
	return nil
}

// UnmarshalJSON tolerates unreadable legacy dates, they load as zero.
func (c *CompanyRecord) UnmarshalJSON(data []byte) error {
	type plain CompanyRecord
	var jc struct {
		plain
		Date json.RawMessage `json:"date"`
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}
	*c = CompanyRecord(jc.plain)
	c.Date, _ = decodeDate(jc.Date)
	return nil
}
