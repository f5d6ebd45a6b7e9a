package tracker

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ExpenseDraft holds expense form input before it is committed.
type ExpenseDraft struct {
	Title     string `json:"title"`
	Quantity  string `json:"quantity"`
	Unit      string `json:"unit"`
	UnitPrice string `json:"unitPrice"`
}

// Set updates a field by its form name. Values are not validated here.
func (d *ExpenseDraft) Set(field, value string) error {
	switch field {
	case "title":
		d.Title = value
	case "quantity":
		d.Quantity = value
	case "unit":
		d.Unit = value
	case "unitPrice":
		d.UnitPrice = value
	default:
		return fmt.Errorf("%w %q for an expense", ErrUnknownField, field)
	}
	return nil
}

// complete reports whether every field has a non-blank value.
func (d ExpenseDraft) complete() bool {
	for _, v := range []string{d.Title, d.Quantity, d.Unit, d.UnitPrice} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// expense validates the draft and builds the expense it describes, without
// identity nor date.
func (d ExpenseDraft) expense() (Expense, error) {
	v := validator{err: ValidationError{Kind: KindExpenses}}
	v.require("title", d.Title)
	quantity := v.number("quantity", d.Quantity)
	v.require("unit", d.Unit)
	price := v.number("unitPrice", d.UnitPrice)
	if err := v.result(); err != nil {
		return Expense{}, err
	}
	return Expense{
		Name:      strings.TrimSpace(d.Title),
		Quantity:  Quantity{quantity},
		Unit:      strings.TrimSpace(d.Unit),
		UnitPrice: price,
		Amount:    quantity.Mul(price),
	}, nil
}

// LoanDraft holds loan form input. Type defaults to Borrowed.
type LoanDraft struct {
	PersonName string   `json:"personName"`
	Amount     string   `json:"amount"`
	Type       LoanType `json:"type"`
}

func newLoanDraft() LoanDraft { return LoanDraft{Type: Borrowed} }

// Set updates a field by its form name. Values are not validated here.
func (d *LoanDraft) Set(field, value string) error {
	switch field {
	case "personName":
		d.PersonName = value
	case "amount":
		d.Amount = value
	case "type":
		d.Type = LoanType(value)
	default:
		return fmt.Errorf("%w %q for a loan", ErrUnknownField, field)
	}
	return nil
}

func (d LoanDraft) loan() (Loan, error) {
	v := validator{err: ValidationError{Kind: KindLoans}}
	v.require("personName", d.PersonName)
	amount := v.number("amount", d.Amount)
	typ := d.Type
	if typ == "" {
		typ = Borrowed
	}
	if _, err := ParseLoanType(string(typ)); err != nil {
		v.problem(err.Error())
	}
	if err := v.result(); err != nil {
		return Loan{}, err
	}
	return Loan{PersonName: strings.TrimSpace(d.PersonName), Amount: amount, Type: typ}, nil
}

// CompanyDraft holds company record form input.
type CompanyDraft struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

// Set updates a field by its form name. Values are not validated here.
func (d *CompanyDraft) Set(field, value string) error {
	switch field {
	case "amount":
		d.Amount = value
	case "description":
		d.Description = value
	default:
		return fmt.Errorf("%w %q for a company record", ErrUnknownField, field)
	}
	return nil
}

func (d CompanyDraft) record() (CompanyRecord, error) {
	v := validator{err: ValidationError{Kind: KindCompanyRecords}}
	amount := v.number("amount", d.Amount)
	v.require("description", d.Description)
	if err := v.result(); err != nil {
		return CompanyRecord{}, err
	}
	return CompanyRecord{Amount: amount, Description: strings.TrimSpace(d.Description)}, nil
}

// validator collects every problem of a draft instead of stopping at the first.
type validator struct {
	err ValidationError
}

func (v *validator) require(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		v.err.Missing = append(v.err.Missing, field)
		return false
	}
	return true
}

// number requires the field and parses it.
func (v *validator) number(field, value string) decimal.Decimal {
	if !v.require(field, value) {
		return decimal.Zero
	}
	d, err := parseDecimal(field, value)
	if err != nil {
		v.problem(err.Error())
	}
	return d
}

func (v *validator) problem(msg string) { v.err.Problems = append(v.err.Problems, msg) }

func (v *validator) result() error {
	if len(v.err.Missing) == 0 && len(v.err.Problems) == 0 {
		return nil
	}
	err := v.err
	return &err
}
