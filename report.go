package tracker

import (
	"time"

	"github.com/etnz/tracker/date"
)

// DefaultReportTitle is the title band of exported reports.
const DefaultReportTitle = "Expense Report"

// Report is the content of an exported document: a budget summary and one
// table per collection. It is built from a Snapshot and never reads the
// Store again.
type Report struct {
	Title       string
	GeneratedAt time.Time
	Range       date.Range // zero for every record
	Currency    string

	Budget            Money
	TotalExpenses     Money
	RemainingBudget   Money
	TotalBorrowed     Money
	TotalLent         Money
	NetLoans          Money
	TotalCompanyMoney Money

	Expenses       []ExpenseLine
	Loans          []LoanLine
	CompanyRecords []CompanyLine
}

// ExpenseLine is one row of the expenses table.
type ExpenseLine struct {
	Date      date.Date
	Title     string
	Quantity  string // empty for expenses that are not itemized
	Unit      string
	UnitPrice Money
	Amount    Money
}

// LoanLine is one row of the loans table.
type LoanLine struct {
	Date       date.Date
	PersonName string
	Type       LoanType
	Amount     Money
}

// CompanyLine is one row of the company records table.
type CompanyLine struct {
	Date        date.Date
	Description string
	Amount      Money
}

// NewReport builds the report of a snapshot. When period is not zero only
// the records dated within it are listed and totaled; the budget is kept
// as is.
func NewReport(sn Snapshot, generatedAt time.Time, period date.Range) *Report {
	cur := sn.Currency
	if cur == "" {
		cur = DefaultCurrency
	}
	in := func(d date.Date) bool { return period.IsZero() || period.Contains(d) }

	var expenses []Expense
	var loans []Loan
	var records []CompanyRecord
	r := &Report{
		Title:       DefaultReportTitle,
		GeneratedAt: generatedAt,
		Range:       period,
		Currency:    cur,
	}
	for _, e := range sn.Expenses {
		if !in(e.Date) {
			continue
		}
		expenses = append(expenses, e)
		line := ExpenseLine{Date: e.Date, Title: e.Name, Amount: M(e.Amount, cur)}
		if e.Itemized() {
			line.Quantity = e.Quantity.String()
			line.Unit = e.Unit
			line.UnitPrice = M(e.UnitPrice, cur)
		}
		r.Expenses = append(r.Expenses, line)
	}
	for _, l := range sn.Loans {
		if !in(l.Date) {
			continue
		}
		loans = append(loans, l)
		r.Loans = append(r.Loans, LoanLine{Date: l.Date, PersonName: l.PersonName, Type: l.Type, Amount: M(l.Amount, cur)})
	}
	for _, c := range sn.CompanyRecords {
		if !in(c.Date) {
			continue
		}
		records = append(records, c)
		r.CompanyRecords = append(r.CompanyRecords, CompanyLine{Date: c.Date, Description: c.Description, Amount: M(c.Amount, cur)})
	}

	t := computeTotals(sn.Budget, expenses, loans, records)
	r.Budget = M(t.Budget, cur)
	r.TotalExpenses = M(t.TotalExpenses, cur)
	r.RemainingBudget = M(t.RemainingBudget, cur)
	r.TotalBorrowed = M(t.TotalBorrowed, cur)
	r.TotalLent = M(t.TotalLent, cur)
	r.NetLoans = M(t.NetLoans, cur)
	r.TotalCompanyMoney = M(t.TotalCompanyMoney, cur)
	return r
}
