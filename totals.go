package tracker

import "github.com/shopspring/decimal"

// Totals are the aggregates of a Store. They are never stored: every call
// recomputes them from the collections.
type Totals struct {
	Budget            decimal.Decimal `json:"budget"`
	TotalExpenses     decimal.Decimal `json:"totalExpenses"`
	RemainingBudget   decimal.Decimal `json:"remainingBudget"`
	TotalBorrowed     decimal.Decimal `json:"totalBorrowed"`
	TotalLent         decimal.Decimal `json:"totalLent"`
	NetLoans          decimal.Decimal `json:"netLoans"` // TotalLent - TotalBorrowed
	TotalCompanyMoney decimal.Decimal `json:"totalCompanyMoney"`

	Expenses       int `json:"expenses"`
	Loans          int `json:"loans"`
	CompanyRecords int `json:"companyRecords"`
}

func computeTotals(budget decimal.Decimal, expenses []Expense, loans []Loan, records []CompanyRecord) Totals {
	t := Totals{
		Budget:         budget,
		Expenses:       len(expenses),
		Loans:          len(loans),
		CompanyRecords: len(records),
	}
	for _, e := range expenses {
		t.TotalExpenses = t.TotalExpenses.Add(e.Amount)
	}
	for _, l := range loans {
		switch l.Type {
		case Borrowed:
			t.TotalBorrowed = t.TotalBorrowed.Add(l.Amount)
		case Lent:
			t.TotalLent = t.TotalLent.Add(l.Amount)
		}
	}
	for _, r := range records {
		t.TotalCompanyMoney = t.TotalCompanyMoney.Add(r.Amount)
	}
	t.RemainingBudget = budget.Sub(t.TotalExpenses)
	t.NetLoans = t.TotalLent.Sub(t.TotalBorrowed)
	return t
}
