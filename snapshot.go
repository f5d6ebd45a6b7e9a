package tracker

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// Snapshot is a point in time copy of a Store. It shares nothing with the
// Store and stays valid after further mutations.
type Snapshot struct {
	Currency       string          `json:"currency"`
	Budget         decimal.Decimal `json:"budget"`
	Expenses       []Expense       `json:"expenses"`
	Loans          []Loan          `json:"loans"`
	CompanyRecords []CompanyRecord `json:"companyRecords"`
	Totals         Totals          `json:"totals"`
}

// Snapshot copies the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Currency:       s.currency,
		Budget:         s.budget,
		Expenses:       nonNil(slices.Clone(s.expenses)),
		Loans:          nonNil(slices.Clone(s.loans)),
		CompanyRecords: nonNil(slices.Clone(s.records)),
		Totals:         computeTotals(s.budget, s.expenses, s.loans, s.records),
	}
}

// Query evaluates a JSONPath expression, like "$.totals.remainingBudget" or
// `$.loans[?(@.type=="lent")].personName`, against the JSON form of a
// snapshot.
func (s *Store) Query(expr string) (any, error) {
	return s.Snapshot().Query(expr)
}

// Query evaluates a JSONPath expression against the JSON form of the snapshot.
func (sn Snapshot) Query(expr string) (any, error) {
	data, err := json.Marshal(sn)
	if err != nil {
		return nil, fmt.Errorf("cannot encode snapshot: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("cannot decode snapshot: %w", err)
	}
	v, err := jsonpath.Get(expr, doc)
	if err != nil {
		return nil, fmt.Errorf("cannot evaluate %q: %w", expr, err)
	}
	return v, nil
}
