package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/etnz/tracker/storage"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// now is the fixed clock of test stores.
var now = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

// INR is a helper for test to create rupee money from const
func INR(v float64) Money { return M(v, "INR") }

// newTestStore returns a store over a fresh memory storage, with a fixed clock.
func newTestStore(t *testing.T, opts ...Option) (*Store, *storage.Memory) {
	t.Helper()
	kv := storage.NewMemory()
	opts = append([]Option{WithClock(func() time.Time { return now }), WithLogger(zerolog.Nop())}, opts...)
	return New(kv, opts...), kv
}

// stage sets draft fields from name/value pairs.
func stage(t *testing.T, set func(string, string) error, pairs ...string) {
	t.Helper()
	for i := 0; i+1 < len(pairs); i += 2 {
		require.NoError(t, set(pairs[i], pairs[i+1]))
	}
}

// addExpense commits an itemized expense.
func addExpense(t *testing.T, s *Store, title, quantity, unit, price string) Expense {
	t.Helper()
	stage(t, s.StageExpenseField, "title", title, "quantity", quantity, "unit", unit, "unitPrice", price)
	e, err := s.CommitExpense(context.Background())
	require.NoError(t, err)
	return e
}

func addLoan(t *testing.T, s *Store, person, amount string, typ LoanType) Loan {
	t.Helper()
	stage(t, s.StageLoanField, "personName", person, "amount", amount, "type", string(typ))
	l, err := s.CommitLoan(context.Background())
	require.NoError(t, err)
	return l
}

func addCompanyRecord(t *testing.T, s *Store, amount, description string) CompanyRecord {
	t.Helper()
	stage(t, s.StageCompanyField, "amount", amount, "description", description)
	r, err := s.CommitCompanyRecord(context.Background())
	require.NoError(t, err)
	return r
}

// failingStorage reads from an underlying storage but refuses every write.
type failingStorage struct {
	storage.Storage
}

var errDiskFull = errors.New("disk full")

func (failingStorage) Set(context.Context, string, string) error { return errDiskFull }
