package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/etnz/tracker/date"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitExpense(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStore(t)

	e := addExpense(t, s, "Rice", "2", "kg", "50")

	assert.Equal(t, "Rice (2 kg @ Rs50 per unit)", e.Label())
	assert.True(t, e.Amount.Equal(decimal.NewFromInt(100)), "amount %v", e.Amount)
	assert.Equal(t, date.New(2024, 3, 15), e.Date)
	assert.Equal(t, ID(now.UnixMilli()), e.ID)
	assert.Equal(t, ExpenseDraft{}, s.ExpenseDraft(), "draft must be reset")
	assert.Len(t, s.Expenses(), 1)

	raw, ok, err := kv.Get(ctx, "expenses")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":1710498600000,"title":"Rice (2 kg @ Rs50 per unit)","name":"Rice","quantity":2,"unit":"kg","unitPrice":50,"amount":100,"date":"2024-03-15"}]`, raw)
}

func TestCommitExpenseDecimals(t *testing.T) {
	s, _ := newTestStore(t)
	e := addExpense(t, s, "Milk", "1.5", "l", "0.1")
	assert.Equal(t, "0.15", e.Amount.String())
	assert.Equal(t, "Milk (1.5 l @ Rs0.1 per unit)", e.Label())
}

func TestCommitExpenseValidation(t *testing.T) {
	tests := []struct {
		name     string
		fields   []string
		missing  []string
		problems int
	}{
		{"empty draft", nil, []string{"title", "quantity", "unit", "unitPrice"}, 0},
		{"blank unit", []string{"title", "Rice", "quantity", "2", "unit", "  ", "unitPrice", "50"}, []string{"unit"}, 0},
		{"not a number", []string{"title", "Rice", "quantity", "two", "unit", "kg", "unitPrice", "50"}, nil, 1},
		{"zero is present", []string{"title", "Rice", "quantity", "0", "unit", "kg", "unitPrice", "0"}, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, kv := newTestStore(t)
			stage(t, s.StageExpenseField, tt.fields...)
			draft := s.ExpenseDraft()

			_, err := s.CommitExpense(context.Background())
			if len(tt.missing) == 0 && tt.problems == 0 {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrValidation)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.missing, verr.Missing)
			assert.Len(t, verr.Problems, tt.problems)

			assert.Empty(t, s.Expenses())
			assert.Equal(t, draft, s.ExpenseDraft(), "draft must be kept for correction")
			assert.Zero(t, kv.Keys(), "nothing must be written")
		})
	}
}

func TestStageUnknownField(t *testing.T) {
	s, _ := newTestStore(t)
	assert.ErrorIs(t, s.StageExpenseField("colour", "red"), ErrUnknownField)
	assert.ErrorIs(t, s.StageLoanField("title", "x"), ErrUnknownField)
	assert.ErrorIs(t, s.StageCompanyField("personName", "x"), ErrUnknownField)
}

func TestIDsAreUnique(t *testing.T) {
	s, _ := newTestStore(t)
	a := addExpense(t, s, "Rice", "1", "kg", "50")
	b := addExpense(t, s, "Rice", "1", "kg", "50")
	l := addLoan(t, s, "Asha", "10", Lent)
	assert.Less(t, a.ID, b.ID)
	assert.Less(t, b.ID, l.ID)
}

func TestEditExpense(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	rice := addExpense(t, s, "Rice", "2", "kg", "50")
	milk := addExpense(t, s, "Milk", "1", "l", "60")

	require.NoError(t, s.BeginEditExpense(rice.ID))
	id, editing := s.Editing()
	assert.True(t, editing)
	assert.Equal(t, rice.ID, id)
	assert.Equal(t, ExpenseDraft{Title: "Rice", Quantity: "2", Unit: "kg", UnitPrice: "50"}, s.ExpenseDraft())

	require.NoError(t, s.StageExpenseField("quantity", "3"))
	edited, err := s.CommitExpense(ctx)
	require.NoError(t, err)

	assert.Equal(t, rice.ID, edited.ID, "identity is kept")
	assert.Equal(t, "150", edited.Amount.String())
	expenses := s.Expenses()
	require.Len(t, expenses, 2)
	assert.Equal(t, edited, expenses[0], "position is kept")
	assert.Equal(t, milk, expenses[1])
	_, editing = s.Editing()
	assert.False(t, editing)
}

func TestEditExpenseAt(t *testing.T) {
	s, _ := newTestStore(t)
	addExpense(t, s, "Rice", "2", "kg", "50")
	milk := addExpense(t, s, "Milk", "1", "l", "60")

	require.NoError(t, s.BeginEditExpenseAt(1))
	id, _ := s.Editing()
	assert.Equal(t, milk.ID, id)
	assert.ErrorIs(t, s.BeginEditExpenseAt(2), ErrNotFound)
	assert.ErrorIs(t, s.BeginEditExpense(42), ErrNotFound)
}

func TestCancelEdit(t *testing.T) {
	s, _ := newTestStore(t)
	rice := addExpense(t, s, "Rice", "2", "kg", "50")
	require.NoError(t, s.BeginEditExpense(rice.ID))
	s.CancelEdit()

	_, editing := s.Editing()
	assert.False(t, editing)
	assert.Equal(t, ExpenseDraft{}, s.ExpenseDraft())

	// the next commit creates a new expense
	addExpense(t, s, "Rice", "1", "kg", "50")
	assert.Len(t, s.Expenses(), 2)
}

func TestEditDeletedExpense(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	rice := addExpense(t, s, "Rice", "2", "kg", "50")
	addExpense(t, s, "Milk", "1", "l", "60")

	require.NoError(t, s.BeginEditExpense(rice.ID))
	require.NoError(t, s.DeleteExpense(ctx, rice.ID))

	_, err := s.CommitExpense(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
	_, editing := s.Editing()
	assert.False(t, editing)
	require.Len(t, s.Expenses(), 1)
	assert.Equal(t, "Milk", s.Expenses()[0].Name)
}

func TestDeleteExpenseAt(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	a := addExpense(t, s, "A", "1", "u", "1")
	addExpense(t, s, "B", "1", "u", "2")
	c := addExpense(t, s, "C", "1", "u", "3")

	require.NoError(t, s.DeleteExpenseAt(ctx, 1))
	assert.Equal(t, []Expense{a, c}, s.Expenses(), "later expenses move up")
	assert.ErrorIs(t, s.DeleteExpenseAt(ctx, 2), ErrNotFound)
	assert.ErrorIs(t, s.DeleteExpenseAt(ctx, -1), ErrNotFound)
}

func TestDeleteByID(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	l := addLoan(t, s, "Asha", "100", Lent)
	r := addCompanyRecord(t, s, "500", "Petty cash")

	require.NoError(t, s.DeleteLoan(ctx, l.ID))
	require.NoError(t, s.DeleteCompanyRecord(ctx, r.ID))
	assert.Empty(t, s.Loans())
	assert.Empty(t, s.CompanyRecords())

	assert.ErrorIs(t, s.DeleteLoan(ctx, l.ID), ErrNotFound)
	assert.ErrorIs(t, s.DeleteCompanyRecord(ctx, r.ID), ErrNotFound)
	assert.ErrorIs(t, s.DeleteExpense(ctx, 7), ErrNotFound)
}

func TestLoans(t *testing.T) {
	s, _ := newTestStore(t)
	assert.Equal(t, Borrowed, s.LoanDraft().Type, "type defaults to borrowed")

	addLoan(t, s, "Asha", "100", Borrowed)
	addLoan(t, s, "Ravi", "40", Lent)
	addLoan(t, s, "Meena", "25.5", Borrowed)

	assert.Equal(t, "125.5", s.TotalBorrowed().String())
	assert.Equal(t, "40", s.TotalLent().String())
	assert.Equal(t, "-85.5", s.Totals().NetLoans.String())
	assert.Equal(t, Borrowed, s.LoanDraft().Type, "draft is reset with its default type")
}

func TestLoanInvalidType(t *testing.T) {
	s, _ := newTestStore(t)
	stage(t, s.StageLoanField, "personName", "Asha", "amount", "10", "type", "gift")
	_, err := s.CommitLoan(context.Background())
	require.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, s.Loans())
}

func TestCompanyRecords(t *testing.T) {
	s, _ := newTestStore(t)
	addCompanyRecord(t, s, "500", "Petty cash")
	addCompanyRecord(t, s, "-120", "Courier")
	assert.Equal(t, "380", s.TotalCompanyMoney().String())

	stage(t, s.StageCompanyField, "amount", "10")
	_, err := s.CommitCompanyRecord(context.Background())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"description"}, verr.Missing)
}

func TestTotals(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	require.NoError(t, s.SetBudget(ctx, decimal.NewFromInt(1000)))
	addExpense(t, s, "Rice", "2", "kg", "50")
	addExpense(t, s, "Oil", "1", "l", "180")

	assert.Equal(t, "280", s.TotalExpenses().String())
	assert.Equal(t, "720", s.RemainingBudget().String())

	// remaining budget can go negative
	require.NoError(t, s.SetBudget(ctx, decimal.NewFromInt(100)))
	assert.Equal(t, "-180", s.RemainingBudget().String())

	totals := s.Totals()
	assert.Equal(t, 2, totals.Expenses)
	assert.True(t, totals.RemainingBudget.Equal(totals.Budget.Sub(totals.TotalExpenses)))
}

func TestPolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("skip defaults", func(t *testing.T) {
		s, kv := newTestStore(t)
		require.NoError(t, s.Save(ctx))
		assert.Zero(t, kv.Keys(), "a fresh store writes nothing")

		e := addExpense(t, s, "Rice", "1", "kg", "50")
		require.NoError(t, s.DeleteExpense(ctx, e.ID))

		// deleting the last expense is not persisted, it comes back on reload.
		reloaded, err := Open(ctx, kv, WithLogger(s.logger))
		require.NoError(t, err)
		assert.Len(t, reloaded.Expenses(), 1)
	})

	t.Run("write all", func(t *testing.T) {
		s, kv := newTestStore(t, WithPolicy(PolicyWriteAll))
		require.NoError(t, s.Save(ctx))
		assert.Equal(t, 4, kv.Keys())

		e := addExpense(t, s, "Rice", "1", "kg", "50")
		require.NoError(t, s.DeleteExpense(ctx, e.ID))
		raw, _, err := kv.Get(ctx, "expenses")
		require.NoError(t, err)
		assert.Equal(t, "[]", raw)
		raw, _, _ = kv.Get(ctx, "budget")
		assert.Equal(t, "0", raw)
	})
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{"": PolicySkipDefaults, "skip-defaults": PolicySkipDefaults, "WRITE-ALL": PolicyWriteAll} {
		got, err := ParsePolicy(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
	_, err := ParsePolicy("sometimes")
	assert.Error(t, err)
}

func TestPersistFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStore(t)
	s.kv = failingStorage{kv}

	stage(t, s.StageExpenseField, "title", "Rice", "quantity", "2", "unit", "kg", "unitPrice", "50")
	e, err := s.CommitExpense(ctx)
	require.ErrorIs(t, err, ErrPersist)
	assert.True(t, errors.Is(err, errDiskFull))

	assert.Equal(t, []Expense{e}, s.Expenses(), "memory keeps the change")
	assert.Zero(t, kv.Keys())
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStore(t)
	require.NoError(t, s.SetBudget(ctx, decimal.NewFromInt(1000)))
	addExpense(t, s, "Rice", "2", "kg", "50")
	addLoan(t, s, "Asha", "100", Lent)
	addCompanyRecord(t, s, "500", "Petty cash")

	reloaded, err := Open(ctx, kv, WithLogger(s.logger))
	require.NoError(t, err)
	want, err := json.Marshal(s.Snapshot())
	require.NoError(t, err)
	got, err := json.Marshal(reloaded.Snapshot())
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))

	// new ids never collide with loaded ones
	e := addExpense(t, reloaded, "Salt", "1", "kg", "20")
	for _, l := range reloaded.Loans() {
		assert.NotEqual(t, l.ID, e.ID)
	}
}

func TestLoadLegacy(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStore(t)
	require.NoError(t, kv.Set(ctx, "budget", `"500"`))
	require.NoError(t, kv.Set(ctx, "expenses", `[
		{"title":"Rice (2 kg @ Rs50 per unit)","amount":"100","date":"3/14/2024"},
		{"title":"Bus ticket","amount":20,"date":"not a date"}
	]`))
	require.NoError(t, kv.Set(ctx, "loans", `[{"personName":"Asha","amount":100,"type":"lent","date":"3/1/2024"}]`))

	require.NoError(t, s.Load(ctx))
	assert.Equal(t, "500", s.Budget().String())

	expenses := s.Expenses()
	require.Len(t, expenses, 2)
	rice, bus := expenses[0], expenses[1]
	assert.True(t, rice.Itemized())
	assert.Equal(t, "Rice", rice.Name)
	assert.Equal(t, "kg", rice.Unit)
	assert.Equal(t, date.New(2024, 3, 14), rice.Date)
	assert.False(t, bus.Itemized())
	assert.Equal(t, "Bus ticket", bus.Label())
	assert.True(t, bus.Date.IsZero())

	assert.NotZero(t, rice.ID)
	assert.NotEqual(t, rice.ID, bus.ID)
	assert.NotEqual(t, rice.ID, s.Loans()[0].ID)

	require.NoError(t, s.BeginEditExpense(rice.ID))
	assert.Equal(t, "2", s.ExpenseDraft().Quantity)
	s.CancelEdit()

	err := s.BeginEditExpense(bus.ID)
	require.ErrorIs(t, err, ErrParse)
	_, editing := s.Editing()
	assert.False(t, editing)
}

func TestLoadMalformed(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStore(t)
	addExpense(t, s, "Rice", "2", "kg", "50")
	require.NoError(t, kv.Set(ctx, "loans", `{not json`))

	err := s.Load(ctx)
	require.Error(t, err)
	assert.Len(t, s.Expenses(), 1, "a failed load changes nothing")
}

func TestIDs(t *testing.T) {
	s, _ := newTestStore(t)
	a := addExpense(t, s, "A", "1", "u", "1")
	b := addExpense(t, s, "B", "1", "u", "1")
	ids, err := s.IDs(KindExpenses)
	require.NoError(t, err)
	assert.Equal(t, []ID{a.ID, b.ID}, ids)

	_, err = s.IDs("budgets")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestCreateExpenseLeavesDraft(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	require.NoError(t, s.StageExpenseField("title", "Half typed"))

	e, err := s.CreateExpense(ctx, ExpenseDraft{Title: "Rice", Quantity: "2", Unit: "kg", UnitPrice: "50"})
	require.NoError(t, err)
	assert.Equal(t, "100", e.Amount.String())
	assert.Equal(t, "Half typed", s.ExpenseDraft().Title)

	_, err = s.CreateExpense(ctx, ExpenseDraft{Title: "Rice"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Len(t, s.Expenses(), 1)
}

func TestUpdateExpense(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	rice := addExpense(t, s, "Rice", "2", "kg", "50")

	e, err := s.UpdateExpense(ctx, rice.ID, ExpenseDraft{UnitPrice: "60"})
	require.NoError(t, err)
	assert.Equal(t, rice.ID, e.ID)
	assert.Equal(t, "Rice", e.Name)
	assert.Equal(t, "120", e.Amount.String())

	_, err = s.UpdateExpense(ctx, rice.ID, ExpenseDraft{Quantity: "lots"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = s.UpdateExpense(ctx, 99, ExpenseDraft{Quantity: "1"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateLegacyExpense(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStore(t)
	require.NoError(t, kv.Set(ctx, "expenses", `[{"id":7,"title":"Bus ticket","amount":20,"date":"2024-03-14"}]`))
	require.NoError(t, s.Load(ctx))

	_, err := s.UpdateExpense(ctx, 7, ExpenseDraft{Quantity: "2"})
	assert.ErrorIs(t, err, ErrParse, "a partial patch needs the current fields")

	e, err := s.UpdateExpense(ctx, 7, ExpenseDraft{Title: "Bus ticket", Quantity: "2", Unit: "ride", UnitPrice: "10"})
	require.NoError(t, err)
	assert.Equal(t, ID(7), e.ID)
	assert.True(t, e.Itemized())
	assert.Equal(t, "Bus ticket (2 ride @ Rs10 per unit)", e.Label())
}

func TestEnteredDigitsKept(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStore(t)
	rice := addExpense(t, s, "Rice", "2.50", "kg", "50.00")
	assert.Equal(t, "Rice (2.50 kg @ Rs50.00 per unit)", rice.Label())
	assert.Equal(t, "125", rice.Amount.String())

	reloaded, err := Open(ctx, kv, WithLogger(s.logger))
	require.NoError(t, err)
	require.NoError(t, reloaded.BeginEditExpense(rice.ID))
	assert.Equal(t, ExpenseDraft{Title: "Rice", Quantity: "2.50", Unit: "kg", UnitPrice: "50.00"}, reloaded.ExpenseDraft())
}

func TestCreateLoanAndCompanyRecord(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	l, err := s.CreateLoan(ctx, LoanDraft{PersonName: "Asha", Amount: "10", Type: Lent})
	require.NoError(t, err)
	assert.Equal(t, Lent, l.Type)
	l, err = s.CreateLoan(ctx, LoanDraft{PersonName: "Ravi", Amount: "5"})
	require.NoError(t, err)
	assert.Equal(t, Borrowed, l.Type, "type defaults to borrowed")

	r, err := s.CreateCompanyRecord(ctx, CompanyDraft{Amount: "500", Description: "Petty cash"})
	require.NoError(t, err)
	assert.Equal(t, "Petty cash", r.Description)
	assert.Equal(t, "500", s.TotalCompanyMoney().String())
}
