package tracker

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	e := addExpense(t, s, "Rice", "2", "kg", "50")
	sn := s.Snapshot()

	require.NoError(t, s.DeleteExpense(ctx, e.ID))
	require.NoError(t, s.SetBudget(ctx, decimal.NewFromInt(10)))

	assert.Len(t, sn.Expenses, 1)
	assert.True(t, sn.Budget.IsZero())
	assert.Equal(t, "100", sn.Totals.TotalExpenses.String())
}

func TestQuery(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	require.NoError(t, s.SetBudget(ctx, decimal.NewFromInt(1000)))
	addExpense(t, s, "Rice", "2", "kg", "50")
	addLoan(t, s, "Asha", "100", Lent)
	addLoan(t, s, "Ravi", "30", Borrowed)

	tests := []struct {
		expr string
		want any
	}{
		{"$.totals.remainingBudget", 900.0},
		{"$.expenses[0].title", "Rice (2 kg @ Rs50 per unit)"},
		{`$.loans[?(@.type=="lent")].personName`, []any{"Asha"}},
		{"$.currency", "INR"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := s.Query(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := s.Query("$.[")
	assert.Error(t, err)
}
