package tracker

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/etnz/tracker/date"
	"github.com/etnz/tracker/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Store is the record store of the tracker. It owns the budget, the three
// collections, the drafts and the expense edit mode.
//
// Every successful mutation writes the state through to its storage. A
// Store is safe for concurrent use, mutations are applied one at a time.
type Store struct {
	mu       sync.Mutex
	kv       storage.Storage
	clock    func() time.Time
	policy   Policy
	currency string
	logger   zerolog.Logger
	ids      idGenerator

	budget   decimal.Decimal
	expenses []Expense
	loans    []Loan
	records  []CompanyRecord

	expenseDraft ExpenseDraft
	loanDraft    LoanDraft
	companyDraft CompanyDraft
	editing      ID // expense being edited, 0 when creating
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the source of record dates and ids.
func WithClock(clock func() time.Time) Option { return func(s *Store) { s.clock = clock } }

// WithPolicy sets the persist policy. The default is PolicySkipDefaults.
func WithPolicy(p Policy) Option { return func(s *Store) { s.policy = p } }

// WithCurrency sets the display currency code. The default is DefaultCurrency.
func WithCurrency(code string) Option { return func(s *Store) { s.currency = code } }

// WithLogger sets the logger. The default is the global zerolog logger.
func WithLogger(l zerolog.Logger) Option { return func(s *Store) { s.logger = l } }

// New creates an empty Store persisted into kv. Call Load to read saved data.
func New(kv storage.Storage, opts ...Option) *Store {
	s := &Store{
		kv:        kv,
		clock:     time.Now,
		policy:    PolicySkipDefaults,
		currency:  DefaultCurrency,
		logger:    log.Logger,
		loanDraft: newLoanDraft(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a Store and loads it.
func Open(ctx context.Context, kv storage.Storage, opts ...Option) (*Store, error) {
	s := New(kv, opts...)
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads the saved state. Values present in storage replace the
// in-memory ones, absent keys leave them as they are.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.decode(ctx)
	if err != nil {
		return fmt.Errorf("cannot load tracker: %w", err)
	}
	if l.budget != nil {
		s.budget = *l.budget
	}
	if l.found[keyExpenses] {
		s.expenses = l.expenses
	}
	if l.found[keyLoans] {
		s.loans = l.loans
	}
	if l.found[keyCompanyRecords] {
		s.records = l.records
	}
	s.repair()
	return nil
}

// repair gives an identity to records saved without one (or with a
// duplicated one), and reports legacy data that could not be fully read.
func (s *Store) repair() {
	seen := make(map[ID]bool)
	var missing []*ID
	claim := func(id *ID) {
		if *id == 0 || seen[*id] {
			missing = append(missing, id)
			return
		}
		seen[*id] = true
		s.ids.observe(*id)
	}
	undated, unitemized := 0, 0
	for i := range s.expenses {
		claim(&s.expenses[i].ID)
		if s.expenses[i].Date.IsZero() {
			undated++
		}
		if !s.expenses[i].Itemized() {
			unitemized++
		}
	}
	for i := range s.loans {
		claim(&s.loans[i].ID)
		if s.loans[i].Date.IsZero() {
			undated++
		}
	}
	for i := range s.records {
		claim(&s.records[i].ID)
		if s.records[i].Date.IsZero() {
			undated++
		}
	}
	now := s.clock()
	for _, id := range missing {
		*id = s.ids.next(now)
	}

	if len(missing) > 0 {
		s.logger.Info().Int("records", len(missing)).Msg("assigned ids to records saved without one")
	}
	if undated > 0 {
		s.logger.Warn().Int("records", undated).Msg("records without a readable date")
	}
	if unitemized > 0 {
		s.logger.Warn().Int("expenses", unitemized).Msg("expense titles that could not be decomposed, they cannot be edited")
	}
}

// Save writes the whole state through, subject to the persist policy.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(ctx)
}

func (s *Store) today() date.Date { return date.Of(s.clock()) }

// Currency returns the display currency code.
func (s *Store) Currency() string { return s.currency }

// Budget returns the budget.
func (s *Store) Budget() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budget
}

// SetBudget replaces the budget. It is not bounds checked.
func (s *Store) SetBudget(ctx context.Context, value decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budget = value
	return s.persist(ctx)
}

// Expenses returns a copy of the expenses, in insertion order.
func (s *Store) Expenses() []Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.expenses)
}

// Loans returns a copy of the loans, in insertion order.
func (s *Store) Loans() []Loan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.loans)
}

// CompanyRecords returns a copy of the company records, in insertion order.
func (s *Store) CompanyRecords() []CompanyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.records)
}

// Expense returns the expense with the given id.
func (s *Store) Expense(id ID) (Expense, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.expenseIndex(id)
	if i < 0 {
		return Expense{}, false
	}
	return s.expenses[i], true
}

// IDs returns the ids of a collection, in insertion order.
func (s *Store) IDs(kind Kind) ([]ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collectIDs(kind)
}

func (s *Store) collectIDs(kind Kind) ([]ID, error) {
	var ids []ID
	switch kind {
	case KindExpenses:
		for _, e := range s.expenses {
			ids = append(ids, e.ID)
		}
	case KindLoans:
		for _, l := range s.loans {
			ids = append(ids, l.ID)
		}
	case KindCompanyRecords:
		for _, r := range s.records {
			ids = append(ids, r.ID)
		}
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, kind)
	}
	return ids, nil
}

func (s *Store) expenseIndex(id ID) int {
	return slices.IndexFunc(s.expenses, func(e Expense) bool { return e.ID == id })
}

// Drafts.

// StageExpenseField updates a field of the expense draft: title, quantity,
// unit or unitPrice.
func (s *Store) StageExpenseField(field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expenseDraft.Set(field, value)
}

// StageLoanField updates a field of the loan draft: personName, amount or type.
func (s *Store) StageLoanField(field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loanDraft.Set(field, value)
}

// StageCompanyField updates a field of the company record draft: amount or description.
func (s *Store) StageCompanyField(field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.companyDraft.Set(field, value)
}

func (s *Store) ExpenseDraft() ExpenseDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expenseDraft
}

func (s *Store) LoanDraft() LoanDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loanDraft
}

func (s *Store) CompanyDraft() CompanyDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.companyDraft
}

// Commits.

// CommitExpense validates the expense draft and appends the expense, or
// replaces the expense being edited (keeping its id and position). The
// amount is computed here once, and the record is stamped with today's date.
//
// An invalid draft returns a *ValidationError and changes nothing, the
// draft is kept for correction.
func (s *Store) CommitExpense(ctx context.Context) (Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.editing == 0 {
		e, err := s.appendExpense(ctx, s.expenseDraft)
		if err == nil || errors.Is(err, ErrPersist) {
			s.expenseDraft = ExpenseDraft{}
		}
		return e, err
	}

	id := s.editing
	e, err := s.replaceExpense(ctx, id, s.expenseDraft)
	if errors.Is(err, ErrValidation) {
		return e, err
	}
	s.editing = 0
	s.expenseDraft = ExpenseDraft{}
	if errors.Is(err, ErrNotFound) {
		err = fmt.Errorf("%w: expense %v was deleted while being edited", ErrNotFound, id)
	}
	return e, err
}

// CreateExpense validates d and appends the expense it describes. It does
// not use nor change the expense draft.
func (s *Store) CreateExpense(ctx context.Context, d ExpenseDraft) (Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendExpense(ctx, d)
}

// UpdateExpense replaces the expense with the given id. Blank fields of
// patch keep their current value. It does not use nor change edit mode.
func (s *Store) UpdateExpense(ctx context.Context, id ID, patch ExpenseDraft) (Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.expenseIndex(id)
	if i < 0 {
		return Expense{}, fmt.Errorf("%w: expense %v", ErrNotFound, id)
	}
	var d ExpenseDraft
	if !patch.complete() {
		var err error
		if d, err = draftOf(s.expenses[i]); err != nil {
			return Expense{}, err
		}
	}
	for _, f := range []struct{ field, value string }{
		{"title", patch.Title},
		{"quantity", patch.Quantity},
		{"unit", patch.Unit},
		{"unitPrice", patch.UnitPrice},
	} {
		if strings.TrimSpace(f.value) != "" {
			d.Set(f.field, f.value)
		}
	}
	return s.replaceExpense(ctx, id, d)
}

func (s *Store) appendExpense(ctx context.Context, d ExpenseDraft) (Expense, error) {
	e, err := d.expense()
	if err != nil {
		return Expense{}, err
	}
	e.ID = s.ids.next(s.clock())
	e.Date = s.today()
	s.expenses = append(s.expenses, e)
	return e, s.persist(ctx)
}

func (s *Store) replaceExpense(ctx context.Context, id ID, d ExpenseDraft) (Expense, error) {
	e, err := d.expense()
	if err != nil {
		return Expense{}, err
	}
	i := s.expenseIndex(id)
	if i < 0 {
		return Expense{}, fmt.Errorf("%w: expense %v", ErrNotFound, id)
	}
	e.ID = id
	e.Date = s.today()
	s.expenses[i] = e
	return e, s.persist(ctx)
}

// CommitLoan validates the loan draft and appends the loan.
func (s *Store) CommitLoan(ctx context.Context) (Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, err := s.appendLoan(ctx, s.loanDraft)
	if err == nil || errors.Is(err, ErrPersist) {
		s.loanDraft = newLoanDraft()
	}
	return l, err
}

// CreateLoan validates d and appends the loan it describes. It does not
// use nor change the loan draft.
func (s *Store) CreateLoan(ctx context.Context, d LoanDraft) (Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLoan(ctx, d)
}

func (s *Store) appendLoan(ctx context.Context, d LoanDraft) (Loan, error) {
	l, err := d.loan()
	if err != nil {
		return Loan{}, err
	}
	l.ID = s.ids.next(s.clock())
	l.Date = s.today()
	s.loans = append(s.loans, l)
	return l, s.persist(ctx)
}

// CommitCompanyRecord validates the company draft and appends the record.
func (s *Store) CommitCompanyRecord(ctx context.Context) (CompanyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.appendCompanyRecord(ctx, s.companyDraft)
	if err == nil || errors.Is(err, ErrPersist) {
		s.companyDraft = CompanyDraft{}
	}
	return r, err
}

// CreateCompanyRecord validates d and appends the record it describes. It
// does not use nor change the company draft.
func (s *Store) CreateCompanyRecord(ctx context.Context, d CompanyDraft) (CompanyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendCompanyRecord(ctx, d)
}

func (s *Store) appendCompanyRecord(ctx context.Context, d CompanyDraft) (CompanyRecord, error) {
	r, err := d.record()
	if err != nil {
		return CompanyRecord{}, err
	}
	r.ID = s.ids.next(s.clock())
	r.Date = s.today()
	s.records = append(s.records, r)
	return r, s.persist(ctx)
}

// Edit mode.

// BeginEditExpense fills the expense draft from the expense and enters edit
// mode: the next CommitExpense replaces it. Expenses whose legacy title could
// not be decomposed return a *ParseError.
func (s *Store) BeginEditExpense(id ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.expenseIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: expense %v", ErrNotFound, id)
	}
	return s.beginEdit(i)
}

// BeginEditExpenseAt is BeginEditExpense for the expense at a position.
func (s *Store) BeginEditExpenseAt(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.expenses) {
		return fmt.Errorf("%w: no expense at position %d", ErrNotFound, index)
	}
	return s.beginEdit(index)
}

func (s *Store) beginEdit(i int) error {
	d, err := draftOf(s.expenses[i])
	if err != nil {
		return err
	}
	s.expenseDraft = d
	s.editing = s.expenses[i].ID
	return nil
}

// draftOf returns the draft fields of an expense. Expenses that are not
// itemized are decomposed from their title.
func draftOf(e Expense) (ExpenseDraft, error) {
	if !e.Itemized() {
		return ParseExpenseLabel(e.Name)
	}
	return ExpenseDraft{
		Title:     e.Name,
		Quantity:  e.Quantity.String(),
		Unit:      e.Unit,
		UnitPrice: decimalText(e.UnitPrice),
	}, nil
}

// Editing returns the id of the expense being edited.
func (s *Store) Editing() (ID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editing, s.editing != 0
}

// CancelEdit leaves edit mode and resets the expense draft.
func (s *Store) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing = 0
	s.expenseDraft = ExpenseDraft{}
}

// Deletes.

// DeleteExpense removes the expense with the given id.
func (s *Store) DeleteExpense(ctx context.Context, id ID) error {
	return s.deleteOne(ctx, KindExpenses, id)
}

// DeleteExpenseAt removes the expense at a position. Later expenses move up one position.
func (s *Store) DeleteExpenseAt(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.expenses) {
		return fmt.Errorf("%w: no expense at position %d", ErrNotFound, index)
	}
	s.expenses = slices.Delete(s.expenses, index, index+1)
	return s.persist(ctx)
}

// DeleteLoan removes the loan with the given id.
func (s *Store) DeleteLoan(ctx context.Context, id ID) error {
	return s.deleteOne(ctx, KindLoans, id)
}

// DeleteCompanyRecord removes the company record with the given id.
func (s *Store) DeleteCompanyRecord(ctx context.Context, id ID) error {
	return s.deleteOne(ctx, KindCompanyRecords, id)
}

func (s *Store) deleteOne(ctx context.Context, kind Kind, id ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.deleteIDs(kind, map[ID]bool{id: true})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %v", ErrNotFound, kind.Singular(), id)
	}
	return s.persist(ctx)
}

// deleteIDs removes the records of one kind whose id is in ids, and returns
// how many were removed. It does not persist.
func (s *Store) deleteIDs(kind Kind, ids map[ID]bool) (int, error) {
	var before, after int
	switch kind {
	case KindExpenses:
		before = len(s.expenses)
		s.expenses = slices.DeleteFunc(s.expenses, func(e Expense) bool { return ids[e.ID] })
		after = len(s.expenses)
	case KindLoans:
		before = len(s.loans)
		s.loans = slices.DeleteFunc(s.loans, func(l Loan) bool { return ids[l.ID] })
		after = len(s.loans)
	case KindCompanyRecords:
		before = len(s.records)
		s.records = slices.DeleteFunc(s.records, func(r CompanyRecord) bool { return ids[r.ID] })
		after = len(s.records)
	default:
		return 0, fmt.Errorf("%w %q", ErrUnknownKind, kind)
	}
	return before - after, nil
}

// Aggregates.

// Totals computes every aggregate at once.
func (s *Store) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return computeTotals(s.budget, s.expenses, s.loans, s.records)
}

// TotalExpenses is the sum of the expense amounts.
func (s *Store) TotalExpenses() decimal.Decimal { return s.Totals().TotalExpenses }

// RemainingBudget is the budget minus TotalExpenses.
func (s *Store) RemainingBudget() decimal.Decimal { return s.Totals().RemainingBudget }

// TotalBorrowed is the sum of the borrowed loans: what the user owes.
func (s *Store) TotalBorrowed() decimal.Decimal { return s.Totals().TotalBorrowed }

// TotalLent is the sum of the lent loans: what is owed to the user.
func (s *Store) TotalLent() decimal.Decimal { return s.Totals().TotalLent }

// TotalCompanyMoney is the sum of the company record amounts.
func (s *Store) TotalCompanyMoney() decimal.Decimal { return s.Totals().TotalCompanyMoney }
