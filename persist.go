package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Storage keys, shared with the data written by the browser front end.
const (
	keyBudget         = "budget"
	keyExpenses       = "expenses"
	keyLoans          = "loans"
	keyCompanyRecords = "companyRecords"
)

// Policy decides which values are written to storage.
type Policy int

const (
	// PolicySkipDefaults never writes a zero budget nor an empty collection.
	// Resetting a value to its default is therefore not persisted, and a
	// fresh Store can never overwrite saved data before it was loaded.
	PolicySkipDefaults Policy = iota
	// PolicyWriteAll writes every value on every save.
	PolicyWriteAll
)

func (p Policy) String() string {
	switch p {
	case PolicySkipDefaults:
		return "skip-defaults"
	case PolicyWriteAll:
		return "write-all"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy parses "skip-defaults" or "write-all".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "skip-defaults", "":
		return PolicySkipDefaults, nil
	case "write-all":
		return PolicyWriteAll, nil
	default:
		return 0, fmt.Errorf("unknown persist policy %q", s)
	}
}

// entry is one value ready to be written.
type entry struct {
	key   string
	value string
}

// encode serializes the state, applying the policy.
func (s *Store) encode() ([]entry, error) {
	skip := s.policy == PolicySkipDefaults
	var entries []entry
	add := func(key string, v any, isDefault bool) error {
		if skip && isDefault {
			return nil
		}
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("cannot encode %q: %w", key, err)
		}
		entries = append(entries, entry{key, string(data)})
		return nil
	}

	// an empty slice must be written as [] not null.
	expenses, loans, records := nonNil(s.expenses), nonNil(s.loans), nonNil(s.records)
	if err := errors.Join(
		add(keyBudget, s.budget, s.budget.IsZero()),
		add(keyExpenses, expenses, len(expenses) == 0),
		add(keyLoans, loans, len(loans) == 0),
		add(keyCompanyRecords, records, len(records) == 0),
	); err != nil {
		return nil, err
	}
	return entries, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// persist writes the state through. Failures are logged and returned
// wrapped in ErrPersist, the in-memory state is left untouched.
func (s *Store) persist(ctx context.Context) error {
	entries, err := s.encode()
	if err != nil {
		s.logger.Error().Err(err).Msg("cannot encode tracker")
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	var errs []error
	for _, e := range entries {
		if err := s.kv.Set(ctx, e.key, e.value); err != nil {
			s.logger.Error().Err(err).Str("key", e.key).Msg("cannot persist value")
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrPersist, errors.Join(errs...))
	}
	return nil
}

// loaded holds decoded values; nil pointers mean the key was absent.
type loaded struct {
	budget   *decimal.Decimal
	expenses []Expense
	loans    []Loan
	records  []CompanyRecord
	found    map[string]bool
}

// decode reads every key. Any value that cannot be decoded aborts the load,
// so that the next save never overwrites data that was merely unreadable.
func (s *Store) decode(ctx context.Context) (loaded, error) {
	l := loaded{found: make(map[string]bool)}
	read := func(key string, v any) error {
		raw, ok, err := s.kv.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("cannot read %q: %w", key, err)
		}
		if !ok || strings.TrimSpace(raw) == "" || strings.TrimSpace(raw) == "null" {
			return nil
		}
		if err := json.Unmarshal([]byte(raw), v); err != nil {
			return fmt.Errorf("cannot decode %q: %w", key, err)
		}
		l.found[key] = true
		return nil
	}

	var budget decimal.Decimal
	err := errors.Join(
		read(keyBudget, &budget),
		read(keyExpenses, &l.expenses),
		read(keyLoans, &l.loans),
		read(keyCompanyRecords, &l.records),
	)
	if err != nil {
		return loaded{}, err
	}
	if l.found[keyBudget] {
		l.budget = &budget
	}
	return l, nil
}
