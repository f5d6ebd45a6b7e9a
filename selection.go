package tracker

import (
	"context"
	"fmt"
	"slices"
)

// Selection tracks the records picked for bulk deletion, per kind, and the
// confirmation gate in front of the deletion.
//
// At most one kind can be pending confirmation. A Selection belongs to one
// user session and is not safe for concurrent use.
type Selection struct {
	store    *Store
	selected map[Kind][]ID
	pending  Kind
}

// NewSelection returns an empty selection over the store's records.
func (s *Store) NewSelection() *Selection {
	return &Selection{store: s, selected: make(map[Kind][]ID)}
}

// Toggle adds the id to the selection of kind, or removes it if present.
// Ids are not checked against the store.
func (sel *Selection) Toggle(kind Kind, id ID) error {
	if _, err := ParseKind(string(kind)); err != nil {
		return err
	}
	ids := sel.selected[kind]
	if i := slices.Index(ids, id); i >= 0 {
		sel.selected[kind] = slices.Delete(ids, i, i+1)
		return nil
	}
	sel.selected[kind] = append(ids, id)
	return nil
}

// ToggleAll selects every record of kind, or clears the selection when it
// already has as many ids as the collection has records.
func (sel *Selection) ToggleAll(kind Kind) error {
	ids, err := sel.store.IDs(kind)
	if err != nil {
		return err
	}
	if len(sel.selected[kind]) == len(ids) {
		sel.selected[kind] = nil
		return nil
	}
	sel.selected[kind] = ids
	return nil
}

// Selected returns the selected ids of kind, in selection order.
func (sel *Selection) Selected(kind Kind) []ID {
	return slices.Clone(sel.selected[kind])
}

// IsSelected reports whether id is selected for kind.
func (sel *Selection) IsSelected(kind Kind, id ID) bool {
	return slices.Contains(sel.selected[kind], id)
}

// RequestDelete arms the confirmation gate for kind. It replaces any other
// pending request.
func (sel *Selection) RequestDelete(kind Kind) error {
	if _, err := ParseKind(string(kind)); err != nil {
		return err
	}
	sel.pending = kind
	return nil
}

// Pending returns the kind awaiting confirmation.
func (sel *Selection) Pending() (Kind, bool) {
	return sel.pending, sel.pending != ""
}

// CancelDelete disarms the gate. The selection is kept.
func (sel *Selection) CancelDelete() { sel.pending = "" }

// ConfirmDelete deletes the selected records of the pending kind, clears
// that kind's selection and disarms the gate. Selected ids that no longer
// exist are ignored. Other kinds are left untouched.
//
// It returns how many records were deleted. Without a pending request it
// returns ErrNoPendingDelete.
func (sel *Selection) ConfirmDelete(ctx context.Context) (int, error) {
	kind := sel.pending
	if kind == "" {
		return 0, ErrNoPendingDelete
	}
	ids := make(map[ID]bool)
	for _, id := range sel.selected[kind] {
		ids[id] = true
	}

	s := sel.store
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.deleteIDs(kind, ids)
	if err != nil {
		return 0, fmt.Errorf("cannot delete %s: %w", kind, err)
	}
	sel.selected[kind] = nil
	sel.pending = ""
	s.logger.Debug().Stringer("kind", kind).Int("deleted", n).Msg("bulk delete")
	return n, s.persist(ctx)
}
