package tracker

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("invalid record")
	// ErrParse is matched by every *ParseError.
	ErrParse = errors.New("cannot parse expense title")

	ErrNotFound        = errors.New("record not found")
	ErrUnknownField    = errors.New("unknown field")
	ErrUnknownKind     = errors.New("unknown record kind")
	ErrNoPendingDelete = errors.New("no deletion pending confirmation")
	// ErrPersist wraps storage failures. The in-memory state has been changed
	// nonetheless.
	ErrPersist = errors.New("cannot persist tracker")
)

// ValidationError reports the draft fields that prevented a commit.
// A failed commit is a no-op: the draft is kept for correction.
type ValidationError struct {
	Kind     Kind
	Missing  []string // required fields left blank
	Problems []string // fields present but unusable, like a non numeric amount
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	parts = append(parts, e.Problems...)
	return fmt.Sprintf("invalid %s: %s", e.Kind.Singular(), strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ParseError reports a composed expense title that does not have the
// "<name> (<quantity> <unit> @ Rs<price> per unit)" shape.
type ParseError struct {
	Title  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse expense title %q: %s", e.Title, e.Reason)
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }
