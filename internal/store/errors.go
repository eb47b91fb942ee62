package store

import "errors"

var (
	// ErrInvalidInput marks rejected input such as a blank display name.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks lookups against ids that are not registered.
	ErrNotFound = errors.New("not found")
	// ErrInternalInconsistency marks invariant violations. These should not
	// happen while the coordinator is the sole mutator, but they are
	// reported rather than crashed on.
	ErrInternalInconsistency = errors.New("internal inconsistency")
)
