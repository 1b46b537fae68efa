package ledger

import "errors"

// ErrNotFound is returned by Update when no expense has the requested ID.
var ErrNotFound = errors.New("expense not found")
