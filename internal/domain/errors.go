package domain

import "errors"

// ErrNotFound is returned by lookups when no row matches. It is a normal
// outcome and distinct from a read failure.
var ErrNotFound = errors.New("not found")
