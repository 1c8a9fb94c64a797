package loader

import (
	"errors"
	"fmt"

	"factmap/internal/tagtree"
)

// ErrTooManyArguments is matched by every *ArgumentCountError.
var ErrTooManyArguments = errors.New("too many arguments")

// ArgumentCountError reports a predicate application with more arguments than
// the loader accepts. The load that hit it changes no table.
type ArgumentCountError struct {
	Predicate string
	Count     int
	Max       int
	Pos       tagtree.Position
}

func (e *ArgumentCountError) Error() string {
	return fmt.Sprintf("%s: %s has %d arguments, at most %d allowed", e.Pos, e.Predicate, e.Count, e.Max)
}

func (e *ArgumentCountError) Unwrap() error { return ErrTooManyArguments }
