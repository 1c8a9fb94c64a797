package grammar

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSyntax is matched by every *ParseError.
var ErrSyntax = errors.New("syntax error")

// ParseError reports the first place where the input does not match the grammar.
type ParseError struct {
	Filename string
	Line     int
	Column   int
	Expected []string
	Found    string // empty at end of input
}

func (e *ParseError) Error() string {
	found := "end of input"
	if e.Found != "" {
		found = fmt.Sprintf("'%s'", e.Found)
	}
	return fmt.Sprintf("%s:%d:%d: error: expected %s at %s",
		e.Filename, e.Line, e.Column, joinExpected(e.Expected), found)
}

func (e *ParseError) Unwrap() error { return ErrSyntax }

func joinExpected(items []string) string {
	switch len(items) {
	case 0:
		return "nothing"
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " or " + items[len(items)-1]
	}
}
