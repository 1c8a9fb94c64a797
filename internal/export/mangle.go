// Package export converts loaded tables into Mangle (Datalog) source.
package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/mangle/ast"

	"factmap/internal/graph"
)

// ErrPredicateName is matched by every *PredicateNameError.
var ErrPredicateName = errors.New("invalid mangle predicate name")

// PredicateNameError reports a predicate whose name Mangle cannot declare.
// Mangle predicate names start with a lowercase letter; the fact grammar also
// allows an uppercase letter, a digit or '_'.
type PredicateNameError struct {
	Predicate   string
	Application int
}

func (e *PredicateNameError) Error() string {
	return fmt.Sprintf("%s application %d: predicate name %q must start with a lowercase letter",
		e.Predicate, e.Application, e.Predicate)
}

func (e *PredicateNameError) Unwrap() error { return ErrPredicateName }

// Atoms converts every application of pt into a Mangle atom, in table order.
// Constants become names (tom -> /tom) and variables stay variables. A
// predicate name Mangle rejects fails the whole conversion.
func Atoms(pt *graph.PredicateTable) ([]ast.Atom, error) {
	var atoms []ast.Atom
	for _, p := range pt.Predicates() {
		for _, app := range p.Applications {
			if !isPredicateName(p.Name) {
				return nil, &PredicateNameError{Predicate: p.Name, Application: app.Index}
			}
			terms := make([]ast.BaseTerm, len(app.Arguments))
			for i, s := range app.Arguments {
				term, err := Term(s.Name)
				if err != nil {
					return nil, fmt.Errorf("%s application %d argument %d: %w", p.Name, app.Index, i, err)
				}
				terms[i] = term
			}
			atoms = append(atoms, ast.NewAtom(p.Name, terms...))
		}
	}
	return atoms, nil
}

func isPredicateName(name string) bool {
	if name == "" || name[0] < 'a' || name[0] > 'z' {
		return false
	}
	for i := 1; i < len(name); i++ {
		c := name[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_') {
			return false
		}
	}
	return true
}

// Term converts one symbol name into a Mangle term.
func Term(name string) (ast.BaseTerm, error) {
	if name == "" {
		return nil, fmt.Errorf("empty symbol name")
	}
	if c := name[0]; c >= 'A' && c <= 'Z' {
		return ast.Variable{Symbol: name}, nil
	}
	n, err := ast.Name("/" + name)
	if err != nil {
		// Names Mangle rejects are kept as strings.
		return ast.String(name), nil
	}
	return n, nil
}

// WriteMangle writes one clause per application. Nothing is written when a
// predicate cannot be exported.
func WriteMangle(w io.Writer, pt *graph.PredicateTable) error {
	atoms, err := Atoms(pt)
	if err != nil {
		return err
	}
	for _, a := range atoms {
		if _, err := fmt.Fprintf(w, "%s.\n", a.String()); err != nil {
			return err
		}
	}
	return nil
}
