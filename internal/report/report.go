// Package report renders symbol and predicate tables as text listings and
// as JSON-friendly views.
package report

import (
	"fmt"
	"io"
	"strings"

	"factmap/internal/graph"
	"factmap/util"
)

// WriteSymbols lists every symbol followed by the predicates and positions
// it is used at.
func WriteSymbols(w io.Writer, st *graph.SymbolTable) error {
	if _, err := fmt.Fprintln(w, "Symbol Table:"); err != nil {
		return err
	}
	for _, s := range st.Symbols() {
		if _, err := fmt.Fprintf(w, "'%s':\n", s.Name); err != nil {
			return err
		}
		for _, u := range s.Usages {
			if _, err := fmt.Fprintf(w, "\t'%s': %d\n", u.Predicate.Name, u.Position); err != nil {
				return err
			}
		}
	}
	return nil
}

// WritePredicates lists every application as a fact, e.g. "likes(tom,wine).".
func WritePredicates(w io.Writer, pt *graph.PredicateTable) error {
	if _, err := fmt.Fprintln(w, "Predicate Table:"); err != nil {
		return err
	}
	for _, p := range pt.Predicates() {
		for _, app := range p.Applications {
			if _, err := fmt.Fprintln(w, FormatApplication(p, app)); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteTables writes the symbol listing followed by the predicate listing.
func WriteTables(w io.Writer, t *graph.Tables) error {
	if err := WriteSymbols(w, t.Symbols); err != nil {
		return err
	}
	return WritePredicates(w, t.Predicates)
}

// FormatApplication renders one application in source form.
func FormatApplication(p *graph.Predicate, app *graph.Application) string {
	return fmt.Sprintf("%s(%s).", p.Name, strings.Join(app.ArgumentNames(), ","))
}

// UsageView is one place a symbol occurs.
type UsageView struct {
	Predicate     string `json:"predicate"`
	ApplicationID string `json:"application_id"`
	Application   int    `json:"application"`
	Position      int    `json:"position"`
}

// SymbolView is a symbol with its usages.
type SymbolView struct {
	Name   string      `json:"name"`
	Usages []UsageView `json:"usages"`
}

// ApplicationView is one application of a predicate.
type ApplicationView struct {
	ID        string   `json:"id"`
	Index     int      `json:"index"`
	Arity     int      `json:"arity"`
	Arguments []string `json:"arguments"`
}

// PredicateView is a predicate with its applications.
type PredicateView struct {
	Name         string            `json:"name"`
	Applications []ApplicationView `json:"applications"`
}

// NewSymbolView builds the view of one symbol.
func NewSymbolView(s *graph.Symbol) SymbolView {
	v := SymbolView{Name: s.Name, Usages: make([]UsageView, 0, len(s.Usages))}
	for _, u := range s.Usages {
		v.Usages = append(v.Usages, UsageView{
			Predicate:     u.Predicate.Name,
			ApplicationID: util.ApplicationID(u.Predicate.Name, u.Application.Index),
			Application:   u.Application.Index,
			Position:      u.Position,
		})
	}
	return v
}

// NewPredicateView builds the view of one predicate.
func NewPredicateView(p *graph.Predicate) PredicateView {
	v := PredicateView{Name: p.Name, Applications: make([]ApplicationView, 0, len(p.Applications))}
	for _, app := range p.Applications {
		v.Applications = append(v.Applications, ApplicationView{
			ID:        util.ApplicationID(p.Name, app.Index),
			Index:     app.Index,
			Arity:     app.Arity,
			Arguments: app.ArgumentNames(),
		})
	}
	return v
}

// Symbols returns views of every symbol in table order.
func Symbols(t *graph.Tables) []SymbolView {
	out := make([]SymbolView, 0, t.Symbols.Len())
	for _, s := range t.Symbols.Symbols() {
		out = append(out, NewSymbolView(s))
	}
	return out
}

// Predicates returns views of every predicate in table order.
func Predicates(t *graph.Tables) []PredicateView {
	out := make([]PredicateView, 0, t.Predicates.Len())
	for _, p := range t.Predicates.Predicates() {
		out = append(out, NewPredicateView(p))
	}
	return out
}

// LookupSymbol returns the view of the named symbol.
func LookupSymbol(t *graph.Tables, name string) (SymbolView, bool) {
	s, ok := t.Symbols.Find(name)
	if !ok {
		return SymbolView{}, false
	}
	return NewSymbolView(s), true
}

// LookupPredicate returns the view of the named predicate.
func LookupPredicate(t *graph.Tables, name string) (PredicateView, bool) {
	p, ok := t.Predicates.Find(name)
	if !ok {
		return PredicateView{}, false
	}
	return NewPredicateView(p), true
}
