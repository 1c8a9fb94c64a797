package graph

import (
	"fmt"
	"strings"

	"factmap/internal/registry"
)

// SymbolTable holds one Symbol per distinct name in first-seen order.
type SymbolTable struct {
	reg *registry.Registry[Symbol]
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{reg: registry.New(func(s *Symbol) string { return s.Name })}
}

// Add registers a new symbol. It does not check for an existing one.
func (t *SymbolTable) Add(name string) *Symbol {
	s := &Symbol{Name: strings.Clone(name)}
	t.reg.Add(s)
	return s
}

// Find returns the symbol registered under name.
func (t *SymbolTable) Find(name string) (*Symbol, bool) {
	return t.reg.Find(name)
}

// Len returns the number of symbols.
func (t *SymbolTable) Len() int {
	return t.reg.Len()
}

// Symbols returns the symbols in registration order.
func (t *SymbolTable) Symbols() []*Symbol {
	out := make([]*Symbol, 0, t.reg.Len())
	for _, s := range t.reg.All() {
		out = append(out, s)
	}
	return out
}

// PredicateTable holds one Predicate per distinct name in first-seen order.
type PredicateTable struct {
	reg *registry.Registry[Predicate]
}

// NewPredicateTable creates an empty predicate table.
func NewPredicateTable() *PredicateTable {
	return &PredicateTable{reg: registry.New(func(p *Predicate) string { return p.Name })}
}

// Add registers a new predicate. It does not check for an existing one.
func (t *PredicateTable) Add(name string) *Predicate {
	p := &Predicate{Name: strings.Clone(name)}
	t.reg.Add(p)
	return p
}

// Find returns the predicate registered under name.
func (t *PredicateTable) Find(name string) (*Predicate, bool) {
	return t.reg.Find(name)
}

// Len returns the number of predicates.
func (t *PredicateTable) Len() int {
	return t.reg.Len()
}

// Predicates returns the predicates in registration order.
func (t *PredicateTable) Predicates() []*Predicate {
	out := make([]*Predicate, 0, t.reg.Len())
	for _, p := range t.reg.All() {
		out = append(out, p)
	}
	return out
}

// Tables pairs the symbol and predicate tables built from one program.
type Tables struct {
	Symbols    *SymbolTable
	Predicates *PredicateTable
}

// NewTables creates an empty pair of tables.
func NewTables() *Tables {
	return &Tables{
		Symbols:    NewSymbolTable(),
		Predicates: NewPredicateTable(),
	}
}

// Stats summarizes table sizes.
type Stats struct {
	Symbols      int `json:"symbols"`
	Predicates   int `json:"predicates"`
	Applications int `json:"applications"`
	Usages       int `json:"usages"`
}

// Stats counts the entries of both tables.
func (t *Tables) Stats() Stats {
	st := Stats{
		Symbols:    t.Symbols.Len(),
		Predicates: t.Predicates.Len(),
	}
	for _, p := range t.Predicates.Predicates() {
		st.Applications += len(p.Applications)
	}
	for _, s := range t.Symbols.Symbols() {
		st.Usages += len(s.Usages)
	}
	return st
}

// Verify checks that every application's arity matches its argument list and
// that applications and usages mirror each other exactly.
func (t *Tables) Verify() error {
	want := make(map[Usage]int)
	for _, p := range t.Predicates.Predicates() {
		if found, _ := t.Predicates.Find(p.Name); found != p {
			return fmt.Errorf("predicate %q registered more than once", p.Name)
		}
		for i, app := range p.Applications {
			if app.Index != i {
				return fmt.Errorf("%s application %d has index %d", p.Name, i, app.Index)
			}
			if len(app.Arguments) != app.Arity {
				return fmt.Errorf("%s application %d has arity %d but %d arguments",
					p.Name, i, app.Arity, len(app.Arguments))
			}
			for pos := range app.Arguments {
				want[Usage{Position: pos, Predicate: p, Application: app}]++
			}
		}
	}

	for _, s := range t.Symbols.Symbols() {
		if found, _ := t.Symbols.Find(s.Name); found != s {
			return fmt.Errorf("symbol %q registered more than once", s.Name)
		}
		for _, u := range s.Usages {
			key := *u
			if want[key] == 0 {
				return fmt.Errorf("symbol %q has a usage at %s/%d position %d with no matching application",
					s.Name, u.Predicate.Name, u.Application.Index, u.Position)
			}
			if u.Application.Arguments[u.Position] != s {
				return fmt.Errorf("symbol %q usage at %s/%d position %d points at %q",
					s.Name, u.Predicate.Name, u.Application.Index, u.Position,
					u.Application.Arguments[u.Position].Name)
			}
			want[key]--
		}
	}

	for u, n := range want {
		if n > 0 {
			return fmt.Errorf("%s application %d position %d has no usage on %q",
				u.Predicate.Name, u.Application.Index, u.Position, u.Application.Arguments[u.Position].Name)
		}
	}
	return nil
}
