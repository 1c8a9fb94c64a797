// Package loader fills the symbol and predicate tables from the facts of a
// parsed program.
package loader

import (
	"go.uber.org/zap"

	"factmap/internal/graph"
	"factmap/internal/tagtree"
)

// DefaultMaxArguments is the largest argument count accepted per application.
const DefaultMaxArguments = 9

const (
	tagFact      = "fact"
	tagPredicate = "predicate"
	tagIdent     = "ident"
)

// Loader walks a tagged tree and interns its facts.
type Loader struct {
	maxArgs int
	logger  *zap.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithMaxArguments sets the argument limit. Values below one select the default.
func WithMaxArguments(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.maxArgs = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		maxArgs: DefaultMaxArguments,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// MaxArguments returns the configured argument limit.
func (l *Loader) MaxArguments() int {
	return l.maxArgs
}

// application is one predicate occurrence read from the tree.
type application struct {
	name string
	args []string
}

// Load builds fresh tables from tree.
func (l *Loader) Load(tree tagtree.Node) (*graph.Tables, error) {
	tables := graph.NewTables()
	if err := l.LoadInto(tables, tree); err != nil {
		return nil, err
	}
	return tables, nil
}

// LoadInto adds the facts of tree to tables. Queries are skipped. If any
// application exceeds the argument limit nothing is added.
func (l *Loader) LoadInto(tables *graph.Tables, tree tagtree.Node) error {
	apps, err := l.collect(tree)
	if err != nil {
		return err
	}

	for _, app := range apps {
		l.add(tables, app)
	}

	l.logger.Info("Loaded facts",
		zap.Int("applications", len(apps)),
		zap.Int("symbols", tables.Symbols.Len()),
		zap.Int("predicates", tables.Predicates.Len()))
	return nil
}

func (l *Loader) collect(tree tagtree.Node) ([]application, error) {
	var apps []application

	for fact := range tagtree.Locate(tree, tagFact) {
		l.logger.Debug("Found fact", zap.Stringer("pos", fact.Pos()))

		for pred := range tagtree.Locate(fact, tagPredicate) {
			idents := tagtree.FindAll(pred, tagIdent)
			if len(idents) == 0 {
				continue
			}

			app := application{name: idents[0].Contents()}
			if n := len(idents) - 1; n > l.maxArgs {
				return nil, &ArgumentCountError{
					Predicate: app.name,
					Count:     n,
					Max:       l.maxArgs,
					Pos:       pred.Pos(),
				}
			}
			for _, id := range idents[1:] {
				app.args = append(app.args, id.Contents())
			}
			apps = append(apps, app)
		}
	}
	return apps, nil
}

func (l *Loader) add(tables *graph.Tables, app application) {
	pred, ok := tables.Predicates.Find(app.name)
	if !ok {
		pred = tables.Predicates.Add(app.name)
	}

	syms := make([]*graph.Symbol, len(app.args))
	for i, name := range app.args {
		sym, ok := tables.Symbols.Find(name)
		if !ok {
			sym = tables.Symbols.Add(name)
		}
		syms[i] = sym
	}

	link := pred.AddApplication(syms)
	for i, sym := range syms {
		sym.AddUsage(i, pred, link)
	}

	l.logger.Debug("Added application",
		zap.String("predicate", app.name),
		zap.Strings("arguments", app.args))
}
