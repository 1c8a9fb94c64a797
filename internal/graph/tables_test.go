package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// link adds an application the way the loader does.
func link(t *Tables, pred string, args ...string) *Application {
	p, ok := t.Predicates.Find(pred)
	if !ok {
		p = t.Predicates.Add(pred)
	}
	syms := make([]*Symbol, len(args))
	for i, a := range args {
		s, ok := t.Symbols.Find(a)
		if !ok {
			s = t.Symbols.Add(a)
		}
		syms[i] = s
	}
	app := p.AddApplication(syms)
	for i, s := range syms {
		s.AddUsage(i, p, app)
	}
	return app
}

func TestTablesFindOrCreate(t *testing.T) {
	tables := NewTables()
	a0 := link(tables, "likes", "tom", "wine")
	a1 := link(tables, "likes", "mary", "wine")

	require.Equal(t, 1, tables.Predicates.Len())
	require.Equal(t, 3, tables.Symbols.Len())

	likes, ok := tables.Predicates.Find("likes")
	require.True(t, ok)
	assert.Equal(t, []*Application{a0, a1}, likes.Applications)
	assert.Equal(t, 0, a0.Index)
	assert.Equal(t, 1, a1.Index)
	assert.Equal(t, []string{"mary", "wine"}, a1.ArgumentNames())

	wine, ok := tables.Symbols.Find("wine")
	require.True(t, ok)
	require.Len(t, wine.Usages, 2)
	assert.Equal(t, Usage{Position: 1, Predicate: likes, Application: a0}, *wine.Usages[0])
	assert.Equal(t, Usage{Position: 1, Predicate: likes, Application: a1}, *wine.Usages[1])

	assert.NoError(t, tables.Verify())
	assert.Equal(t, Stats{Symbols: 3, Predicates: 1, Applications: 2, Usages: 4}, tables.Stats())
}

func TestAddApplicationCopiesArguments(t *testing.T) {
	p := &Predicate{Name: "p"}
	args := []*Symbol{{Name: "a"}, {Name: "b"}}
	app := p.AddApplication(args)
	args[0] = &Symbol{Name: "changed"}

	assert.Equal(t, 2, app.Arity)
	assert.Equal(t, []string{"a", "b"}, app.ArgumentNames())
}

func TestAddDoesNotDeduplicate(t *testing.T) {
	st := NewSymbolTable()
	first := st.Add("x")
	st.Add("x")

	assert.Equal(t, 2, st.Len())
	got, _ := st.Find("x")
	assert.Same(t, first, got)
}

func TestNamesAreOwned(t *testing.T) {
	buf := []byte("tom")
	st := NewSymbolTable()
	s := st.Add(string(buf))
	buf[0] = 'j'

	assert.Equal(t, "tom", s.Name)
}

func TestVerifyDetectsInconsistency(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Tables)
		want   string
	}{
		{
			name: "arity mismatch",
			mutate: func(tb *Tables) {
				p, _ := tb.Predicates.Find("likes")
				p.Applications[0].Arity = 3
			},
			want: "arity 3 but 2 arguments",
		},
		{
			name: "missing usage",
			mutate: func(tb *Tables) {
				s, _ := tb.Symbols.Find("tom")
				s.Usages = nil
			},
			want: "has no usage",
		},
		{
			name: "dangling usage",
			mutate: func(tb *Tables) {
				s, _ := tb.Symbols.Find("tom")
				p, _ := tb.Predicates.Find("likes")
				s.AddUsage(5, p, p.Applications[0])
			},
			want: "no matching application",
		},
		{
			name: "usage on the wrong slot",
			mutate: func(tb *Tables) {
				s, _ := tb.Symbols.Find("tom")
				p, _ := tb.Predicates.Find("likes")
				s.AddUsage(1, p, p.Applications[0])
			},
			want: `points at "wine"`,
		},
		{
			name: "duplicate predicate",
			mutate: func(tb *Tables) {
				tb.Predicates.Add("likes")
			},
			want: "registered more than once",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables := NewTables()
			link(tables, "likes", "tom", "wine")
			require.NoError(t, tables.Verify())

			tt.mutate(tables)
			err := tables.Verify()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
