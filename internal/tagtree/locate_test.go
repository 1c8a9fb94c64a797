package tagtree

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(tag, contents string) *Tree {
	return NewTree(tag, contents, Position{Line: 1, Column: 1})
}

func node(tag string, children ...Node) *Tree {
	return NewTree(tag, "", Position{Line: 1, Column: 1}, children...)
}

// likesTree mirrors the grammar engine's output for
//
//	likes(tom,wine).
//	likes(mary,wine).
func likesTree() *Tree {
	app := func(a, b string) *Tree {
		return node("union|predicate|>",
			leaf("ident|constant|regex", "likes"),
			leaf("char", "("),
			node("params|>",
				leaf("ident|constant|regex", a),
				leaf("char", ","),
				leaf("ident|constant|regex", b),
			),
			leaf("char", ")"),
		)
	}
	return node(">",
		leaf("regex", ""),
		node("fact|>", app("tom", "wine"), leaf("char", ".")),
		node("fact|>", app("mary", "wine"), leaf("char", ".")),
		leaf("regex", ""),
	)
}

func contents(nodes []Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Contents())
	}
	return out
}

func TestLocatorDocumentOrder(t *testing.T) {
	root := likesTree()

	facts := FindAll(root, "fact")
	require.Len(t, facts, 2)

	var idents [][]string
	for _, f := range facts {
		preds := FindAll(f, "predicate")
		require.Len(t, preds, 1)
		idents = append(idents, contents(FindAll(preds[0], "ident")))
	}

	assert.Equal(t, [][]string{
		{"likes", "tom", "wine"},
		{"likes", "mary", "wine"},
	}, idents)
}

func TestLocatorDoesNotDescendIntoMatches(t *testing.T) {
	inner := node("fact|>", leaf("fact", "nested"))
	root := node(">", inner, leaf("fact", "after"))

	got := FindAll(root, "fact")
	require.Len(t, got, 2)
	assert.Same(t, inner, got[0])
	assert.Equal(t, "after", got[1].Contents())
}

func TestLocatorResumesAfterNestedMatch(t *testing.T) {
	root := node(">",
		node("union|>",
			node("predicate|>", leaf("ident", "p")),
			leaf("char", ","),
			node("predicate|>", leaf("ident", "q")),
		),
		node("wrapper",
			node("deeper", node("predicate|>", leaf("ident", "r"))),
		),
		node("predicate|>", leaf("ident", "s")),
	)

	var names []string
	for p := range Locate(root, "predicate") {
		n, ok := Find(p, "ident")
		require.True(t, ok)
		names = append(names, n.Contents())
	}
	assert.Equal(t, []string{"p", "q", "r", "s"}, names)
}

func TestLocatorSkipsScopeNode(t *testing.T) {
	scope := node("predicate|>", leaf("ident", "p"))
	_, ok := Find(scope, "predicate")
	assert.False(t, ok)
}

func TestLocatorExhaustionIsSticky(t *testing.T) {
	l := NewLocator(likesTree(), "fact")

	for i := 0; i < 2; i++ {
		_, ok := l.Next()
		require.True(t, ok)
	}
	for i := 0; i < 5; i++ {
		n, ok := l.Next()
		assert.False(t, ok)
		assert.Nil(t, n)
	}
}

func TestLocatorEdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		scope Node
		tag   string
		want  int
	}{
		{"nil scope", nil, "fact", 0},
		{"leaf scope", leaf("fact", "x"), "fact", 0},
		{"no match", likesTree(), "query", 0},
		{"substring match", likesTree(), "const", 6},
		{"empty tag matches direct children", likesTree(), "", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, FindAll(tt.scope, tt.tag), tt.want)
		})
	}
}

func TestLocatorsAreIndependent(t *testing.T) {
	root := likesTree()
	a := NewLocator(root, "ident")
	b := NewLocator(root, "ident")

	first, ok := a.Next()
	require.True(t, ok)
	_, ok = a.Next()
	require.True(t, ok)

	again, ok := b.Next()
	require.True(t, ok)
	assert.Same(t, first, again)
}

func TestLocateStopsEarly(t *testing.T) {
	count := 0
	for range Locate(likesTree(), "ident") {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestDump(t *testing.T) {
	root := node(">", node("fact|>", leaf("char", ".")))

	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, root))
	assert.Equal(t, ">: ''\n  fact|>: ''\n    char: '.'\n", buf.String())
}
