package tagtree

import (
	"fmt"
	"io"
	"strings"
)

// Position is a 1-based line/column location in the parsed source.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Node is a labeled tree node as produced by a grammar engine.
type Node interface {
	Tag() string
	Contents() string
	Children() []Node
	Pos() Position
}

// Tree is the concrete Node used by the grammar engine and the tree-sitter adapter.
type Tree struct {
	tag      string
	contents string
	pos      Position
	children []Node
}

// NewTree creates a node with the given tag, literal contents and children.
func NewTree(tag, contents string, pos Position, children ...Node) *Tree {
	return &Tree{
		tag:      tag,
		contents: contents,
		pos:      pos,
		children: children,
	}
}

// Tag returns the node's tag, e.g. "union|predicate|>".
func (t *Tree) Tag() string { return t.tag }

// Contents returns the literal text matched by a leaf node.
func (t *Tree) Contents() string { return t.contents }

// Children returns the ordered child nodes.
func (t *Tree) Children() []Node { return t.children }

// Pos returns where the node starts in the source.
func (t *Tree) Pos() Position { return t.pos }

// Append adds a child node.
func (t *Tree) Append(child Node) {
	t.children = append(t.children, child)
}

// SetTag replaces the node's tag.
func (t *Tree) SetTag(tag string) {
	t.tag = tag
}

// Dump writes an indented "tag: 'contents'" listing of the tree.
func Dump(w io.Writer, n Node) error {
	return dump(w, n, 0)
}

func dump(w io.Writer, n Node, depth int) error {
	if n == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "%s%s: '%s'\n", strings.Repeat("  ", depth), n.Tag(), n.Contents()); err != nil {
		return err
	}
	for _, c := range n.Children() {
		if err := dump(w, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}
