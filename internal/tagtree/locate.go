package tagtree

import (
	"iter"
	"strings"
)

type frame struct {
	node Node
	next int
}

// Locator is a resumable depth-first search for nodes whose tag contains a
// substring. Matches come out in document order. A matching node is returned
// without searching its subtree, and the scope node itself is never tested.
//
// Each Locator owns its cursor; any number of locators may run over the same
// or nested scopes.
type Locator struct {
	tag   string
	stack []frame
	done  bool
}

// NewLocator starts a search for tag below scope.
func NewLocator(scope Node, tag string) *Locator {
	l := &Locator{tag: tag}
	if scope == nil {
		l.done = true
		return l
	}
	l.stack = []frame{{node: scope}}
	return l
}

// Next returns the next matching node. Once it reports false it keeps
// reporting false.
func (l *Locator) Next() (Node, bool) {
	if l.done {
		return nil, false
	}

	for len(l.stack) > 0 {
		top := &l.stack[len(l.stack)-1]
		children := top.node.Children()
		if top.next >= len(children) {
			l.stack = l.stack[:len(l.stack)-1]
			continue
		}

		child := children[top.next]
		top.next++
		if child == nil {
			continue
		}
		if strings.Contains(child.Tag(), l.tag) {
			return child, true
		}
		if len(child.Children()) > 0 {
			l.stack = append(l.stack, frame{node: child})
		}
	}

	l.done = true
	l.stack = nil
	return nil, false
}

// Locate returns a lazy sequence over the matches of tag below scope.
func Locate(scope Node, tag string) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		l := NewLocator(scope, tag)
		for {
			n, ok := l.Next()
			if !ok || !yield(n) {
				return
			}
		}
	}
}

// FindAll returns every match of tag below scope.
func FindAll(scope Node, tag string) []Node {
	var out []Node
	for n := range Locate(scope, tag) {
		out = append(out, n)
	}
	return out
}

// Find returns the first match of tag below scope.
func Find(scope Node, tag string) (Node, bool) {
	return NewLocator(scope, tag).Next()
}
