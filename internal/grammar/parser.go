// Package grammar turns fact/query source text into a tagged tree.
//
// The grammar is
//
//	constant  : /[a-z0-9_]+/
//	variable  : /[A-Z][a-z0-9_]*/
//	ident     : <constant> | <variable>
//	params    : <ident> (',' <ident>)*
//	predicate : <ident> '(' <params> ')'
//	union     : <predicate> (',' <predicate>)*
//	fact      : <union> '.'
//	query     : "?-" <union> '.'
//	program   : /^/ (<fact> | <query>)+ /$/
//
// Whitespace between tokens is ignored. Tags are built the way parser
// combinator libraries in the mpc family build them: rule names joined by
// '|', '>' for a sequence, and a rule with a single child folded into that
// child, so one predicate on its own is tagged "union|predicate|>".
package grammar

import (
	"fmt"
	"io"
	"strings"

	"factmap/internal/tagtree"
)

const spaces = " \t\n\r\f\v"

const (
	tagRoot     = ">"
	tagRegex    = "regex"
	tagChar     = "char"
	tagString   = "string"
	tagConstant = "ident|constant|regex"
	tagVariable = "ident|variable|regex"
)

// Parse parses a whole program. filename is only used in error messages.
func Parse(filename string, src []byte) (*tagtree.Tree, error) {
	p := &parser{filename: filename, src: src, line: 1, col: 1}
	return p.program()
}

// ParseReader reads r to the end and parses it.
func ParseReader(filename string, r io.Reader) (*tagtree.Tree, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return Parse(filename, src)
}

type parser struct {
	filename string
	src      []byte
	off      int
	line     int
	col      int
}

func (p *parser) program() (*tagtree.Tree, error) {
	root := tagtree.NewTree(tagRoot, "", p.pos())
	root.Append(tagtree.NewTree(tagRegex, "", p.pos()))
	p.skipSpace()

	statements := 0
	for {
		var (
			stmt *tagtree.Tree
			err  error
		)
		switch {
		case p.hasPrefix("?-"):
			stmt, err = p.query()
		case p.peek() == '?':
			return nil, p.failFound(strings.TrimRight(p.text(2), spaces), `"?-"`)
		case isConstantByte(p.peek()) || isUpper(p.peek()):
			stmt, err = p.fact()
		case statements > 0 && p.eof():
			root.Append(tagtree.NewTree(tagRegex, "", p.pos()))
			return root, nil
		default:
			expected := []string{`"?-"`, "constant", "variable"}
			if statements > 0 {
				expected = append(expected, "end of input")
			}
			return nil, p.fail(expected...)
		}
		if err != nil {
			return nil, err
		}
		root.Append(stmt)
		statements++
	}
}

func (p *parser) fact() (*tagtree.Tree, error) {
	pos := p.pos()
	union, err := p.union()
	if err != nil {
		return nil, err
	}
	dot, err := p.char('.')
	if err != nil {
		return nil, err
	}
	return tagtree.NewTree("fact|>", "", pos, union, dot), nil
}

func (p *parser) query() (*tagtree.Tree, error) {
	pos := p.pos()
	prefix := tagtree.NewTree(tagString, "?-", pos)
	p.advance(2)
	p.skipSpace()

	union, err := p.union()
	if err != nil {
		return nil, err
	}
	dot, err := p.char('.')
	if err != nil {
		return nil, err
	}
	return tagtree.NewTree("query|>", "", pos, prefix, union, dot), nil
}

func (p *parser) union() (*tagtree.Tree, error) {
	pos := p.pos()
	first, err := p.predicate()
	if err != nil {
		return nil, err
	}
	if p.peek() != ',' {
		first.SetTag("union|" + first.Tag())
		return first, nil
	}

	union := tagtree.NewTree("union|>", "", pos, first)
	for p.peek() == ',' {
		comma, _ := p.char(',')
		next, err := p.predicate()
		if err != nil {
			return nil, err
		}
		union.Append(comma)
		union.Append(next)
	}
	return union, nil
}

func (p *parser) predicate() (*tagtree.Tree, error) {
	pos := p.pos()
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	open, err := p.char('(')
	if err != nil {
		return nil, err
	}
	params, err := p.params()
	if err != nil {
		return nil, err
	}
	closing, err := p.char(')')
	if err != nil {
		return nil, err
	}
	return tagtree.NewTree("predicate|>", "", pos, name, open, params, closing), nil
}

func (p *parser) params() (*tagtree.Tree, error) {
	pos := p.pos()
	first, err := p.ident()
	if err != nil {
		return nil, err
	}
	if p.peek() != ',' {
		first.SetTag("params|" + first.Tag())
		return first, nil
	}

	params := tagtree.NewTree("params|>", "", pos, first)
	for p.peek() == ',' {
		comma, _ := p.char(',')
		next, err := p.ident()
		if err != nil {
			return nil, err
		}
		params.Append(comma)
		params.Append(next)
	}
	return params, nil
}

func (p *parser) ident() (*tagtree.Tree, error) {
	pos := p.pos()
	start := p.off

	switch c := p.peek(); {
	case isConstantByte(c):
		for isConstantByte(p.peek()) {
			p.advance(1)
		}
		text := string(p.src[start:p.off])
		p.skipSpace()
		return tagtree.NewTree(tagConstant, text, pos), nil
	case isUpper(c):
		p.advance(1)
		for isConstantByte(p.peek()) {
			p.advance(1)
		}
		text := string(p.src[start:p.off])
		p.skipSpace()
		return tagtree.NewTree(tagVariable, text, pos), nil
	default:
		return nil, p.fail("constant", "variable")
	}
}

func (p *parser) char(want byte) (*tagtree.Tree, error) {
	if p.peek() != want {
		return nil, p.fail(fmt.Sprintf("'%c'", want))
	}
	n := tagtree.NewTree(tagChar, string(want), p.pos())
	p.advance(1)
	p.skipSpace()
	return n, nil
}

func (p *parser) fail(expected ...string) error {
	return p.failFound(p.text(1), expected...)
}

// failFound reports found, the partial token at the current position.
func (p *parser) failFound(found string, expected ...string) error {
	return &ParseError{
		Filename: p.filename,
		Line:     p.line,
		Column:   p.col,
		Expected: expected,
		Found:    found,
	}
}

// text returns up to n bytes from the current offset.
func (p *parser) text(n int) string {
	end := min(p.off+n, len(p.src))
	return string(p.src[p.off:end])
}

func (p *parser) pos() tagtree.Position {
	return tagtree.Position{Line: p.line, Column: p.col}
}

func (p *parser) eof() bool {
	return p.off >= len(p.src)
}

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.off]
}

func (p *parser) hasPrefix(s string) bool {
	return len(p.src)-p.off >= len(s) && string(p.src[p.off:p.off+len(s)]) == s
}

func (p *parser) advance(n int) {
	for i := 0; i < n && !p.eof(); i++ {
		if p.src[p.off] == '\n' {
			p.line++
			p.col = 1
		} else {
			p.col++
		}
		p.off++
	}
}

func (p *parser) skipSpace() {
	for !p.eof() {
		switch p.src[p.off] {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			p.advance(1)
		default:
			return
		}
	}
}

func isConstantByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_'
}

func isUpper(c byte) bool {
	return c >= 'A' && c <= 'Z'
}
