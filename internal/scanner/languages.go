package scanner

import (
	"fmt"
	"sort"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"factmap/internal/grammar"
	"factmap/internal/tagtree"
)

// LanguageFacts is the fact/query language handled by the grammar package.
const LanguageFacts = "facts"

var grammars = map[string]func() *tree_sitter.Language{
	"go": func() *tree_sitter.Language {
		return tree_sitter.NewLanguage(tree_sitter_go.Language())
	},
	"python": func() *tree_sitter.Language {
		return tree_sitter.NewLanguage(tree_sitter_python.Language())
	},
	"javascript": func() *tree_sitter.Language {
		return tree_sitter.NewLanguage(tree_sitter_javascript.Language())
	},
	"typescript": func() *tree_sitter.Language {
		return tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	},
	"tsx": func() *tree_sitter.Language {
		return tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
	},
}

// DefaultTags is the tag searched for when a caller gives none: the node
// kind that introduces a definition in each language.
var DefaultTags = map[string]string{
	LanguageFacts: "fact",
	"go":          "function_declaration",
	"python":      "function_definition",
	"javascript":  "function_declaration",
	"typescript":  "function_declaration",
	"tsx":         "function_declaration",
}

// Languages lists every language ParseSource accepts.
func Languages() []string {
	out := []string{LanguageFacts}
	for name := range grammars {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ParseSource parses src as lang and returns it as a tagged tree. Tree-sitter
// node kinds become tags and leaves carry their source text.
func ParseSource(lang string, src []byte) (*tagtree.Tree, error) {
	if lang == LanguageFacts {
		return grammar.Parse("<source>", src)
	}

	newLanguage, ok := grammars[lang]
	if !ok {
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(newLanguage()); err != nil {
		return nil, fmt.Errorf("failed to set %s grammar: %w", lang, err)
	}

	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse %s source", lang)
	}
	defer tree.Close()

	return convert(tree.RootNode(), src), nil
}

func convert(n *tree_sitter.Node, src []byte) *tagtree.Tree {
	start := n.StartPosition()
	pos := tagtree.Position{Line: int(start.Row) + 1, Column: int(start.Column) + 1}

	count := n.ChildCount()
	contents := ""
	if count == 0 {
		contents = n.Utf8Text(src)
	}

	out := tagtree.NewTree(n.Kind(), contents, pos)
	for i := uint(0); i < count; i++ {
		if child := n.Child(i); child != nil {
			out.Append(convert(child, src))
		}
	}
	return out
}
