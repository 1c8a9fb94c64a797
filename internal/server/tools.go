package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"factmap/internal/export"
	"factmap/internal/graph"
	"factmap/internal/report"
	"factmap/internal/scanner"
	"factmap/internal/tagtree"
	"factmap/util"
)

// Arguments structs

type LoadArgs struct {
	Path   string `json:"path,omitempty" jsonschema:"File or directory to load, absolute or relative to the workspace root. Defaults to the root."`
	Source string `json:"source,omitempty" jsonschema:"Inline program text. Takes precedence over path."`
}

type StatusArgs struct{}

type FindSymbolArgs struct {
	Name string `json:"name" jsonschema:"The constant or variable to look up"`
}

type FindPredicateArgs struct {
	Name string `json:"name" jsonschema:"The predicate to look up"`
}

type ListPredicatesArgs struct{}

type LocateTagsArgs struct {
	Language string `json:"language,omitempty" jsonschema:"facts, go, python, javascript, typescript or tsx. Defaults to facts."`
	Source   string `json:"source" jsonschema:"The source text to search"`
	Tag      string `json:"tag,omitempty" jsonschema:"Tag substring to match. Defaults to the language's definition node."`
}

type ExportMangleArgs struct{}

// Status is the payload of the status tool.
type Status struct {
	Source          string      `json:"source,omitempty"`
	SourceURI       string      `json:"source_uri,omitempty"`
	Stats           graph.Stats `json:"stats"`
	Consistent      bool        `json:"consistent"`
	InvariantError  string      `json:"invariant_error,omitempty"`
	LoadError       string      `json:"load_error,omitempty"`
	LoadedAt        string      `json:"loaded_at,omitempty"`
	DurationSeconds float64     `json:"duration_seconds,omitempty"`
}

// Match is one locate_tags hit.
type Match struct {
	Tag      string `json:"tag"`
	Contents string `json:"contents,omitempty"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "load",
		Description: "Loads facts from a file, a directory or inline source and replaces the current tables",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args LoadArgs) (*mcp.CallToolResult, any, error) {
		return s.load(ctx, args), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "status",
		Description: "Returns table sizes, the last load source and error, and whether the tables are consistent",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args StatusArgs) (*mcp.CallToolResult, any, error) {
		return jsonResult(s.status()), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "find_symbol",
		Description: "Lists every predicate application and argument position a symbol occurs at",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args FindSymbolArgs) (*mcp.CallToolResult, any, error) {
		return s.findSymbol(args), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "find_predicate",
		Description: "Lists the argument lists of every application of a predicate",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args FindPredicateArgs) (*mcp.CallToolResult, any, error) {
		return s.findPredicate(args), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_predicates",
		Description: "Renders every loaded application as a fact",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ListPredicatesArgs) (*mcp.CallToolResult, any, error) {
		return s.listPredicates(), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "locate_tags",
		Description: "Parses source and returns every node whose tag contains the given substring, in document order",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args LocateTagsArgs) (*mcp.CallToolResult, any, error) {
		return locateTags(args), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "export_mangle",
		Description: "Renders the loaded facts as Mangle (Datalog) source",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ExportMangleArgs) (*mcp.CallToolResult, any, error) {
		return s.exportMangle(), nil, nil
	})
}

func (s *Server) load(ctx context.Context, args LoadArgs) *mcp.CallToolResult {
	var (
		stats graph.Stats
		err   error
	)
	if args.Source != "" {
		stats, err = s.LoadSource(args.Source)
	} else {
		stats, err = s.LoadPath(ctx, args.Path)
	}
	if err != nil {
		return errorResult(fmt.Sprintf("Load failed: %v", err))
	}
	return textResult(fmt.Sprintf("Loaded %d predicates, %d applications and %d symbols",
		stats.Predicates, stats.Applications, stats.Symbols))
}

func (s *Server) status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		Source:     s.source,
		SourceURI:  util.SourceURI(s.source),
		Stats:      s.tables.Stats(),
		Consistent: true,
	}
	if err := s.tables.Verify(); err != nil {
		st.Consistent = false
		st.InvariantError = err.Error()
	}
	if s.loadErr != nil {
		st.LoadError = s.loadErr.Error()
	}
	if !s.loadedAt.IsZero() {
		st.LoadedAt = s.loadedAt.Format(time.RFC3339)
		st.DurationSeconds = s.loadDuration.Seconds()
	}
	return st
}

func (s *Server) findSymbol(args FindSymbolArgs) *mcp.CallToolResult {
	var (
		view  report.SymbolView
		found bool
	)
	_ = s.read(func(t *graph.Tables) error {
		view, found = report.LookupSymbol(t, args.Name)
		return nil
	})
	if !found {
		return textResult("Symbol not found.")
	}
	return jsonResult(view)
}

func (s *Server) findPredicate(args FindPredicateArgs) *mcp.CallToolResult {
	var (
		view  report.PredicateView
		found bool
	)
	_ = s.read(func(t *graph.Tables) error {
		view, found = report.LookupPredicate(t, args.Name)
		return nil
	})
	if !found {
		return textResult("Predicate not found.")
	}
	return jsonResult(view)
}

func (s *Server) listPredicates() *mcp.CallToolResult {
	var buf bytes.Buffer
	err := s.read(func(t *graph.Tables) error {
		return report.WritePredicates(&buf, t.Predicates)
	})
	if err != nil {
		return errorResult(fmt.Sprintf("Listing failed: %v", err))
	}
	return textResult(buf.String())
}

func (s *Server) exportMangle() *mcp.CallToolResult {
	var buf bytes.Buffer
	err := s.read(func(t *graph.Tables) error {
		return export.WriteMangle(&buf, t.Predicates)
	})
	if err != nil {
		return errorResult(fmt.Sprintf("Export failed: %v", err))
	}
	return textResult(buf.String())
}

func locateTags(args LocateTagsArgs) *mcp.CallToolResult {
	lang := args.Language
	if lang == "" {
		lang = scanner.LanguageFacts
	}
	tag := args.Tag
	if tag == "" {
		tag = scanner.DefaultTags[lang]
	}

	tree, err := scanner.ParseSource(lang, []byte(args.Source))
	if err != nil {
		return errorResult(fmt.Sprintf("Parse failed: %v", err))
	}

	matches := []Match{}
	for n := range tagtree.Locate(tree, tag) {
		matches = append(matches, Match{
			Tag:      n.Tag(),
			Contents: n.Contents(),
			Line:     n.Pos().Line,
			Column:   n.Pos().Column,
		})
	}
	return jsonResult(matches)
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	res := textResult(text)
	res.IsError = true
	return res
}

func jsonResult(v any) *mcp.CallToolResult {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to encode result: %v", err))
	}
	return textResult(string(jsonBytes))
}
