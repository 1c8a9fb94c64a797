package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"factmap/internal/graph"
	"factmap/internal/report"
)

const (
	uriGuidelines = "factmap://usage-guidelines"
	uriSymbols    = "factmap://symbols"
	uriPredicates = "factmap://predicates"
	uriSchemas    = "factmap://schemas/"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         uriGuidelines,
		Name:        "Usage Guidelines",
		Description: "System prompt and usage guidelines for the factmap MCP server",
		MIMEType:    "text/markdown",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return textResource(uriGuidelines, "text/markdown", s.systemPrompt), nil
	})

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         uriSymbols,
		Name:        "Symbol Table",
		Description: "Every loaded symbol with its usages",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return s.tableResource(uriSymbols, func(t *graph.Tables) any { return report.Symbols(t) })
	})

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         uriPredicates,
		Name:        "Predicate Table",
		Description: "Every loaded predicate with its applications",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return s.tableResource(uriPredicates, func(t *graph.Tables) any { return report.Predicates(t) })
	})

	// Build a map of tool name -> schema JSON for dynamic dispatch.
	schemaMap := buildSchemaMap()

	s.mcpServer.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriSchemas + "{tool_name}",
		Name:        "Tool Schema",
		Description: "JSON schema for the named tool's arguments",
		MIMEType:    "application/schema+json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return schemaResource(schemaMap, req.Params.URI)
	})
}

func (s *Server) tableResource(uri string, view func(*graph.Tables) any) (*mcp.ReadResourceResult, error) {
	var payload []byte
	err := s.read(func(t *graph.Tables) error {
		var err error
		payload, err = json.MarshalIndent(view(t), "", "  ")
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", uri, err)
	}
	return textResource(uri, "application/json", string(payload)), nil
}

func schemaResource(schemaMap map[string]string, uri string) (*mcp.ReadResourceResult, error) {
	toolName := strings.TrimPrefix(uri, uriSchemas)
	schemaJSON, ok := schemaMap[toolName]
	if !ok {
		return nil, fmt.Errorf("unknown tool schema: %q", toolName)
	}
	return textResource(uri, "application/schema+json", schemaJSON), nil
}

func textResource(uri, mimeType, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: mimeType,
				Text:     text,
			},
		},
	}
}

// buildSchemaMap constructs a map from tool name to its JSON schema string.
// Schemas are derived from the args structs using jsonschema inference.
func buildSchemaMap() map[string]string {
	m := make(map[string]string)
	addSchema[LoadArgs](m, "load")
	addSchema[StatusArgs](m, "status")
	addSchema[FindSymbolArgs](m, "find_symbol")
	addSchema[FindPredicateArgs](m, "find_predicate")
	addSchema[ListPredicatesArgs](m, "list_predicates")
	addSchema[LocateTagsArgs](m, "locate_tags")
	addSchema[ExportMangleArgs](m, "export_mangle")
	return m
}

func addSchema[T any](m map[string]string, name string) {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		return
	}
	schemaJSON, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return
	}
	m[name] = string(schemaJSON)
}
