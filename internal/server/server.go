package server

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"factmap/internal/grammar"
	"factmap/internal/graph"
	"factmap/internal/loader"
	"factmap/internal/scanner"
	"factmap/util"
)

const (
	serverName    = "factmap"
	serverVersion = "0.1.0"
)

const usageGuidelines = `# factmap

factmap loads ground facts written as ` + "`likes(tom,wine).`" + ` and indexes them in two tables:

- the symbol table: every constant or variable and each (predicate, application, position) it fills
- the predicate table: every predicate and the argument list of each application

Queries (` + "`?- likes(X,wine).`" + `) are parsed but never loaded.

Workflow:
1. Call ` + "`load`" + ` with a file or directory path, or with inline ` + "`source`" + `.
2. Use ` + "`find_symbol`" + ` and ` + "`find_predicate`" + ` for lookups, ` + "`list_predicates`" + ` for a listing.
3. ` + "`export_mangle`" + ` renders the facts as Mangle source.
4. ` + "`locate_tags`" + ` runs the tag search over facts or go/python/javascript/typescript/tsx source.
`

// Options configures a Server.
type Options struct {
	Root         string   // workspace root; relative load paths resolve against it
	Extensions   []string // fact file extensions for directory loads
	MaxArguments int
	Logger       *zap.Logger
}

// Server serves one pair of fact tables over MCP. Loads build new tables and
// swap them in; every read and the swap hold mu.
type Server struct {
	mcpServer    *mcp.Server
	loader       *loader.Loader
	logger       *zap.Logger
	root         string
	extensions   []string
	systemPrompt string

	mu           sync.RWMutex
	tables       *graph.Tables
	source       string
	loadErr      error
	loadedAt     time.Time
	loadDuration time.Duration
}

// New creates a Server with its tools and resources registered.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{
			Name:    serverName,
			Version: serverVersion,
		}, nil),
		loader:       loader.New(loader.WithMaxArguments(opts.MaxArguments), loader.WithLogger(logger)),
		logger:       logger,
		root:         opts.Root,
		extensions:   opts.Extensions,
		systemPrompt: usageGuidelines,
		tables:       graph.NewTables(),
	}

	s.registerTools()
	s.registerResources()
	return s
}

// Run serves MCP over stdin/stdout until ctx is done or the client leaves.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// LoadPath replaces the served tables with the facts found at path.
func (s *Server) LoadPath(ctx context.Context, path string) (graph.Stats, error) {
	path = s.resolve(path)
	return s.swap(path, func() (*graph.Tables, error) {
		files, err := scanner.Resolve(path, s.extensions)
		if err != nil {
			return nil, err
		}
		return scanner.LoadPaths(ctx, s.loader, files, s.logger)
	})
}

// LoadSource replaces the served tables with the facts of src.
func (s *Server) LoadSource(src string) (graph.Stats, error) {
	const name = "<source>"
	return s.swap(name, func() (*graph.Tables, error) {
		tree, err := grammar.Parse(name, []byte(src))
		if err != nil {
			return nil, err
		}
		return s.loader.Load(tree)
	})
}

func (s *Server) swap(source string, build func() (*graph.Tables, error)) (graph.Stats, error) {
	start := time.Now()
	tables, err := build()
	duration := time.Since(start)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.loadErr = err
		s.logger.Warn("Load failed", zap.String("source", source), zap.Error(err))
		return graph.Stats{}, err
	}

	s.tables = tables
	s.source = source
	s.loadErr = nil
	s.loadedAt = start
	s.loadDuration = duration

	stats := tables.Stats()
	s.logger.Info("Loaded tables",
		zap.String("source", source),
		zap.Int("symbols", stats.Symbols),
		zap.Int("predicates", stats.Predicates),
		zap.Duration("duration", duration))
	return stats, nil
}

func (s *Server) resolve(path string) string {
	path = util.URIToPath(path)
	if path == "" {
		return s.root
	}
	if !filepath.IsAbs(path) && s.root != "" {
		return filepath.Join(s.root, path)
	}
	return path
}

// read runs fn with the current tables under the read lock.
func (s *Server) read(fn func(*graph.Tables) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tables == nil {
		return fmt.Errorf("no tables loaded")
	}
	return fn(s.tables)
}
