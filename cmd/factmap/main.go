// Command factmap loads a fact program and prints its symbol and predicate
// tables.
//
// Usage:
//
//	factmap [file|directory]
//
// With no argument the program is read from standard input. Settings come
// from $FACTMAP_CONFIG or .factmap.yaml in the working directory.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"factmap/internal/config"
	"factmap/internal/grammar"
	"factmap/internal/graph"
	"factmap/internal/loader"
	"factmap/internal/logging"
	"factmap/internal/report"
	"factmap/internal/scanner"
	"factmap/internal/tagtree"
)

func main() {
	cmd := newRootCmd(os.Stdin, os.Stdout)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "factmap [file|directory]",
		Short: "Index the symbols and predicates of a fact program",
		Long: `factmap parses ground facts such as

  likes(tom,wine).
  likes(mary,wine).

and prints a symbol table (where each constant or variable is used) and a
predicate table (every application of every predicate). Queries written as
"?- likes(X,wine)." are parsed but not loaded.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.Path())
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			trees, err := parseInput(cmd, cfg, stdin, args)
			if err != nil {
				return err
			}
			return run(stdout, cfg, logger, trees)
		},
	}
}

func parseInput(cmd *cobra.Command, cfg *config.Config, stdin io.Reader, args []string) ([]*tagtree.Tree, error) {
	if len(args) == 0 {
		tree, err := grammar.ParseReader("<stdin>", stdin)
		if err != nil {
			return nil, err
		}
		return []*tagtree.Tree{tree}, nil
	}

	paths, err := scanner.Resolve(args[0], cfg.Extensions)
	if err != nil {
		return nil, err
	}
	return scanner.ParseFiles(cmd.Context(), paths)
}

func run(w io.Writer, cfg *config.Config, logger *zap.Logger, trees []*tagtree.Tree) error {
	l := loader.New(loader.WithMaxArguments(cfg.MaxArguments), loader.WithLogger(logger))

	tables := graph.NewTables()
	for _, tree := range trees {
		if cfg.PrintTree {
			if err := tagtree.Dump(w, tree); err != nil {
				return err
			}
		}
		if err := l.LoadInto(tables, tree); err != nil {
			return err
		}
	}

	return report.WriteTables(w, tables)
}
