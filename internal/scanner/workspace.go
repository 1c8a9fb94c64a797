// Package scanner finds fact files in a workspace, parses them and exposes
// foreign-language sources as tagged trees.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"factmap/internal/grammar"
	"factmap/internal/graph"
	"factmap/internal/loader"
	"factmap/internal/tagtree"
)

// ErrNoFactFiles is returned by Resolve for a directory without fact files.
var ErrNoFactFiles = errors.New("no fact files")

// Resolve expands path into the fact files to load. A file is returned as
// is; a directory is searched with Collect and must hold at least one match.
func Resolve(path string, exts []string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	files, err := Collect(path, exts)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrNoFactFiles, path)
	}
	return files, nil
}

// Collect returns the files under root whose extension is in exts, in
// lexical order. The .git directory and paths matched by root/.gitignore
// are skipped.
func Collect(root string, exts []string) ([]string, error) {
	var gi *ignore.GitIgnore
	if _, err := os.Stat(filepath.Join(root, ".gitignore")); err == nil {
		gi, err = ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
		if err != nil {
			return nil, fmt.Errorf("failed to read .gitignore: %w", err)
		}
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if d.Name() == ".git" || (gi != nil && gi.MatchesPath(rel+"/")) {
				return filepath.SkipDir
			}
			return nil
		}
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}
		if hasExt(path, exts) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	return files, nil
}

func hasExt(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// ParseFiles parses paths concurrently. Trees are returned in the order of
// paths. When several files fail, the error of the earliest path is returned,
// so the report does not depend on scheduling.
func ParseFiles(ctx context.Context, paths []string) ([]*tagtree.Tree, error) {
	trees := make([]*tagtree.Tree, len(paths))
	errs := make([]error, len(paths))

	// Errors are kept per path; the group is only a concurrency limit.
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			src, err := os.ReadFile(path)
			if err != nil {
				errs[i] = fmt.Errorf("failed to read %s: %w", path, err)
				return nil
			}
			trees[i], errs[i] = grammar.Parse(path, src)
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return trees, nil
}

// LoadPaths parses every path and loads the facts into one pair of tables,
// in path order. Loading runs on the calling goroutine only.
func LoadPaths(ctx context.Context, l *loader.Loader, paths []string, logger *zap.Logger) (*graph.Tables, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	trees, err := ParseFiles(ctx, paths)
	if err != nil {
		return nil, err
	}

	tables := graph.NewTables()
	for i, tree := range trees {
		if err := l.LoadInto(tables, tree); err != nil {
			return nil, fmt.Errorf("%s: %w", paths[i], err)
		}
		logger.Debug("Loaded file", zap.String("path", paths[i]))
	}
	return tables, nil
}
