package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factmap/internal/grammar"
	"factmap/internal/loader"
	"factmap/internal/scanner"
)

const likesTables = `Symbol Table:
'tom':
	'likes': 0
'wine':
	'likes': 1
	'likes': 1
'mary':
	'likes': 0
Predicate Table:
likes(tom,wine).
likes(mary,wine).
`

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("FACTMAP_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	var out bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestStdin(t *testing.T) {
	out, err := execute(t, "likes(tom,wine).\nlikes(mary,wine).\n?- likes(X,wine).\n")
	require.NoError(t, err)
	assert.Equal(t, likesTables, out)
}

func TestFileArgument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "likes.pl")
	require.NoError(t, os.WriteFile(path, []byte("likes(tom,wine).\nlikes(mary,wine).\n"), 0o644))

	out, err := execute(t, "", path)
	require.NoError(t, err)
	assert.Equal(t, likesTables, out)
}

func TestDirectoryArgument(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.pl"), []byte("likes(tom,wine).\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.pl"), []byte("likes(mary,wine).\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not facts"), 0o644))

	out, err := execute(t, "", dir)
	require.NoError(t, err)
	assert.Equal(t, likesTables, out)
}

func TestPrintTree(t *testing.T) {
	t.Setenv("FACTMAP_PRINT_TREE", "true")
	out, err := execute(t, "p(a).")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, ">: ''\n"), out)
	assert.Contains(t, out, "fact|>: ''\n")
	assert.True(t, strings.HasSuffix(out, "Predicate Table:\np(a).\n"), out)
}

func TestFailures(t *testing.T) {
	_, err := execute(t, "likes(tom,wine)")
	var perr *grammar.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "<stdin>", perr.Filename)

	out, err := execute(t, "p(a,b,c,d,e,f,g,h,i,j).")
	assert.True(t, errors.Is(err, loader.ErrTooManyArguments))
	assert.Empty(t, out)

	_, err = execute(t, "", filepath.Join(t.TempDir(), "absent.pl"))
	assert.Error(t, err)

	_, err = execute(t, "", "a", "b")
	assert.Error(t, err)

	empty := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(empty, "notes.txt"), []byte("p(a)."), 0o644))
	out, err = execute(t, "", empty)
	assert.ErrorIs(t, err, scanner.ErrNoFactFiles)
	assert.Empty(t, out)
}
