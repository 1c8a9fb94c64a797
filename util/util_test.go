package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationID(t *testing.T) {
	a := ApplicationID("likes", 0)
	assert.Len(t, a, 16)
	assert.Equal(t, a, ApplicationID("likes", 0))
	assert.NotEqual(t, a, ApplicationID("likes", 1))
	assert.NotEqual(t, ApplicationID("ab", 1), ApplicationID("a", 11))
}

func TestSourceURI(t *testing.T) {
	assert.Equal(t, "<stdin>", SourceURI("<stdin>"))
	assert.Equal(t, "", SourceURI(""))

	dir := t.TempDir()
	path := filepath.Join(dir, "facts.pl")
	uri := SourceURI(path)
	assert.Equal(t, "file://"+filepath.ToSlash(path), uri)
	assert.Equal(t, path, URIToPath(uri))
	assert.Equal(t, "relative.pl", URIToPath("relative.pl"))
}

func TestFindGitRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, err := FindGitRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}
