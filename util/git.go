package util

import (
	"os"
	"path/filepath"
)

// FindGitRoot walks up from dir looking for a .git entry. It returns dir
// itself when no repository encloses it.
func FindGitRoot(dir string) (string, error) {
	start, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for cur := start; ; {
		if _, err := os.Stat(filepath.Join(cur, ".git")); err == nil {
			return cur, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return start, nil
		}
		cur = parent
	}
}
