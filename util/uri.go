package util

import (
	"path/filepath"
	"strings"
)

const fileScheme = "file://"

// SourceURI names where a program came from: a file URI for paths, the
// bare name for pseudo sources such as "<stdin>".
func SourceURI(name string) string {
	if name == "" || strings.HasPrefix(name, "<") {
		return name
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return fileScheme + filepath.ToSlash(name)
	}
	return fileScheme + filepath.ToSlash(abs)
}

// URIToPath strips a file:// scheme. Other strings are returned unchanged.
func URIToPath(uri string) string {
	if strings.HasPrefix(uri, fileScheme) {
		return filepath.FromSlash(uri[len(fileScheme):])
	}
	return uri
}
