package fileutil

import (
	"path/filepath"
	"strings"
)

// ToSlash returns path with forward slashes regardless of the host separator.
// Unlike filepath.ToSlash it also converts backslashes on non-Windows hosts,
// so hrefs built from Windows-style inputs stay URL-shaped.
func ToSlash(path string) string {
	return strings.ReplaceAll(filepath.ToSlash(path), `\`, "/")
}

// DirAndStem splits path into its directory and its base name without extension.
//
//	DirAndStem("docs/nb.ipynb")    -> ("docs", "nb")
//	DirAndStem("docs/nb.out.ipynb") -> ("docs", "nb.out")
//	DirAndStem("README")           -> (".", "README")
func DirAndStem(path string) (dir, stem string) {
	base := filepath.Base(path)
	return filepath.Dir(path), strings.TrimSuffix(base, filepath.Ext(base))
}

// ResolveRelative joins a relative path onto base and leaves absolute paths alone.
func ResolveRelative(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
