// Package fileutil provides temp files, existence checks and path helpers
// shared by the engines, the installers and the CLI.
package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Sentinel errors for temp file names.
var (
	ErrSuffixEmpty  = errors.New("temp file suffix cannot be empty")
	ErrSuffixUnsafe = errors.New("temp file suffix contains a path separator or null byte")
)

// ValidateSuffix checks that a temp file suffix such as ".ipynb" cannot move
// the file out of the temp directory.
func ValidateSuffix(suffix string) error {
	if suffix == "" {
		return ErrSuffixEmpty
	}
	if strings.ContainsAny(suffix, "/\\\x00") {
		return fmt.Errorf("%w: %q", ErrSuffixUnsafe, suffix)
	}
	return nil
}

// WriteTemp writes data to a new temp file ending in suffix. The returned
// cleanup removes the file. A suffix without a leading dot gets one.
func WriteTemp(data []byte, suffix string) (path string, cleanup func(), err error) {
	if err := ValidateSuffix(suffix); err != nil {
		return "", nil, err
	}
	if !strings.HasPrefix(suffix, ".") {
		suffix = "." + suffix
	}

	f, err := os.CreateTemp("", tempPattern+suffix)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}
	path = f.Name()
	cleanup = func() { _ = os.Remove(path) }

	_, werr := f.Write(data)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", werr)
	}
	return path, cleanup, nil
}

// FileExists reports whether path is an existing regular file.
func FileExists(path string) bool {
	mode, ok := statMode(path)
	return ok && mode.IsRegular()
}

// DirExists reports whether path is an existing directory.
func DirExists(path string) bool {
	mode, ok := statMode(path)
	return ok && mode.IsDir()
}

func statMode(path string) (fs.FileMode, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, false
	}
	return info.Mode(), true
}

// IsFilePath reports whether s names a file by path rather than by bare name:
// "book" is a name, "./book.yml" and `C:\site\book.yml` are paths.
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsRemote reports whether s is a URL with a scheme, such as
// https://host/ext.zip or git+ssh://host/repo.
func IsRemote(s string) bool {
	scheme, _, ok := strings.Cut(s, "://")
	if !ok || scheme == "" {
		return false
	}
	for _, r := range scheme {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '+', r == '-', r == '.':
		default:
			return false
		}
	}
	return true
}
