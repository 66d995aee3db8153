package fileutil

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

// tempPattern prefixes every temp file and directory created by nbpreview.
const tempPattern = "nbpreview-*"

// TempContext hands out temporary files and directories and removes all of
// them at once on Cleanup. Commands create one context and defer Cleanup so
// files handed to collaborators outlive the call that created them.
type TempContext struct {
	mu    sync.Mutex
	paths []string
}

// NewTempContext creates an empty TempContext.
func NewTempContext() *TempContext {
	return &TempContext{}
}

// CreateFile creates an empty temporary file whose name ends with suffix
// (e.g. ".html") and returns its path.
func (c *TempContext) CreateFile(suffix string) (string, error) {
	if suffix != "" {
		if err := ValidateSuffix(suffix); err != nil {
			return "", err
		}
	}

	f, err := os.CreateTemp("", tempPattern+suffix)
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	c.track(path)
	return path, nil
}

// CreateDir creates a temporary directory and returns its path.
func (c *TempContext) CreateDir() (string, error) {
	dir, err := os.MkdirTemp("", tempPattern)
	if err != nil {
		return "", fmt.Errorf("creating temp directory: %w", err)
	}
	c.track(dir)
	return dir, nil
}

// Cleanup removes every file and directory created through the context.
// Safe to call more than once.
func (c *TempContext) Cleanup() error {
	c.mu.Lock()
	paths := c.paths
	c.paths = nil
	c.mu.Unlock()

	var errs []error
	for i := len(paths) - 1; i >= 0; i-- {
		if err := os.RemoveAll(paths[i]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *TempContext) track(path string) {
	c.mu.Lock()
	c.paths = append(c.paths, path)
	c.mu.Unlock()
}
