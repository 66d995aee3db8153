// Package tools installs and locates the external programs nbpreview can use.
package tools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// Sentinel errors for tool operations.
var (
	ErrUnknownTool   = errors.New("unknown tool")
	ErrInstallFailed = errors.New("tool installation failed")
	ErrManualInstall = errors.New("tool must be installed manually")
	ErrUpdatePath    = errors.New("failed to update path")
)

// Tool is an installable external program.
type Tool interface {
	Name() string
	Description() string
	// Installed reports whether the tool is available.
	Installed() bool
	// BinPath returns the executable path, or "" when not installed.
	BinPath() string
	// Install makes the tool available and returns its executable path.
	Install(ctx context.Context) (string, error)
}

// Registry holds the known tools by name.
type Registry map[string]Tool

// NewRegistry returns a registry of tools.
func NewRegistry(tools ...Tool) Registry {
	r := make(Registry, len(tools))
	for _, t := range tools {
		r[t.Name()] = t
	}
	return r
}

// DefaultRegistry returns the tools nbpreview knows how to manage.
func DefaultRegistry() Registry {
	return NewRegistry(NewChromium(), NewPandoc())
}

// Lookup returns the tool with the given name, case-insensitively.
func (r Registry) Lookup(name string) (Tool, error) {
	if t, ok := r[strings.ToLower(name)]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownTool, name, strings.Join(r.Names(), ", "))
}

// Names returns the tool names in sorted order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sorted returns the tools ordered by name.
func (r Registry) Sorted() []Tool {
	names := r.Names()
	out := make([]Tool, len(names))
	for i, name := range names {
		out[i] = r[name]
	}
	return out
}

// Missing returns the tools that are not installed, ordered by name.
func (r Registry) Missing() []Tool {
	var out []Tool
	for _, t := range r.Sorted() {
		if !t.Installed() {
			out = append(out, t)
		}
	}
	return out
}

// UserBinDir returns the directory tool links are placed in.
func UserBinDir() (string, error) {
	if dir := os.Getenv("NBPREVIEW_BIN_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpdatePath, err)
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(home, "AppData", "Local", "nbpreview", "bin"), nil
	}
	return filepath.Join(home, ".local", "bin"), nil
}

// LinkIntoPath links binPath into binDir under name and returns the link path.
// An existing link is replaced.
func LinkIntoPath(binPath, binDir, name string) (string, error) {
	if binPath == "" {
		return "", fmt.Errorf("%w: %s has no executable", ErrUpdatePath, name)
	}
	if err := os.MkdirAll(binDir, 0o750); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpdatePath, err)
	}

	link := filepath.Join(binDir, name)
	if runtime.GOOS == "windows" {
		link += ".exe"
	}
	if _, err := os.Lstat(link); err == nil {
		if err := os.Remove(link); err != nil {
			return "", fmt.Errorf("%w: %v", ErrUpdatePath, err)
		}
	}
	if err := os.Symlink(binPath, link); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpdatePath, err)
	}
	return link, nil
}
