package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed styles/*.css templates/*.html
var files embed.FS

// EmbeddedLoader serves the assets compiled into the binary.
type EmbeddedLoader struct {
	fsys fs.FS
}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{fsys: files}
}

// Load reads the built-in asset of the given kind.
func (e *EmbeddedLoader) Load(kind Kind, name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	content, err := fs.ReadFile(e.fsys, kind.file(name))
	if err != nil {
		return "", fmt.Errorf("%w: %q (built-in)", kind.NotFound, name)
	}
	return string(content), nil
}

// LoadStyle implements AssetLoader.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) { return e.Load(Styles, name) }

// LoadTemplate implements AssetLoader.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) { return e.Load(Templates, name) }

// Names lists the built-in assets of a kind, sorted.
func (e *EmbeddedLoader) Names(kind Kind) []string {
	entries, err := fs.ReadDir(e.fsys, kind.Dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if name, ok := strings.CutSuffix(entry.Name(), kind.Ext); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

var (
	_ AssetLoader = (*EmbeddedLoader)(nil)
	_ source      = (*EmbeddedLoader)(nil)
)
