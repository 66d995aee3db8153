package notebook

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// MaxFileSize limits notebook input. Notebooks embed images as base64, so the
// limit is far above the YAML limit.
var MaxFileSize int64 = 64 << 20

// Default notebook language when the source does not declare one.
const DefaultLanguage = "python"

// Cell types.
const (
	CellMarkdown = "markdown"
	CellCode     = "code"
	CellRaw      = "raw"
)

// Tags with special meaning when hidden content is cleared.
const (
	TagRemoveCell   = "remove-cell"
	TagRemoveOutput = "remove-output"
	TagHidden       = "hidden"
)

// Output is one entry of a code cell's outputs.
type Output struct {
	Type      string            // stream, display_data, execute_result, error
	Name      string            // stream name (stdout, stderr)
	Text      string            // stream text
	Data      map[string]string // MIME type to content, base64 for binary types
	EName     string
	EValue    string
	Traceback []string
}

// Cell is one notebook cell.
type Cell struct {
	Type           string
	Source         string
	Tags           []string
	Outputs        []Output
	ExecutionCount int // 0 when the cell never ran

	// Attachments maps an attachment name to its MIME bundle. Markdown cells
	// reference them as attachment:<name>.
	Attachments map[string]map[string]string

	raw string // original cell JSON, empty for cells built from Markdown
}

// HasTag reports whether the cell carries tag.
func (c Cell) HasTag(tag string) bool {
	return slices.Contains(c.Tags, tag)
}

// Notebook is a parsed notebook.
type Notebook struct {
	Title    string
	Language string
	Cells    []Cell

	raw []byte // original document JSON, nil for Markdown sources
}

// IsNotebookPath reports whether path names a Jupyter notebook.
func IsNotebookPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".ipynb")
}

// IsMarkdownPath reports whether path names a Markdown source that can be
// read as a notebook.
func IsMarkdownPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".qmd", ".markdown":
		return true
	}
	return false
}

// Load reads a notebook or Markdown source from disk.
func Load(path string) (*Notebook, error) {
	if !IsNotebookPath(path) && !IsMarkdownPath(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedInput, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotebookRead, err)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("%w: %s (%d bytes, max %d)", ErrNotebookTooLarge, path, info.Size(), MaxFileSize)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-provided input path
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotebookRead, err)
	}

	var nb *Notebook
	if IsNotebookPath(path) {
		nb, err = Parse(data)
	} else {
		nb, err = ParseMarkdown(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return nb, nil
}
