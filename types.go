package nbpreview

import (
	"fmt"

	"github.com/alnah/go-nbpreview/internal/assets"
	"github.com/alnah/go-nbpreview/internal/engine"
	"github.com/alnah/go-nbpreview/internal/fileutil"
)

// Engine types. The previewer talks to engines only through these.
type (
	Engine        = engine.Engine
	RenderInput   = engine.Input
	RenderOptions = engine.Options
	RenderResult  = engine.Result
	RenderedFile  = engine.File
)

// Output formats requested from engines.
const (
	FormatHTML  = engine.FormatHTML
	FormatIPYNB = engine.FormatIPYNB
)

// AssetLoader loads theme styles and HTML templates by name.
type AssetLoader interface {
	LoadStyle(name string) (string, error)
	LoadTemplate(name string) (string, error)
}

// NewAssetLoader returns a loader reading from basePath, falling back to the
// embedded assets for anything basePath lacks.
func NewAssetLoader(basePath string) (AssetLoader, error) {
	resolver, err := assets.NewAssetResolver(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	return resolver, nil
}

// NewNativeEngine returns the built-in Go engine. A nil loader uses the
// embedded assets.
func NewNativeEngine(loader AssetLoader) Engine {
	return engine.NewNative(loader)
}

// NewPandocEngine returns an engine running the pandoc binary.
func NewPandocEngine(binary string, loader AssetLoader) Engine {
	return engine.NewPandoc(binary, loader)
}

// TempContext hands out temporary files that outlive a single render call.
type TempContext interface {
	CreateFile(suffix string) (string, error)
}

// NewTempContext returns a TempContext backed by the system temp directory.
// Call Cleanup when the previews no longer need their templates.
func NewTempContext() *fileutil.TempContext {
	return fileutil.NewTempContext()
}

// Project describes the project the documents belong to.
type Project interface {
	IsBook() bool
}

// Request asks for a preview of Notebook on behalf of the document Input.
type Request struct {
	Input       string // document referencing the notebook
	Notebook    string // notebook path; relative paths resolve against the working directory
	Title       string
	PreviewFile string // preview file name; defaults to <notebook name>.html
	Callback    func(Preview)
}

// Descriptor holds user overrides for one notebook.
type Descriptor struct {
	Notebook    string
	Title       string
	URL         string // external preview; no HTML is rendered
	DownloadURL string // external download; no output notebook is rendered
}

// merge returns d with the non-empty fields of other applied.
func (d Descriptor) merge(other Descriptor) Descriptor {
	if other.Notebook != "" {
		d.Notebook = other.Notebook
	}
	if other.Title != "" {
		d.Title = other.Title
	}
	if other.URL != "" {
		d.URL = other.URL
	}
	if other.DownloadURL != "" {
		d.DownloadURL = other.DownloadURL
	}
	return d
}

// Descriptors maps notebook paths to their merged descriptors.
type Descriptors map[string]Descriptor

// Register merges desc into the entry for desc.Notebook.
func (ds Descriptors) Register(desc Descriptor) {
	ds[desc.Notebook] = ds[desc.Notebook].merge(desc)
}

// Lookup returns the merged descriptor for path.
func (ds Descriptors) Lookup(path string) (Descriptor, bool) {
	d, ok := ds[path]
	return d, ok
}

// Preview is the rendered preview of one notebook.
type Preview struct {
	Title      string   `json:"title"`
	Href       string   `json:"href"`
	Filename   string   `json:"filename,omitempty"`   // set when previews are disabled
	Supporting []string `json:"supporting,omitempty"` // files produced alongside the preview
}
