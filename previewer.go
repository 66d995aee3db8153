package nbpreview

import (
	"context"
	"fmt"
	"path/filepath"
	"text/template"

	"github.com/alnah/go-nbpreview/internal/assets"
	"github.com/alnah/go-nbpreview/internal/engine"
	"github.com/alnah/go-nbpreview/internal/fileutil"
)

// Compile-time interface implementation checks.
var (
	_ Engine      = (*engine.Native)(nil)
	_ Engine      = (*engine.Pandoc)(nil)
	_ TempContext = (*fileutil.TempContext)(nil)
	_ AssetLoader = (*assets.AssetResolver)(nil)
)

const progressHeader = "\nRendering notebook previews"

// Previewer queues notebook preview requests and renders them in one batch.
// Create with NewPreviewer. A Previewer is not safe for concurrent use.
type Previewer struct {
	engine    Engine
	assets    AssetLoader
	embedName string
	embed     *template.Template
	theme     string
	enabled   bool
	quiet     bool
	project   Project
	temp      TempContext
	ownedTemp *fileutil.TempContext
	progress  ProgressLogger

	queue       []Request
	descriptors Descriptors
}

// NewPreviewer creates a Previewer with previews enabled, the native engine
// and the embedded assets. Returns an error if the embed template cannot be
// loaded or parsed.
func NewPreviewer(opts ...Option) (*Previewer, error) {
	p := &Previewer{
		enabled:     true,
		descriptors: make(Descriptors),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.assets == nil {
		p.assets = assets.NewEmbeddedLoader()
	}
	if p.engine == nil {
		p.engine = engine.NewNative(p.assets)
	}
	if p.progress == nil {
		p.progress = DiscardProgress{}
	}
	if p.temp == nil {
		p.ownedTemp = fileutil.NewTempContext()
		p.temp = p.ownedTemp
	}

	if p.embedName == "" {
		p.embedName = assets.EmbedTemplateName
		if _, ok := p.engine.(*engine.Pandoc); ok {
			p.embedName = assets.EmbedPandocTemplateName
		}
	}
	content, err := p.assets.LoadTemplate(p.embedName)
	if err != nil {
		return nil, fmt.Errorf("loading embed template: %w", err)
	}
	if p.embed, err = parseEmbedTemplate(p.embedName, content); err != nil {
		return nil, err
	}
	return p, nil
}

// Close removes the temporary files the previewer created itself. Files from
// a context passed with WithTempContext are left to its owner.
func (p *Previewer) Close() error {
	if p.ownedTemp == nil {
		return nil
	}
	return p.ownedTemp.Cleanup()
}

// Enqueue appends a request. Duplicates are resolved by RenderPreviews.
func (p *Previewer) Enqueue(req Request) {
	p.queue = append(p.queue, req)
}

// RegisterDescriptor merges d into the descriptor for d.Notebook.
func (p *Previewer) RegisterDescriptor(d Descriptor) {
	p.descriptors.Register(d)
}

// Descriptor returns the merged descriptor for a notebook path.
func (p *Previewer) Descriptor(notebook string) (Descriptor, bool) {
	return p.descriptors.Lookup(notebook)
}

// RenderPreviews renders every distinct queued notebook once, in the order it
// was first requested, and returns the previews keyed by notebook path. Each
// request's callback is invoked with its notebook's preview.
//
// The first failure aborts the batch and no previews are returned. Engine
// failures wrap ErrRenderFailed.
func (p *Previewer) RenderPreviews(ctx context.Context) (map[string]Preview, error) {
	work, callbacks := uniqueWork(p.queue)

	total := len(work)
	if total > 0 {
		p.progress.LogProgress(progressHeader)
	}

	rendered := make(map[string]Preview, total)
	for i, req := range work {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		loc, err := locate(req)
		if err != nil {
			return nil, err
		}
		p.progress.LogProgress(fmt.Sprintf("[%d/%d] %s", i+1, total, loc.rel))

		var preview Preview
		if p.enabled {
			if preview, err = p.renderOne(ctx, req, loc); err != nil {
				return nil, err
			}
		} else {
			preview = passthrough(req, loc)
		}

		rendered[req.Notebook] = preview
		for _, cb := range callbacks[req.Notebook] {
			cb(preview)
		}
	}
	return rendered, nil
}

// uniqueWork dedups requests by notebook, keeping first-seen order, and
// collects the callbacks of every request per notebook.
func uniqueWork(queue []Request) ([]Request, map[string][]func(Preview)) {
	var work []Request
	callbacks := make(map[string][]func(Preview))
	for _, req := range queue {
		if _, seen := callbacks[req.Notebook]; !seen {
			work = append(work, req)
			callbacks[req.Notebook] = nil
		}
		if req.Callback != nil {
			callbacks[req.Notebook] = append(callbacks[req.Notebook], req.Callback)
		}
	}
	return work, callbacks
}

// location holds the resolved paths of one request.
type location struct {
	inputDir string // absolute directory of the input document
	notebook string // absolute notebook path
	rel      string // notebook relative to inputDir
}

func locate(req Request) (location, error) {
	inputDir, err := filepath.Abs(filepath.Dir(req.Input))
	if err != nil {
		return location{}, fmt.Errorf("resolving input %s: %w", req.Input, err)
	}
	nb, err := filepath.Abs(req.Notebook)
	if err != nil {
		return location{}, fmt.Errorf("resolving notebook %s: %w", req.Notebook, err)
	}
	rel, err := filepath.Rel(inputDir, nb)
	if err != nil {
		return location{}, fmt.Errorf("resolving notebook %s: %w", req.Notebook, err)
	}
	return location{inputDir: inputDir, notebook: nb, rel: rel}, nil
}

// passthrough links straight to the notebook file.
func passthrough(req Request, loc location) Preview {
	filename := filepath.Base(loc.notebook)
	title := req.Title
	if title == "" {
		title = filename
	}
	return Preview{
		Title:    title,
		Href:     fileutil.ToSlash(loc.rel),
		Filename: filename,
	}
}

func (p *Previewer) renderOne(ctx context.Context, req Request, loc location) (Preview, error) {
	desc, _ := p.descriptors.Lookup(req.Notebook)
	base := filepath.Base(loc.notebook)

	var (
		supporting       []string
		downloadURL      = desc.DownloadURL
		downloadFilename string
	)
	if desc.DownloadURL == "" && !p.isBook() {
		out, err := p.renderOutputNotebook(ctx, req.Notebook, loc)
		if err != nil {
			return Preview{}, err
		}
		downloadURL = out.href
		if filepath.Ext(loc.notebook) != ".ipynb" {
			downloadFilename = base + ".ipynb"
		}
		supporting = append(supporting, out.supporting...)
	}

	title := firstNonEmpty(desc.Title, req.Title, base)
	if desc.URL != "" {
		return Preview{Title: title, Href: desc.URL, Supporting: supporting}, nil
	}

	previewFile := req.PreviewFile
	if previewFile == "" {
		previewFile = base + ".html"
	}
	view, err := p.renderHTMLView(ctx, req.Notebook, loc, previewFile, embedData{
		Title:    title,
		Path:     firstNonEmpty(downloadURL, base),
		Filename: firstNonEmpty(downloadFilename, base),
	})
	if err != nil {
		return Preview{}, err
	}

	return Preview{
		Title:      title,
		Href:       view.href,
		Supporting: append(supporting, view.supporting...),
	}, nil
}

// renderOutput is the href and files of one engine call.
type renderOutput struct {
	href       string
	supporting []string
}

// renderOutputNotebook exports the notebook as <stem>.out.ipynb beside it.
func (p *Previewer) renderOutputNotebook(ctx context.Context, name string, loc location) (renderOutput, error) {
	_, stem := fileutil.DirAndStem(loc.notebook)
	outputFile := stem + ".out.ipynb"

	result, err := p.engine.Render(ctx,
		[]RenderInput{{Path: loc.notebook, Formats: []string{FormatIPYNB}}},
		RenderOptions{
			To:                 FormatIPYNB,
			OutputFile:         outputFile,
			ClearHiddenClasses: true,
			Quiet:              p.quiet,
		})
	if err != nil {
		return renderOutput{}, fmt.Errorf("%w: output notebook for %s: %w", ErrRenderFailed, name, err)
	}
	return renderOutput{href: outputFile, supporting: supportingFiles(loc.inputDir, result)}, nil
}

// renderHTMLView renders the HTML preview through the embed template.
func (p *Previewer) renderHTMLView(ctx context.Context, name string, loc location, previewFile string, data embedData) (renderOutput, error) {
	tmpl, err := p.writeEmbedTemplate(data)
	if err != nil {
		return renderOutput{}, err
	}

	result, err := p.engine.Render(ctx,
		[]RenderInput{{Path: loc.notebook, Formats: []string{FormatHTML}}},
		RenderOptions{
			To:                 FormatHTML,
			Theme:              p.theme,
			OutputFile:         previewFile,
			Template:           tmpl,
			NotebookViewStyle:  engine.NotebookViewStyleNotebook,
			AppendixStyle:      engine.AppendixStyleNone,
			ClearHiddenClasses: true,
			Quiet:              p.quiet,
		})
	if err != nil {
		return renderOutput{}, fmt.Errorf("%w: preview for %s: %w", ErrRenderFailed, name, err)
	}

	return renderOutput{
		href:       fileutil.ToSlash(filepath.Join(filepath.Dir(loc.rel), previewFile)),
		supporting: supportingFiles(loc.inputDir, result),
	}, nil
}

// supportingFiles lists every rendered file followed by its supporting files,
// with relative paths joined to dir.
func supportingFiles(dir string, result *RenderResult) []string {
	if result == nil {
		return nil
	}
	var files []string
	for _, f := range result.Files {
		files = append(files, fileutil.ResolveRelative(dir, f.File))
		for _, s := range f.Supporting {
			files = append(files, fileutil.ResolveRelative(dir, s))
		}
	}
	return files
}

func (p *Previewer) isBook() bool {
	return p.project != nil && p.project.IsBook()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
