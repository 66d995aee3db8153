package engine

import (
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-nbpreview/internal/assets"
	"github.com/alnah/go-nbpreview/internal/fileutil"
	"github.com/alnah/go-nbpreview/internal/notebook"
	"github.com/alnah/go-nbpreview/internal/pipeline"
)

// defaultLang is the page language when the template data has none.
const defaultLang = "en"

// figureSubdir holds images extracted from outputs and attachments.
const figureSubdir = "figure-html"

// Native renders notebooks without external tools.
type Native struct {
	assets   assets.AssetLoader
	markdown pipeline.HTMLConverter
	code     *pipeline.CodeHighlighter
}

// NewNative creates a Native engine loading themes and the page template from
// loader. A nil loader uses the embedded assets.
func NewNative(loader assets.AssetLoader) *Native {
	if loader == nil {
		loader = assets.NewEmbeddedLoader()
	}
	return &Native{
		assets:   loader,
		markdown: pipeline.NewGoldmarkConverter(),
		code:     pipeline.NewCodeHighlighter(pipeline.DefaultCodeStyle),
	}
}

// Render renders every input to opts.To.
func (n *Native) Render(ctx context.Context, inputs []Input, opts Options) (*Result, error) {
	if err := validateRequest(inputs, opts); err != nil {
		return nil, err
	}

	result := &Result{}
	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		file, err := n.renderOne(ctx, in, opts)
		if err != nil {
			return nil, err
		}
		result.Files = append(result.Files, file)
	}
	return result, nil
}

func (n *Native) renderOne(ctx context.Context, in Input, opts Options) (File, error) {
	nb, err := notebook.Load(in.Path)
	if err != nil {
		return File{}, err
	}
	if opts.ClearHiddenClasses {
		if nb, err = notebook.Clean(nb); err != nil {
			return File{}, err
		}
	}

	out := outputPath(in.Path, opts)
	if err := os.MkdirAll(filepath.Dir(out), dirPermissions); err != nil {
		return File{}, fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	if opts.To == FormatIPYNB {
		data, err := notebook.Export(nb)
		if err != nil {
			return File{}, err
		}
		if err := writeOutput(out, data); err != nil {
			return File{}, err
		}
		return File{File: out}, nil
	}

	page, supporting, err := n.renderPage(ctx, nb, in.Path, out, opts)
	if err != nil {
		return File{}, err
	}
	if err := writeOutput(out, []byte(page)); err != nil {
		return File{}, err
	}
	return File{File: out, Supporting: supporting}, nil
}

// pageData is the data passed to page templates.
type pageData struct {
	Title     string
	Lang      string
	CSS       template.CSS
	BodyClass string
	Body      template.HTML
	Appendix  template.HTML
}

func (n *Native) renderPage(ctx context.Context, nb *notebook.Notebook, input, out string, opts Options) (string, []string, error) {
	figures := newFigureWriter(out)
	r := &cellRenderer{
		markdown:     n.markdown,
		code:         n.code,
		figures:      figures,
		language:     nb.Language,
		notebookView: isNotebookViewStyle(opts),
		showHidden:   opts.ClearHiddenClasses,
	}

	body, err := r.renderCells(ctx, nb.Cells)
	if err != nil {
		return "", nil, err
	}

	css, err := n.pageCSS(opts.Theme)
	if err != nil {
		return "", nil, err
	}

	tmpl, err := n.pageTemplate(opts.Template)
	if err != nil {
		return "", nil, err
	}

	_, stem := fileutil.DirAndStem(input)
	data := pageData{
		Title: nb.Title,
		Lang:  defaultLang,
		CSS:   template.CSS(css), // #nosec G203 -- theme and code styles are sanitized
		Body:  template.HTML(body), // #nosec G203 -- built from escaped cell content
	}
	if data.Title == "" {
		data.Title = stem
	}
	if r.notebookView {
		data.BodyClass = "notebook-view"
	}
	if hasAppendix(opts) {
		data.Appendix = sourceAppendix(filepath.Base(input), opts.AppendixStyle)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	return buf.String(), figures.supporting(), nil
}

// pageCSS combines the theme stylesheet with the code highlighting styles.
func (n *Native) pageCSS(theme string) (string, error) {
	if theme == "" {
		theme = assets.DefaultStyleName
	}
	themeCSS, err := n.assets.LoadStyle(theme)
	if err != nil {
		return "", err
	}
	codeCSS, err := n.code.CSS()
	if err != nil {
		return "", err
	}
	return pipeline.SanitizeCSS(themeCSS + "\n" + codeCSS), nil
}

// pageTemplate parses the template file at path, or the built-in page.
func (n *Native) pageTemplate(path string) (*template.Template, error) {
	var (
		content string
		name    = assets.PageTemplateName
	)
	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- template path produced by the caller
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrTemplate, path, err)
		}
		content, name = string(data), filepath.Base(path)
	} else {
		var err error
		if content, err = n.assets.LoadTemplate(assets.PageTemplateName); err != nil {
			return nil, err
		}
	}

	tmpl, err := template.New(name).Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrTemplate, name, err)
	}
	return tmpl, nil
}

func sourceAppendix(source, style string) template.HTML {
	return template.HTML(fmt.Sprintf( // #nosec G203 -- values escaped below
		`<section class="appendix appendix-%s"><h2>Source</h2><p>Rendered from <code>%s</code>.</p></section>`,
		template.HTMLEscapeString(style), template.HTMLEscapeString(source)))
}

func writeOutput(path string, data []byte) error {
	if err := os.WriteFile(path, data, filePermissions); err != nil { // #nosec G306 -- outputs are meant to be served
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// figureWriter writes images next to a page under <stem>_files/figure-html.
type figureWriter struct {
	root    string // <stem>_files, absolute or relative like the page
	rootRel string // <stem>_files relative to the page directory
	count   int
	written bool
}

func newFigureWriter(page string) *figureWriter {
	root := mediaDir(page)
	return &figureWriter{root: root, rootRel: filepath.Base(root)}
}

// write decodes base64 image data into a new file and returns its URL
// relative to the page.
func (f *figureWriter) write(name, encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: decoding %s: %v", ErrWriteOutput, name, err)
	}

	dir := filepath.Join(f.root, figureSubdir)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	f.count++
	file := fmt.Sprintf("%02d-%s", f.count, name)
	if err := writeOutput(filepath.Join(dir, file), data); err != nil {
		return "", err
	}
	f.written = true
	return fileutil.ToSlash(filepath.Join(f.rootRel, figureSubdir, file)), nil
}

func (f *figureWriter) supporting() []string {
	if !f.written {
		return nil
	}
	return []string{f.root}
}

// Compile-time interface check.
var _ Engine = (*Native)(nil)
