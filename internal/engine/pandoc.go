package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/alnah/go-nbpreview/internal/assets"
	"github.com/alnah/go-nbpreview/internal/fileutil"
	"github.com/alnah/go-nbpreview/internal/notebook"
	"github.com/alnah/go-nbpreview/internal/pipeline"
)

// DefaultPandocBinary is the pandoc executable looked up on PATH.
const DefaultPandocBinary = "pandoc"

// Pandoc renders through the pandoc CLI.
type Pandoc struct {
	Runner CommandRunner
	Binary string

	assets assets.AssetLoader
}

// NewPandoc creates a Pandoc engine with a real command runner. An empty
// binary uses DefaultPandocBinary; a nil loader uses the embedded assets.
func NewPandoc(binary string, loader assets.AssetLoader) *Pandoc {
	if binary == "" {
		binary = DefaultPandocBinary
	}
	if loader == nil {
		loader = assets.NewEmbeddedLoader()
	}
	return &Pandoc{Runner: &ExecRunner{}, Binary: binary, assets: loader}
}

// Render runs pandoc once per input.
func (p *Pandoc) Render(ctx context.Context, inputs []Input, opts Options) (*Result, error) {
	if err := validateRequest(inputs, opts); err != nil {
		return nil, err
	}

	result := &Result{}
	for _, in := range inputs {
		file, err := p.renderOne(ctx, in, opts)
		if err != nil {
			return nil, err
		}
		result.Files = append(result.Files, file)
	}
	return result, nil
}

func (p *Pandoc) renderOne(ctx context.Context, in Input, opts Options) (File, error) {
	source, from := in.Path, "markdown"
	if notebook.IsNotebookPath(in.Path) {
		from = "ipynb"
	}

	// Hidden content is resolved before pandoc sees the notebook.
	if opts.ClearHiddenClasses {
		cleaned, cleanup, err := cleanedCopy(in.Path)
		if err != nil {
			return File{}, err
		}
		defer cleanup()
		source, from = cleaned, "ipynb"
	}

	out := outputPath(in.Path, opts)
	media := mediaDir(out)
	args := p.buildArgs(source, from, out, media, filepath.Dir(in.Path), opts)

	_, stderr, err := p.Runner.Run(ctx, p.Binary, args...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return File{}, ctxErr
		}
		if errors.Is(err, exec.ErrNotFound) {
			return File{}, fmt.Errorf("%w: %s", ErrPandocNotFound, p.Binary)
		}
		return File{}, fmt.Errorf("%w: %s: %w", ErrPandocFailed, strings.TrimSpace(stderr), err)
	}

	file := File{File: out}
	if opts.To == FormatHTML {
		if err := p.injectTheme(out, opts.Theme); err != nil {
			return File{}, err
		}
		if fileutil.DirExists(media) {
			file.Supporting = []string{media}
		}
	}
	return file, nil
}

func (p *Pandoc) buildArgs(source, from, out, media, resourceDir string, opts Options) []string {
	to := "ipynb"
	if opts.To == FormatHTML {
		to = "html5"
	}

	args := []string{source, "-f", from, "-t", to, "--standalone", "-o", out}
	if opts.To == FormatHTML {
		args = append(args, "--extract-media", media, "--resource-path", resourceDir)
		if opts.Template != "" {
			args = append(args, "--template", opts.Template)
		}
		if isNotebookViewStyle(opts) {
			args = append(args, "-M", "notebook-view=true")
		}
		if hasAppendix(opts) {
			args = append(args, "-M", "appendix-style="+opts.AppendixStyle)
		}
	}
	if opts.Quiet {
		args = append(args, "--quiet")
	}
	return args
}

// injectTheme inlines the theme stylesheet into pandoc's HTML output.
func (p *Pandoc) injectTheme(out, theme string) error {
	if theme == "" {
		theme = assets.DefaultStyleName
	}
	css, err := p.assets.LoadStyle(theme)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(out) // #nosec G304 -- file just written by pandoc
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return writeOutput(out, []byte(pipeline.InjectCSS(string(content), css)))
}

// cleanedCopy writes the notebook at path, hidden content resolved, to a
// temporary .ipynb file.
func cleanedCopy(path string) (string, func(), error) {
	nb, err := notebook.Load(path)
	if err != nil {
		return "", nil, err
	}
	if nb, err = notebook.Clean(nb); err != nil {
		return "", nil, err
	}
	data, err := notebook.Export(nb)
	if err != nil {
		return "", nil, err
	}
	return fileutil.WriteTemp(data, ".ipynb")
}

// Compile-time interface check.
var _ Engine = (*Pandoc)(nil)
