package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alnah/go-nbpreview/internal/fileutil"
)

// Output formats.
const (
	FormatHTML  = "html"
	FormatIPYNB = "ipynb"
)

// View and appendix styles understood by the engines.
const (
	NotebookViewStyleNotebook = "notebook"
	AppendixStyleNone         = "none"
)

// File permission constants.
const (
	dirPermissions  = 0o750
	filePermissions = 0o644
)

// Sentinel errors for render operations.
var (
	ErrNoInput           = errors.New("no render input")
	ErrUnsupportedFormat = errors.New("unsupported output format")
	ErrTemplate          = errors.New("page template failed")
	ErrWriteOutput       = errors.New("failed to write render output")
	ErrPandocNotFound    = errors.New("pandoc not found")
	ErrPandocFailed      = errors.New("pandoc failed")
)

// Input is one source to render.
type Input struct {
	Path    string
	Formats []string
}

// Options controls a render call.
type Options struct {
	To                 string // FormatHTML or FormatIPYNB
	OutputFile         string // relative to the input directory unless absolute
	Template           string // page template file; empty uses the built-in page
	Theme              string
	NotebookViewStyle  string
	AppendixStyle      string
	ClearHiddenClasses bool
	Quiet              bool
}

// File is one rendered output with the files it needs at runtime.
type File struct {
	File       string
	Supporting []string
}

// Result lists the files produced by a render call.
type Result struct {
	Files []File
}

// Engine renders inputs to a single output format.
type Engine interface {
	Render(ctx context.Context, inputs []Input, opts Options) (*Result, error)
}

// validateRequest checks the parts of a render call both engines share.
func validateRequest(inputs []Input, opts Options) error {
	if len(inputs) == 0 {
		return ErrNoInput
	}
	switch opts.To {
	case FormatHTML, FormatIPYNB:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, opts.To)
}

// outputPath resolves where an input renders to. Without an explicit output
// file the input stem gets the target extension.
func outputPath(input string, opts Options) string {
	dir, stem := fileutil.DirAndStem(input)
	name := opts.OutputFile
	if name == "" {
		name = stem + "." + opts.To
	}
	return fileutil.ResolveRelative(dir, name)
}

// mediaDir returns the directory that holds files extracted for an output:
// <output stem>_files next to the output.
func mediaDir(output string) string {
	dir, stem := fileutil.DirAndStem(output)
	return filepath.Join(dir, stem+"_files")
}

// isNotebookViewStyle reports whether opts asks for notebook presentation.
func isNotebookViewStyle(opts Options) bool {
	return strings.EqualFold(opts.NotebookViewStyle, NotebookViewStyleNotebook)
}

// hasAppendix reports whether opts asks for a source appendix.
func hasAppendix(opts Options) bool {
	return opts.AppendixStyle != "" && !strings.EqualFold(opts.AppendixStyle, AppendixStyleNone)
}
