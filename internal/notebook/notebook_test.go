package notebook

// Notes:
// - Load read failures other than a missing file are not tested: they need
//   filesystem permission tricks that are unreliable across platforms.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

const sampleNotebook = `{
 "nbformat": 4,
 "nbformat_minor": 5,
 "metadata": {"title": "Demo", "kernelspec": {"language": "Python"}},
 "cells": [
  {"cell_type": "markdown", "metadata": {}, "source": ["# Title\n", "text"]},
  {"cell_type": "code", "execution_count": 3,
   "metadata": {"tags": ["remove-output"], "collapsed": true},
   "source": "print(1)",
   "outputs": [
    {"output_type": "stream", "name": "stdout", "text": ["1\n"]},
    {"output_type": "execute_result", "execution_count": 3, "metadata": {}, "data": {"text/plain": ["2"]}}
   ]},
  {"cell_type": "code", "execution_count": null, "metadata": {"tags": ["remove-cell"]}, "source": "secret()", "outputs": []},
  {"cell_type": "code", "execution_count": 4, "metadata": {"tags": ["hidden"], "scrolled": false},
   "source": "boom()",
   "outputs": [{"output_type": "error", "ename": "NameError", "evalue": "boom", "traceback": ["line 1"]}]}
 ]
}`

const sampleMarkdown = "---\n" +
	"title: Report\n" +
	"---\n" +
	"\n" +
	"# Intro\n" +
	"\n" +
	"Some text.\n" +
	"\n" +
	"```{python}\n" +
	"#| tags: [remove-output]\n" +
	"x = 1\n" +
	"```\n" +
	"\n" +
	"```python\n" +
	"```{r}\n" +
	"```\n" +
	"\n" +
	"```{r echo=false}\n" +
	"#| include: false\n" +
	"y <- 2\n" +
	"```\n"

// ---------------------------------------------------------------------------
// TestParse - Notebook JSON
// ---------------------------------------------------------------------------

func TestParse(t *testing.T) {
	t.Parallel()

	nb, err := Parse([]byte(sampleNotebook))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if nb.Title != "Demo" {
		t.Errorf("Title = %q, want %q", nb.Title, "Demo")
	}
	if nb.Language != "python" {
		t.Errorf("Language = %q, want %q", nb.Language, "python")
	}
	if len(nb.Cells) != 4 {
		t.Fatalf("len(Cells) = %d, want 4", len(nb.Cells))
	}

	md := nb.Cells[0]
	if md.Type != CellMarkdown || md.Source != "# Title\ntext" {
		t.Errorf("markdown cell = %+v", md)
	}

	code := nb.Cells[1]
	if code.ExecutionCount != 3 {
		t.Errorf("ExecutionCount = %d, want 3", code.ExecutionCount)
	}
	if !code.HasTag(TagRemoveOutput) {
		t.Errorf("Tags = %v, want remove-output", code.Tags)
	}
	if len(code.Outputs) != 2 {
		t.Fatalf("len(Outputs) = %d, want 2", len(code.Outputs))
	}
	if code.Outputs[0].Name != "stdout" || code.Outputs[0].Text != "1\n" {
		t.Errorf("stream output = %+v", code.Outputs[0])
	}
	if code.Outputs[1].Data["text/plain"] != "2" {
		t.Errorf("execute_result data = %v", code.Outputs[1].Data)
	}

	errOut := nb.Cells[3].Outputs[0]
	if errOut.EName != "NameError" || errOut.EValue != "boom" || len(errOut.Traceback) != 1 {
		t.Errorf("error output = %+v", errOut)
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "malformed JSON", input: `{"cells": [`},
		{name: "top-level array", input: `[]`},
		{name: "old nbformat", input: `{"nbformat": 3, "cells": []}`},
		{name: "missing cells", input: `{"nbformat": 4}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.input))
			if !errors.Is(err, ErrInvalidNotebook) {
				t.Errorf("Parse() error = %v, want ErrInvalidNotebook", err)
			}
		})
	}
}

func TestParse_LanguageFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "kernelspec", input: `{"nbformat":4,"metadata":{"kernelspec":{"language":"R"}},"cells":[]}`, want: "r"},
		{name: "language_info", input: `{"nbformat":4,"metadata":{"language_info":{"name":"julia"}},"cells":[]}`, want: "julia"},
		{name: "default", input: `{"nbformat":4,"cells":[]}`, want: DefaultLanguage},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			nb, err := Parse([]byte(tt.input))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if nb.Language != tt.want {
				t.Errorf("Language = %q, want %q", nb.Language, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestParseMarkdown - Computational Markdown
// ---------------------------------------------------------------------------

func TestParseMarkdown(t *testing.T) {
	t.Parallel()

	nb, err := ParseMarkdown([]byte(sampleMarkdown))
	if err != nil {
		t.Fatalf("ParseMarkdown() error = %v", err)
	}

	if nb.Title != "Report" {
		t.Errorf("Title = %q, want %q", nb.Title, "Report")
	}
	if nb.Language != "python" {
		t.Errorf("Language = %q, want %q", nb.Language, "python")
	}
	if len(nb.Cells) != 4 {
		t.Fatalf("len(Cells) = %d, want 4: %+v", len(nb.Cells), nb.Cells)
	}

	if nb.Cells[0].Type != CellMarkdown || nb.Cells[0].Source != "# Intro\n\nSome text." {
		t.Errorf("cell 0 = %+v", nb.Cells[0])
	}
	if nb.Cells[1].Type != CellCode || nb.Cells[1].Source != "x = 1" {
		t.Errorf("cell 1 = %+v", nb.Cells[1])
	}
	if !nb.Cells[1].HasTag(TagRemoveOutput) {
		t.Errorf("cell 1 tags = %v, want remove-output", nb.Cells[1].Tags)
	}
	if nb.Cells[2].Type != CellMarkdown || !strings.Contains(nb.Cells[2].Source, "```{r}") {
		t.Errorf("chunk syntax inside a plain fence should stay prose, got %+v", nb.Cells[2])
	}
	if nb.Cells[3].Source != "y <- 2" || !nb.Cells[3].HasTag(TagRemoveCell) {
		t.Errorf("cell 3 = %+v, want remove-cell code", nb.Cells[3])
	}
}

func TestParseMarkdown_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "unterminated chunk", input: "```{python}\nx = 1\n"},
		{name: "invalid chunk options", input: "```{python}\n#| tags: [a\nx = 1\n```\n"},
		{name: "invalid front matter", input: "---\ntitle: [a\n---\nbody\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseMarkdown([]byte(tt.input))
			if !errors.Is(err, ErrInvalidNotebook) {
				t.Errorf("ParseMarkdown() error = %v, want ErrInvalidNotebook", err)
			}
		})
	}
}

func TestParseMarkdown_JupyterKernel(t *testing.T) {
	t.Parallel()

	nb, err := ParseMarkdown([]byte("---\njupyter: ir\n---\n\ntext\n"))
	if err != nil {
		t.Fatalf("ParseMarkdown() error = %v", err)
	}
	if nb.Language != "r" {
		t.Errorf("Language = %q, want %q", nb.Language, "r")
	}
}

// ---------------------------------------------------------------------------
// TestClean and TestExport - Hidden content and serialization
// ---------------------------------------------------------------------------

func TestClean(t *testing.T) {
	t.Parallel()

	nb, err := Parse([]byte(sampleNotebook))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	cleaned, err := Clean(nb)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	if len(cleaned.Cells) != 3 {
		t.Fatalf("len(Cells) = %d, want 3 (remove-cell dropped)", len(cleaned.Cells))
	}
	if len(cleaned.Cells[1].Outputs) != 0 || cleaned.Cells[1].ExecutionCount != 0 {
		t.Errorf("remove-output cell kept outputs: %+v", cleaned.Cells[1])
	}
	if cleaned.Cells[2].HasTag(TagHidden) {
		t.Error("hidden tag should be stripped")
	}
	if len(nb.Cells) != 4 || len(nb.Cells[1].Outputs) != 2 {
		t.Error("Clean() must not modify its input")
	}

	data, err := Export(cleaned)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	doc := gjson.ParseBytes(data)

	checks := []struct {
		path string
		want string
	}{
		{path: "cells.#", want: "3"},
		{path: "metadata.title", want: "Demo"},
		{path: "cells.1.outputs.#", want: "0"},
		{path: "cells.1.metadata.tags.0", want: "remove-output"},
	}
	for _, c := range checks {
		if got := doc.Get(c.path).String(); got != c.want {
			t.Errorf("%s = %q, want %q", c.path, got, c.want)
		}
	}
	if doc.Get("cells.1.execution_count").Type != gjson.Null {
		t.Error("execution_count should be null after clearing outputs")
	}
	for _, path := range []string{"cells.1.metadata.collapsed", "cells.2.metadata.scrolled", "cells.2.metadata.tags"} {
		if doc.Get(path).Exists() {
			t.Errorf("%s should be removed", path)
		}
	}
}

func TestExport_Markdown(t *testing.T) {
	t.Parallel()

	nb, err := ParseMarkdown([]byte(sampleMarkdown))
	if err != nil {
		t.Fatalf("ParseMarkdown() error = %v", err)
	}

	data, err := Export(nb)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	roundTrip, err := Parse(data)
	if err != nil {
		t.Fatalf("exported notebook does not parse: %v", err)
	}
	if len(roundTrip.Cells) != len(nb.Cells) {
		t.Errorf("round trip cells = %d, want %d", len(roundTrip.Cells), len(nb.Cells))
	}
	if roundTrip.Title != "Report" {
		t.Errorf("round trip title = %q, want %q", roundTrip.Title, "Report")
	}

	doc := gjson.ParseBytes(data)
	if doc.Get("nbformat").Int() != 4 {
		t.Errorf("nbformat = %d, want 4", doc.Get("nbformat").Int())
	}
	if got := doc.Get("metadata.language_info.name").String(); got != "python" {
		t.Errorf("language_info.name = %q, want python", got)
	}
	if got := doc.Get("cells.0.source.0").String(); got != "# Intro\n" {
		t.Errorf("cells.0.source.0 = %q, want %q", got, "# Intro\n")
	}
	if !doc.Get("cells.1.outputs").IsArray() {
		t.Error("code cells need an outputs array")
	}
}

// ---------------------------------------------------------------------------
// TestLoad - File dispatch
// ---------------------------------------------------------------------------

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	nbPath := filepath.Join(dir, "demo.ipynb")
	mdPath := filepath.Join(dir, "report.qmd")
	if err := os.WriteFile(nbPath, []byte(sampleNotebook), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := os.WriteFile(mdPath, []byte(sampleMarkdown), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if nb, err := Load(nbPath); err != nil || nb.Title != "Demo" {
		t.Errorf("Load(ipynb) = %v, %v", nb, err)
	}
	if nb, err := Load(mdPath); err != nil || nb.Title != "Report" {
		t.Errorf("Load(qmd) = %v, %v", nb, err)
	}

	if _, err := Load(filepath.Join(dir, "data.csv")); !errors.Is(err, ErrUnsupportedInput) {
		t.Errorf("Load(csv) error = %v, want ErrUnsupportedInput", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.ipynb")); !errors.Is(err, ErrNotebookRead) {
		t.Errorf("Load(missing) error = %v, want ErrNotebookRead", err)
	}
}

func TestIsNotebookPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path     string
		notebook bool
		markdown bool
	}{
		{path: "a.ipynb", notebook: true},
		{path: "A.IPYNB", notebook: true},
		{path: "doc.qmd", markdown: true},
		{path: "doc.md", markdown: true},
		{path: "image.png"},
	}

	for _, tt := range tests {
		if got := IsNotebookPath(tt.path); got != tt.notebook {
			t.Errorf("IsNotebookPath(%q) = %v, want %v", tt.path, got, tt.notebook)
		}
		if got := IsMarkdownPath(tt.path); got != tt.markdown {
			t.Errorf("IsMarkdownPath(%q) = %v, want %v", tt.path, got, tt.markdown)
		}
	}
}
