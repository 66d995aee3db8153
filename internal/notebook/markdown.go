package notebook

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alnah/go-nbpreview/internal/yamlutil"
)

// chunkOpenPattern matches the opening fence of an executable chunk:
// ```{python} or ```{r, echo=false}.
var chunkOpenPattern = regexp.MustCompile("^(`{3,})\\{([A-Za-z][A-Za-z0-9_+-]*)[^}]*\\}\\s*$")

// chunkOptionPrefix starts a chunk option line.
const chunkOptionPrefix = "#|"

// frontMatter holds the document keys read from Markdown sources.
type frontMatter struct {
	Title   string `yaml:"title"`
	Jupyter any    `yaml:"jupyter"`
}

// chunkOptions holds the chunk options that map onto notebook tags.
type chunkOptions struct {
	Tags    []string `yaml:"tags"`
	Include *bool    `yaml:"include"`
	Output  *bool    `yaml:"output"`
}

// ParseMarkdown splits a computational Markdown document into notebook cells.
// Prose between chunks becomes markdown cells; chunks become code cells
// without outputs.
func ParseMarkdown(data []byte) (*Notebook, error) {
	fm, body := yamlutil.SplitFrontMatter(data)

	nb := &Notebook{Language: DefaultLanguage}
	if len(fm) > 0 {
		var meta frontMatter
		if err := yamlutil.Unmarshal(fm, &meta); err != nil {
			return nil, fmt.Errorf("%w: front matter: %v", ErrInvalidNotebook, err)
		}
		nb.Title = meta.Title
		if kernel, ok := meta.Jupyter.(string); ok && kernel != "" {
			nb.Language = kernelLanguage(kernel)
		}
	}

	var (
		prose      []string
		code       []string
		fence      string
		lang       string
		inChunk    bool
		inPlain    bool
		plainFence string
		languages  []string
	)

	flushProse := func() {
		text := strings.Trim(strings.Join(prose, "\n"), "\n")
		if strings.TrimSpace(text) != "" {
			nb.Cells = append(nb.Cells, Cell{Type: CellMarkdown, Source: text})
		}
		prose = prose[:0]
	}

	for _, line := range strings.Split(strings.ReplaceAll(string(body), "\r\n", "\n"), "\n") {
		switch {
		case inChunk:
			if strings.TrimSpace(line) == fence {
				cell, err := codeCell(code)
				if err != nil {
					return nil, err
				}
				nb.Cells = append(nb.Cells, cell)
				languages = append(languages, lang)
				inChunk, code = false, nil
				continue
			}
			code = append(code, line)
		case inPlain:
			prose = append(prose, line)
			if strings.TrimSpace(line) == plainFence {
				inPlain = false
			}
		default:
			if m := chunkOpenPattern.FindStringSubmatch(line); m != nil {
				flushProse()
				fence, lang, inChunk = m[1], strings.ToLower(m[2]), true
				continue
			}
			prose = append(prose, line)
			if trimmed := strings.TrimSpace(line); strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
				inPlain = true
				plainFence = trimmed[:fenceLength(trimmed)]
			}
		}
	}
	if inChunk {
		return nil, fmt.Errorf("%w: unterminated %s chunk", ErrInvalidNotebook, lang)
	}
	flushProse()

	if nb.Language == DefaultLanguage && len(languages) > 0 {
		nb.Language = languages[0]
	}
	return nb, nil
}

func codeCell(lines []string) (Cell, error) {
	var opts []string
	for len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[0]), chunkOptionPrefix) {
		opts = append(opts, strings.TrimPrefix(strings.TrimSpace(lines[0]), chunkOptionPrefix))
		lines = lines[1:]
	}

	cell := Cell{Type: CellCode, Source: strings.Join(lines, "\n")}
	if len(opts) == 0 {
		return cell, nil
	}

	var o chunkOptions
	if err := yamlutil.Unmarshal([]byte(strings.Join(opts, "\n")), &o); err != nil {
		return Cell{}, fmt.Errorf("%w: chunk options: %v", ErrInvalidNotebook, err)
	}
	cell.Tags = append(cell.Tags, o.Tags...)
	if o.Include != nil && !*o.Include && !cell.HasTag(TagRemoveCell) {
		cell.Tags = append(cell.Tags, TagRemoveCell)
	}
	if o.Output != nil && !*o.Output && !cell.HasTag(TagRemoveOutput) {
		cell.Tags = append(cell.Tags, TagRemoveOutput)
	}
	return cell, nil
}

// fenceLength counts the leading fence characters of a code fence line.
func fenceLength(line string) int {
	n := 0
	for n < len(line) && line[n] == line[0] {
		n++
	}
	return n
}

// kernelLanguage maps a Jupyter kernel name to a language name.
func kernelLanguage(kernel string) string {
	k := strings.ToLower(kernel)
	switch {
	case strings.HasPrefix(k, "python"):
		return "python"
	case k == "ir":
		return "r"
	case strings.HasPrefix(k, "julia"):
		return "julia"
	}
	return k
}
