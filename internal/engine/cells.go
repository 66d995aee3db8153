package engine

import (
	"context"
	"fmt"
	"html"
	"path"
	"regexp"
	"strings"

	"github.com/alnah/go-nbpreview/internal/notebook"
	"github.com/alnah/go-nbpreview/internal/pipeline"
)

// ansiEscape matches terminal color sequences in tracebacks.
var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

// imageTypes maps the raster MIME types written as figure files to their
// file extension, in preference order.
var imageTypes = []struct {
	mime string
	ext  string
}{
	{"image/png", ".png"},
	{"image/jpeg", ".jpg"},
	{"image/gif", ".gif"},
}

// cellRenderer turns notebook cells into the page body.
type cellRenderer struct {
	markdown     pipeline.HTMLConverter
	code         *pipeline.CodeHighlighter
	figures      *figureWriter
	language     string
	notebookView bool
	showHidden   bool
}

func (r *cellRenderer) renderCells(ctx context.Context, cells []notebook.Cell) (string, error) {
	var b strings.Builder
	for i, cell := range cells {
		if cell.HasTag(notebook.TagRemoveCell) || (!r.showHidden && cell.HasTag(notebook.TagHidden)) {
			continue
		}

		var (
			out string
			err error
		)
		switch cell.Type {
		case notebook.CellMarkdown:
			out, err = r.renderMarkdown(ctx, i, cell)
		case notebook.CellCode:
			out, err = r.renderCode(ctx, cell)
		default:
			out = `<div class="cell cell-raw"><pre>` + html.EscapeString(cell.Source) + "</pre></div>\n"
		}
		if err != nil {
			return "", fmt.Errorf("cell %d: %w", i+1, err)
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

func (r *cellRenderer) renderMarkdown(ctx context.Context, index int, cell notebook.Cell) (string, error) {
	fragment, err := r.markdown.ToHTML(ctx, cell.Source)
	if err != nil {
		return "", err
	}

	if len(cell.Attachments) > 0 {
		var writeErr error
		fragment, err = pipeline.RewriteAttachments(fragment, func(name string) (string, bool) {
			bundle, ok := cell.Attachments[name]
			if !ok || writeErr != nil {
				return "", false
			}
			for _, img := range imageTypes {
				if data, ok := bundle[img.mime]; ok {
					url, err := r.figures.write(fmt.Sprintf("cell%d-%s", index+1, attachmentFileName(name, img.ext)), data)
					if err != nil {
						writeErr = err
						return "", false
					}
					return url, true
				}
			}
			return "", false
		})
		if err != nil {
			return "", err
		}
		if writeErr != nil {
			return "", writeErr
		}
	}

	return `<div class="cell cell-markdown">` + "\n" + fragment + "</div>\n", nil
}

func (r *cellRenderer) renderCode(ctx context.Context, cell notebook.Cell) (string, error) {
	var b strings.Builder
	b.WriteString(`<div class="cell cell-code">` + "\n")

	if r.notebookView {
		prompt := " "
		if cell.ExecutionCount > 0 {
			prompt = fmt.Sprint(cell.ExecutionCount)
		}
		fmt.Fprintf(&b, `<div class="cell-prompt">In [%s]:</div>`+"\n", prompt)
	}

	source, err := r.code.Highlight(cell.Source, r.language)
	if err != nil {
		return "", err
	}
	b.WriteString(`<div class="cell-source">` + source + "</div>\n")

	if !cell.HasTag(notebook.TagRemoveOutput) {
		for _, o := range cell.Outputs {
			out, err := r.renderOutput(ctx, o)
			if err != nil {
				return "", err
			}
			b.WriteString(out)
		}
	}

	b.WriteString("</div>\n")
	return b.String(), nil
}

func (r *cellRenderer) renderOutput(ctx context.Context, o notebook.Output) (string, error) {
	switch o.Type {
	case "stream":
		return outputBlock("stream cell-output-"+o.Name, preformatted(o.Text)), nil
	case "error":
		text := o.EName + ": " + o.EValue
		if len(o.Traceback) > 0 {
			text = strings.Join(o.Traceback, "\n")
		}
		return outputBlock("error", preformatted(ansiEscape.ReplaceAllString(text, ""))), nil
	case "execute_result", "display_data":
		return r.renderData(ctx, o.Data)
	}
	return "", nil
}

// renderData renders the richest representation of a MIME bundle.
func (r *cellRenderer) renderData(ctx context.Context, data map[string]string) (string, error) {
	if v, ok := data["text/html"]; ok {
		return outputBlock("display", v), nil
	}
	if v, ok := data["image/svg+xml"]; ok {
		return outputBlock("display", v), nil
	}
	for _, img := range imageTypes {
		if v, ok := data[img.mime]; ok {
			url, err := r.figures.write("output"+img.ext, v)
			if err != nil {
				return "", err
			}
			return outputBlock("display", `<img src="`+html.EscapeString(url)+`" alt="">`), nil
		}
	}
	if v, ok := data["text/markdown"]; ok {
		fragment, err := r.markdown.ToHTML(ctx, v)
		if err != nil {
			return "", err
		}
		return outputBlock("display", fragment), nil
	}
	if v, ok := data["text/plain"]; ok {
		return outputBlock("display", preformatted(v)), nil
	}
	return "", nil
}

func outputBlock(kind, content string) string {
	return `<div class="cell-output cell-output-` + kind + `">` + content + "</div>\n"
}

func preformatted(text string) string {
	return "<pre><code>" + html.EscapeString(strings.TrimSuffix(text, "\n")) + "</code></pre>"
}

// attachmentFileName keeps the attachment's base name and forces ext when it
// has no extension.
func attachmentFileName(name, ext string) string {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	if path.Ext(base) == "" {
		base += ext
	}
	return base
}
