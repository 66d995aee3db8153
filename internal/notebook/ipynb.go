package notebook

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// minNBFormat is the oldest nbformat major version accepted.
const minNBFormat = 4

// Parse reads nbformat 4 notebook JSON.
func Parse(data []byte) (*Notebook, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidNotebook)
	}

	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrInvalidNotebook)
	}
	if v := doc.Get("nbformat").Int(); v < minNBFormat {
		return nil, fmt.Errorf("%w: nbformat %d is not supported (need %d+)", ErrInvalidNotebook, v, minNBFormat)
	}
	cells := doc.Get("cells")
	if !cells.IsArray() {
		return nil, fmt.Errorf("%w: missing cells array", ErrInvalidNotebook)
	}

	nb := &Notebook{
		Title:    doc.Get("metadata.title").String(),
		Language: notebookLanguage(doc),
		raw:      data,
	}
	for _, c := range cells.Array() {
		nb.Cells = append(nb.Cells, parseCell(c))
	}
	return nb, nil
}

func notebookLanguage(doc gjson.Result) string {
	for _, path := range []string{"metadata.kernelspec.language", "metadata.language_info.name"} {
		if lang := doc.Get(path).String(); lang != "" {
			return strings.ToLower(lang)
		}
	}
	return DefaultLanguage
}

func parseCell(c gjson.Result) Cell {
	cell := Cell{
		Type:           c.Get("cell_type").String(),
		Source:         multiline(c.Get("source")),
		ExecutionCount: int(c.Get("execution_count").Int()),
		raw:            c.Raw,
	}
	for _, t := range c.Get("metadata.tags").Array() {
		cell.Tags = append(cell.Tags, t.String())
	}
	for _, o := range c.Get("outputs").Array() {
		cell.Outputs = append(cell.Outputs, parseOutput(o))
	}
	if att := c.Get("attachments"); att.IsObject() {
		cell.Attachments = make(map[string]map[string]string)
		att.ForEach(func(name, bundle gjson.Result) bool {
			cell.Attachments[name.String()] = mimeBundle(bundle)
			return true
		})
	}
	return cell
}

func parseOutput(o gjson.Result) Output {
	out := Output{
		Type:   o.Get("output_type").String(),
		Name:   o.Get("name").String(),
		Text:   multiline(o.Get("text")),
		EName:  o.Get("ename").String(),
		EValue: o.Get("evalue").String(),
	}
	if data := o.Get("data"); data.IsObject() {
		out.Data = mimeBundle(data)
	}
	for _, line := range o.Get("traceback").Array() {
		out.Traceback = append(out.Traceback, line.String())
	}
	return out
}

func mimeBundle(r gjson.Result) map[string]string {
	bundle := make(map[string]string)
	r.ForEach(func(mime, value gjson.Result) bool {
		bundle[mime.String()] = multiline(value)
		return true
	})
	return bundle
}

// multiline joins nbformat multiline strings, which are either a string or an
// array of lines that already carry their newlines.
func multiline(r gjson.Result) string {
	if !r.IsArray() {
		return r.String()
	}
	var b strings.Builder
	for _, line := range r.Array() {
		b.WriteString(line.String())
	}
	return b.String()
}
