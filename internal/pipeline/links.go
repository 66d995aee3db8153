package pipeline

import (
	"bytes"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// embedShortcode matches {{< embed path.ipynb >}} and {{< embed path.ipynb#cell >}}.
var embedShortcode = regexp.MustCompile(`\{\{<\s*embed\s+([^\s>]+)(?:\s+[^>]*)?>\}\}`)

// NotebookRef is a notebook referenced from a Markdown document.
type NotebookRef struct {
	Path  string // as written in the document, fragment and query removed
	Title string // link text; empty for embeds
}

// FindNotebookRefs returns the local .ipynb files a Markdown document links to
// or embeds, in order of appearance within each kind (links first).
// Remote URLs are ignored.
func FindNotebookRefs(source []byte) []NotebookRef {
	var refs []NotebookRef

	doc := goldmark.New().Parser().Parse(text.NewReader(source))
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		link, ok := n.(*ast.Link)
		if !ok {
			return ast.WalkContinue, nil
		}
		if p, ok := localNotebookPath(string(link.Destination)); ok {
			refs = append(refs, NotebookRef{Path: p, Title: strings.TrimSpace(nodeText(link, source))})
		}
		return ast.WalkSkipChildren, nil
	})

	for _, m := range embedShortcode.FindAllSubmatch(source, -1) {
		if p, ok := localNotebookPath(string(m[1])); ok {
			refs = append(refs, NotebookRef{Path: p})
		}
	}
	return refs
}

// localNotebookPath strips query and fragment from dest and reports whether
// it names a local notebook.
func localNotebookPath(dest string) (string, bool) {
	u, err := url.Parse(dest)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return "", false
	}
	if !strings.EqualFold(path.Ext(u.Path), ".ipynb") {
		return "", false
	}
	return u.Path, true
}

// nodeText concatenates the text segments below n.
func nodeText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
		case *ast.String:
			buf.Write(t.Value)
		default:
			buf.WriteString(nodeText(c, source))
		}
	}
	return buf.String()
}
