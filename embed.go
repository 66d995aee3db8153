package nbpreview

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"strings"
	"text/template"
)

// The embed template is itself a template for the engine's page template, so
// it uses its own delimiters and its values must not read as engine syntax.
const (
	embedLeftDelim  = "[["
	embedRightDelim = "]]"
)

const embedFilePermissions = 0o600

// embedData fills the embed template.
type embedData struct {
	Title    string
	Path     string // download link
	Filename string // suggested download name
}

var embedFuncs = template.FuncMap{
	"gotext":     goText,
	"pandoctext": pandocText,
}

var braceReplacer = strings.NewReplacer("{", "&#123;", "}", "&#125;")

// goText escapes s for HTML inside a Go template.
func goText(s string) string {
	return braceReplacer.Replace(html.EscapeString(s))
}

// pandocText escapes s for HTML inside a pandoc template.
func pandocText(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "$", "$$")
}

func parseEmbedTemplate(name, content string) (*template.Template, error) {
	tmpl, err := template.New(name).
		Delims(embedLeftDelim, embedRightDelim).
		Funcs(embedFuncs).
		Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrEmbedTemplate, name, err)
	}
	return tmpl, nil
}

// writeEmbedTemplate renders the embed template for one notebook into a
// temporary .html file and returns its path.
func (p *Previewer) writeEmbedTemplate(data embedData) (string, error) {
	var buf bytes.Buffer
	if err := p.embed.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEmbedTemplate, err)
	}

	path, err := p.temp.CreateFile(".html")
	if err != nil {
		return "", fmt.Errorf("creating embed template: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), embedFilePermissions); err != nil {
		return "", fmt.Errorf("writing embed template: %w", err)
	}
	return path, nil
}
