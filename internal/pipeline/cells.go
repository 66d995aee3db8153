package pipeline

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultCodeStyle is the Chroma style used for code cells.
const DefaultCodeStyle = "github"

// CodeHighlighter renders code cell sources as highlighted HTML.
type CodeHighlighter struct {
	formatter *chromahtml.Formatter
	style     *chroma.Style
}

// NewCodeHighlighter creates a CodeHighlighter for a Chroma style name.
// Unknown names fall back to Chroma's default style.
func NewCodeHighlighter(styleName string) *CodeHighlighter {
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	return &CodeHighlighter{
		formatter: chromahtml.New(chromahtml.WithClasses(true)),
		style:     style,
	}
}

// Highlight renders code in language as a <pre class="chroma"> block.
// Unknown languages are rendered as plain text.
func (h *CodeHighlighter) Highlight(code, language string) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("%w: tokenising %s: %v", ErrHTMLConversion, language, err)
	}

	var buf strings.Builder
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return "", fmt.Errorf("%w: highlighting %s: %v", ErrHTMLConversion, language, err)
	}
	return buf.String(), nil
}

// CSS returns the stylesheet for the highlighter's classes.
func (h *CodeHighlighter) CSS() (string, error) {
	var buf strings.Builder
	if err := h.formatter.WriteCSS(&buf, h.style); err != nil {
		return "", fmt.Errorf("%w: writing code style: %v", ErrHTMLConversion, err)
	}
	return buf.String(), nil
}
