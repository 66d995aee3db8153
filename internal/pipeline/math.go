package pipeline

import (
	"fmt"
	"html"
	"strings"
)

// mathSpan is TeX taken out of a Markdown cell before conversion.
type mathSpan struct {
	tex     string
	display bool
}

// html renders the span the way pandoc does for HTML math.
func (m mathSpan) html() string {
	if m.display {
		return `<span class="math display">\[` + html.EscapeString(m.tex) + `\]</span>`
	}
	return `<span class="math inline">\(` + html.EscapeString(m.tex) + `\)</span>`
}

// mathPlaceholder is plain alphanumeric text so goldmark passes it through.
func mathPlaceholder(i int) string {
	return fmt.Sprintf("NBPMATH%dQ", i)
}

// protectMath replaces math outside code with placeholders. Fenced blocks
// are copied unchanged.
func protectMath(src string) (string, []mathSpan) {
	var (
		out, text strings.Builder
		spans     []mathSpan
		fence     string
	)
	flush := func() {
		out.WriteString(replaceMath(text.String(), &spans))
		text.Reset()
	}

	for _, line := range strings.SplitAfter(src, "\n") {
		trimmed := strings.TrimLeft(line, " ")
		switch {
		case fence != "":
			out.WriteString(line)
			if strings.HasPrefix(trimmed, fence) {
				fence = ""
			}
		case fenceOpening(trimmed) != "":
			flush()
			fence = fenceOpening(trimmed)
			out.WriteString(line)
		default:
			text.WriteString(line)
		}
	}
	flush()
	return out.String(), spans
}

// fenceOpening returns the backtick or tilde run opening a fenced block.
func fenceOpening(line string) string {
	for _, c := range []string{"`", "~"} {
		run := len(line) - len(strings.TrimLeft(line, c))
		if run >= 3 {
			return line[:run]
		}
	}
	return ""
}

// replaceMath swaps $$display$$ and $inline$ math in s for placeholders,
// skipping escaped dollars and code spans.
func replaceMath(s string, spans *[]mathSpan) string {
	var b strings.Builder
	add := func(tex string, display bool) {
		b.WriteString(mathPlaceholder(len(*spans)))
		*spans = append(*spans, mathSpan{tex: tex, display: display})
	}

	for i := 0; i < len(s); {
		rest := s[i:]
		switch {
		case rest[0] == '\\' && len(rest) > 1:
			b.WriteString(rest[:2])
			i += 2

		case rest[0] == '`':
			run := len(rest) - len(strings.TrimLeft(rest, "`"))
			end := strings.Index(rest[run:], rest[:run])
			if end < 0 {
				b.WriteString(rest[:run])
				i += run
				continue
			}
			b.WriteString(rest[:run+end+run])
			i += run + end + run

		case strings.HasPrefix(rest, "$$"):
			end := strings.Index(rest[2:], "$$")
			if end < 0 {
				b.WriteString("$$")
				i += 2
				continue
			}
			add(rest[2:2+end], true)
			i += end + 4

		case rest[0] == '$':
			tex, ok := inlineMath(rest[1:])
			if !ok {
				b.WriteByte('$')
				i++
				continue
			}
			add(tex, false)
			i += len(tex) + 2

		default:
			b.WriteByte(rest[0])
			i++
		}
	}
	return b.String()
}

// inlineMath returns the TeX up to the closing dollar on the same line. The
// opening dollar must be followed by non-space, the closing one preceded by
// non-space and not followed by a digit, so "$5 and $10" is not math.
func inlineMath(rest string) (string, bool) {
	if rest == "" || isSpace(rest[0]) {
		return "", false
	}
	for j := 1; j < len(rest); j++ {
		switch rest[j] {
		case '\n':
			return "", false
		case '\\':
			j++
		case '$':
			if isSpace(rest[j-1]) {
				return "", false
			}
			if j+1 < len(rest) && rest[j+1] >= '0' && rest[j+1] <= '9' {
				return "", false
			}
			return rest[:j], true
		}
	}
	return "", false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// restoreMath puts the rendered spans back in place of their placeholders.
func restoreMath(fragment string, spans []mathSpan) string {
	if len(spans) == 0 {
		return fragment
	}
	pairs := make([]string, 0, 2*len(spans))
	for i, m := range spans {
		pairs = append(pairs, mathPlaceholder(i), m.html())
	}
	return strings.NewReplacer(pairs...).Replace(fragment)
}
