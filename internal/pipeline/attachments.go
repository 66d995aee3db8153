package pipeline

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// attachmentScheme prefixes references to cell attachments.
const attachmentScheme = "attachment:"

// AttachmentResolver maps an attachment name to the URL it was written to.
// It reports false when the cell has no such attachment.
type AttachmentResolver func(name string) (string, bool)

// RewriteAttachments replaces attachment:<name> image sources in an HTML
// fragment with the URLs returned by resolve. Unknown attachments are left
// unchanged. Fragments without attachment references are returned as is.
func RewriteAttachments(fragment string, resolve AttachmentResolver) (string, error) {
	if resolve == nil || !strings.Contains(fragment, attachmentScheme) {
		return fragment, nil
	}

	container, err := parseFragment(fragment)
	if err != nil {
		return "", err
	}
	rewriteNode(container, resolve)
	return renderFragment(container)
}

// parseFragment parses HTML with a body context so no wrapper is added.
func parseFragment(content string) (*html.Node, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, nil
}

func renderFragment(container *html.Node) (string, error) {
	var buf strings.Builder
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func rewriteNode(n *html.Node, resolve AttachmentResolver) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Img {
		for i, attr := range n.Attr {
			if attr.Key != "src" || !strings.HasPrefix(attr.Val, attachmentScheme) {
				continue
			}
			if url, ok := resolve(strings.TrimPrefix(attr.Val, attachmentScheme)); ok {
				n.Attr[i].Val = url
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteNode(c, resolve)
	}
}
