// Package markdown loads markdown sources into the document tree the
// layout engine understands. Block structure maps to block elements,
// emphasis and links to inline elements, and images to embeds, so anchor
// paths like /body[0]/p[2] stay stable across reloads of the same file.
package markdown

import (
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"

	"tableflip.dev/marker/pkg/doc"
)

// LoadFile parses a markdown file into a fresh document rooted at <body>.
func LoadFile(path string) (*doc.Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("markdown: read %s: %w", path, err)
	}
	return Parse(src), nil
}

// Parse converts markdown source into a document tree.
func Parse(src []byte) *doc.Document {
	body := doc.NewElement("body")
	d := doc.New(body)
	md := goldmark.New()
	root := md.Parser().Parse(gtext.NewReader(src))
	appendBlocks(d, body, root, src)
	return d
}

func appendBlocks(d *doc.Document, parent *doc.Node, n ast.Node, src []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch b := c.(type) {
		case *ast.Heading:
			el := doc.NewElement(fmt.Sprintf("h%d", b.Level))
			d.AppendChild(parent, el)
			appendInline(d, el, b, src)
		case *ast.Paragraph:
			el := doc.NewElement("p")
			d.AppendChild(parent, el)
			appendInline(d, el, b, src)
		case *ast.TextBlock:
			// Loose list items carry bare text blocks; inline them into the
			// parent so anchors don't gain a phantom paragraph.
			appendInline(d, parent, b, src)
		case *ast.Blockquote:
			el := doc.NewElement("blockquote")
			d.AppendChild(parent, el)
			appendBlocks(d, el, b, src)
		case *ast.List:
			tag := "ul"
			if b.IsOrdered() {
				tag = "ol"
			}
			el := doc.NewElement(tag)
			d.AppendChild(parent, el)
			appendBlocks(d, el, b, src)
		case *ast.ListItem:
			el := doc.NewElement("li")
			d.AppendChild(parent, el)
			appendBlocks(d, el, b, src)
		case *ast.FencedCodeBlock:
			appendCode(d, parent, b, src)
		case *ast.CodeBlock:
			appendCode(d, parent, b, src)
		case *ast.ThematicBreak:
			d.AppendChild(parent, doc.NewElement("hr"))
		default:
			el := doc.NewElement("p")
			d.AppendChild(parent, el)
			appendInline(d, el, c, src)
		}
	}
}

// appendCode renders a code block as a <pre> with one paragraph per line;
// the layout engine has no verbatim mode, so lines become block children.
func appendCode(d *doc.Document, parent *doc.Node, b ast.Node, src []byte) {
	pre := doc.NewElement("pre")
	d.AppendChild(parent, pre)
	lines := b.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		line := strings.TrimRight(string(seg.Value(src)), "\n")
		p := doc.NewElement("p")
		d.AppendChild(pre, p)
		if line != "" {
			d.AppendChild(p, doc.NewText(line))
		}
	}
}

func appendInline(d *doc.Document, parent *doc.Node, n ast.Node, src []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch i := c.(type) {
		case *ast.Text:
			txt := string(i.Segment.Value(src))
			if i.SoftLineBreak() || i.HardLineBreak() {
				txt += " "
			}
			appendText(d, parent, txt)
		case *ast.String:
			appendText(d, parent, string(i.Value))
		case *ast.Emphasis:
			tag := "em"
			if i.Level >= 2 {
				tag = "strong"
			}
			el := doc.NewElement(tag)
			d.AppendChild(parent, el)
			appendInline(d, el, i, src)
		case *ast.CodeSpan:
			el := doc.NewElement("code")
			d.AppendChild(parent, el)
			appendInline(d, el, i, src)
		case *ast.Link:
			el := doc.NewElement("a", "href", string(i.Destination))
			d.AppendChild(parent, el)
			appendInline(d, el, i, src)
		case *ast.AutoLink:
			el := doc.NewElement("a", "href", string(i.URL(src)))
			d.AppendChild(parent, el)
			appendText(d, el, string(i.Label(src)))
		case *ast.Image:
			el := doc.NewElement("img", "src", string(i.Destination))
			if alt := inlineText(i, src); alt != "" {
				el.Attrs["alt"] = alt
			}
			d.AppendChild(parent, el)
		default:
			appendInline(d, parent, c, src)
		}
	}
}

// appendText normalizes whitespace and coalesces runs into the previous
// text node so a wrapped source paragraph yields one text node.
func appendText(d *doc.Document, parent *doc.Node, txt string) {
	txt = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || r == '\r' {
			return ' '
		}
		return r
	}, txt)
	if txt == "" {
		return
	}
	if n := len(parent.Children); n > 0 {
		if last := parent.Children[n-1]; last.Kind == doc.TextNode {
			d.SetText(last, last.Text+txt)
			return
		}
	}
	d.AppendChild(parent, doc.NewText(txt))
}

func inlineText(n ast.Node, src []byte) string {
	var sb strings.Builder
	var walk func(ast.Node)
	walk = func(m ast.Node) {
		if t, ok := m.(*ast.Text); ok {
			sb.Write(t.Segment.Value(src))
		}
		for c := m.FirstChild(); c != nil; c = c.NextSibling() {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
