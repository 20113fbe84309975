package markdown

import (
	"testing"

	"tableflip.dev/marker/pkg/doc"
)

const sample = `# Field Theory

James *Clerk* Maxwell unified
electricity and magnetism.

> A change in the field
> propagates at c.

- gauss
- faraday

![diagram](field.png)
`

func TestParseBlockStructure(t *testing.T) {
	d := Parse([]byte(sample))

	cases := []struct {
		path string
		tag  string
	}{
		{"/body[0]/h1[0]", "h1"},
		{"/body[0]/p[0]", "p"},
		{"/body[0]/blockquote[0]", "blockquote"},
		{"/body[0]/ul[0]", "ul"},
		{"/body[0]/ul[0]/li[0]", "li"},
		{"/body[0]/ul[0]/li[1]", "li"},
		{"/body[0]/p[1]", "p"},
	}
	for _, tc := range cases {
		n := d.Resolve(tc.path)
		if n == nil {
			t.Fatalf("path %s did not resolve", tc.path)
		}
		if n.Tag != tc.tag {
			t.Fatalf("path %s resolved to <%s>, want <%s>", tc.path, n.Tag, tc.tag)
		}
	}
}

func TestParseInlineAndSoftBreaks(t *testing.T) {
	d := Parse([]byte(sample))

	p := d.Resolve("/body[0]/p[0]")
	if p == nil {
		t.Fatalf("paragraph did not resolve")
	}
	if got := doc.TotalTextLength(p); got != len([]rune("James Clerk Maxwell unified electricity and magnetism.")) {
		t.Fatalf("paragraph text length = %d", got)
	}
	// The soft line break collapses to a space inside one text node.
	if len(p.Children) != 3 {
		t.Fatalf("paragraph has %d children, want text + em + text", len(p.Children))
	}
	em := p.Children[1]
	if em.Tag != "em" || doc.TotalTextLength(em) != 5 {
		t.Fatalf("emphasis child = %+v", em)
	}
}

func TestParseImageBecomesEmbed(t *testing.T) {
	d := Parse([]byte(sample))

	img := d.Resolve("/body[0]/p[1]/img[0]")
	if img == nil {
		t.Fatalf("image did not resolve")
	}
	if img.Attr("src") != "field.png" {
		t.Fatalf("img src = %q", img.Attr("src"))
	}
	if img.Attr("alt") != "diagram" {
		t.Fatalf("img alt = %q", img.Attr("alt"))
	}
}

func TestParseCodeBlockLines(t *testing.T) {
	d := Parse([]byte("```\ncurl -s localhost\nexit 0\n```\n"))

	pre := d.Resolve("/body[0]/pre[0]")
	if pre == nil {
		t.Fatalf("code block did not resolve")
	}
	if len(pre.Children) != 2 {
		t.Fatalf("code block has %d lines, want 2", len(pre.Children))
	}
	if got := pre.Children[0].Children[0].Text; got != "curl -s localhost" {
		t.Fatalf("first line = %q", got)
	}
}
