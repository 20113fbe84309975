package anchor

import (
	"testing"

	"tableflip.dev/marker/pkg/doc"
)

// splitPage builds a paragraph whose text is spread over three text nodes,
// the way inline markup fractures content in real pages.
func splitPage() (*doc.Document, *doc.Node) {
	body := doc.NewElement("body")
	d := doc.New(body)
	p := doc.NewElement("p")
	d.AppendChild(body, p)
	d.AppendChild(p, doc.NewText("James ")) // 6
	em := doc.NewElement("em")
	d.AppendChild(p, em)
	d.AppendChild(em, doc.NewText("Clerk")) // 5
	d.AppendChild(p, doc.NewText(" Maxwell")) // 8, total 19
	return d, p
}

func TestElementResolution(t *testing.T) {
	d, p := splitPage()
	r := Resolver{Doc: d}
	if got := r.Element("/body[0]/p[0]"); got != p {
		t.Fatalf("resolved %v, want the paragraph", got)
	}
	if got := r.Element("/body[0]/blockquote[0]"); got != nil {
		t.Fatalf("missing path resolved to %v, want nil", got)
	}
}

func TestCanonicalRoundTrip(t *testing.T) {
	d, p := splitPage()
	r := Resolver{Doc: d}
	start, end, ok := r.TextRange(p, 6, 11)
	if !ok {
		t.Fatalf("TextRange failed")
	}
	if start.Node.Text != "Clerk" || start.Offset != 0 {
		t.Fatalf("start = (%q, %d), want (Clerk, 0)", start.Node.Text, start.Offset)
	}
	if end.Node.Text != "Clerk" || end.Offset != 5 {
		t.Fatalf("end = (%q, %d), want (Clerk, 5)", end.Node.Text, end.Offset)
	}
	s, e := CanonicalOffsets(p, start, end)
	if s != 6 || e != 11 {
		t.Fatalf("round-trip offsets = (%d, %d), want (6, 11)", s, e)
	}
}

func TestLegacyOffsetsDecode(t *testing.T) {
	body := doc.NewElement("body")
	d := doc.New(body)
	p := doc.NewElement("p")
	d.AppendChild(body, p)
	d.AppendChild(p, doc.NewText("aaaaaaaaaa")) // 10
	d.AppendChild(p, doc.NewText("bbbbbbbbbb")) // 10, total 20

	r := Resolver{Doc: d}
	// Legacy encoder stored totalTextLength + actualOffset.
	start, end, ok := r.TextRange(p, 20+3, 20+7)
	if !ok {
		t.Fatalf("TextRange failed")
	}
	if start.Node.Text != "aaaaaaaaaa" || start.Offset != 3 {
		t.Fatalf("legacy start = (%q, %d), want local offset 3 in first node", start.Node.Text, start.Offset)
	}
	if end.Offset != 7 {
		t.Fatalf("legacy end offset = %d, want 7", end.Offset)
	}
	s, e := CanonicalOffsets(p, start, end)
	if s != 3 || e != 7 {
		t.Fatalf("canonical offsets = (%d, %d), want (3, 7)", s, e)
	}
}

func TestTextRangeClampsOutOfBounds(t *testing.T) {
	d, p := splitPage()
	r := Resolver{Doc: d}
	// One offset below total keeps the pair canonical; the other clamps.
	_, end, ok := r.TextRange(p, 0, 25)
	if !ok {
		t.Fatalf("TextRange failed")
	}
	if end.Node.Text != " Maxwell" || end.Offset != 8 {
		t.Fatalf("end = (%q, %d), want clamp to ( Maxwell, 8)", end.Node.Text, end.Offset)
	}
}

func TestTextRangeFailsOnEmptyElement(t *testing.T) {
	d, _ := splitPage()
	r := Resolver{Doc: d}
	hr := doc.NewElement("hr")
	d.AppendChild(d.Root(), hr)
	if _, _, ok := r.TextRange(hr, 0, 4); ok {
		t.Fatalf("TextRange on empty element should fail")
	}
}
