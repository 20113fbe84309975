package layout

import (
	"testing"

	"tableflip.dev/marker/pkg/doc"
)

func metrics() Metrics { return Metrics{CellWidth: 8, LineHeight: 16} }

func page(text string) (*doc.Document, *doc.Node, *Engine) {
	body := doc.NewElement("body")
	d := doc.New(body)
	p := doc.NewElement("p")
	d.AppendChild(body, p)
	d.AppendChild(p, doc.NewText(text))
	e := New(d, metrics())
	e.SetViewport(Viewport{Width: 20 * 8})
	return d, p, e
}

func TestWrapProducesOneFragmentPerLine(t *testing.T) {
	_, p, e := page("alpha beta gamma delta epsilon zeta eta theta")
	frags := e.Fragments()
	if len(frags) != 3 {
		t.Fatalf("got %d fragments, want 3", len(frags))
	}
	wants := []Rect{
		{X: 0, Y: 0, W: 136, H: 16},
		{X: 0, Y: 16, W: 152, H: 16},
		{X: 0, Y: 32, W: 72, H: 16},
	}
	for i, want := range wants {
		if frags[i].Rect != want {
			t.Fatalf("fragment %d rect = %+v, want %+v", i, frags[i].Rect, want)
		}
	}
	if frags[1].Start != 17 || frags[1].End != 36 {
		t.Fatalf("fragment 1 covers [%d,%d), want [17,36)", frags[1].Start, frags[1].End)
	}
	if got := e.Height(); got != 48 {
		t.Fatalf("document height = %d, want 48", got)
	}
	_ = p
}

func TestIndentedBlockFirstLineStartsAtIndent(t *testing.T) {
	body := doc.NewElement("body")
	d := doc.New(body)
	bq := doc.NewElement("blockquote")
	p := doc.NewElement("p")
	d.AppendChild(body, bq)
	d.AppendChild(bq, p)
	d.AppendChild(p, doc.NewText("alpha beta gamma delta"))
	e := New(d, metrics())
	e.SetViewport(Viewport{Width: 20 * 8})

	frags := e.Fragments()
	if len(frags) != 2 {
		t.Fatalf("got %d fragments, want 2", len(frags))
	}
	for i, f := range frags {
		if f.Rect.X != 16 {
			t.Fatalf("fragment %d starts at x=%d, want indent x=16", i, f.Rect.X)
		}
	}
	if frags[0].Rect.Y != 0 || frags[1].Rect.Y != 16 {
		t.Fatalf("fragment rows = %d, %d, want 0, 16", frags[0].Rect.Y, frags[1].Rect.Y)
	}
}

func TestRangeRectsClipsPartialLines(t *testing.T) {
	_, p, e := page("alpha beta gamma delta epsilon zeta eta theta")
	start, _ := doc.PositionAt(p, 6)  // "beta"
	end, _ := doc.PositionAt(p, 22)   // after "delta"
	rects := e.RangeRects(start, end)
	if len(rects) != 2 {
		t.Fatalf("got %d rects, want 2", len(rects))
	}
	if rects[0].X != 48 || rects[0].W != 136-48 {
		t.Fatalf("first rect = %+v, want clipped to start at x=48", rects[0])
	}
	if rects[1].X != 0 || rects[1].W != 5*8 {
		t.Fatalf("second rect = %+v, want 40px wide at x=0", rects[1])
	}
}

func TestRangeRectsReversedRangeSwaps(t *testing.T) {
	_, p, e := page("alpha beta gamma delta epsilon zeta eta theta")
	start, _ := doc.PositionAt(p, 6)
	end, _ := doc.PositionAt(p, 22)
	fwd := e.RangeRects(start, end)
	rev := e.RangeRects(end, start)
	if len(fwd) != len(rev) {
		t.Fatalf("reversed range produced %d rects, want %d", len(rev), len(fwd))
	}
	for i := range fwd {
		if fwd[i] != rev[i] {
			t.Fatalf("rect %d differs: %+v vs %+v", i, fwd[i], rev[i])
		}
	}
}

func TestInlineEmbedGetsTallRect(t *testing.T) {
	body := doc.NewElement("body")
	d := doc.New(body)
	p := doc.NewElement("p")
	d.AppendChild(body, p)
	d.AppendChild(p, doc.NewText("abc "))
	d.AppendChild(p, doc.NewElement("img", "cols", "4", "rows", "3"))
	d.AppendChild(p, doc.NewText(" xyz"))
	e := New(d, metrics())
	e.SetViewport(Viewport{Width: 40 * 8})

	start, _ := doc.PositionAt(p, 0)
	end, _ := doc.PositionAt(p, 8)
	rects := e.RangeRects(start, end)
	if len(rects) != 3 {
		t.Fatalf("got %d rects, want text+embed+text", len(rects))
	}
	if rects[1].H != 48 {
		t.Fatalf("embed rect height = %d, want 48", rects[1].H)
	}
	if rects[0].H != 16 || rects[2].H != 16 {
		t.Fatalf("text rect heights = %d, %d, want 16", rects[0].H, rects[2].H)
	}
}

func TestCaretAtPointFindsRuneBoundary(t *testing.T) {
	_, p, e := page("alpha beta gamma delta epsilon zeta eta theta")
	pos, caret, ok := e.CaretAtPoint(p, 40, 20)
	if !ok {
		t.Fatalf("no caret at point")
	}
	if pos.Offset != 22 {
		t.Fatalf("caret offset = %d, want 22", pos.Offset)
	}
	if caret.X != 40 || caret.Y != 16 || caret.H != 16 {
		t.Fatalf("caret rect = %+v", caret)
	}
	if _, _, ok := e.CaretAtPoint(p, 500, 20); ok {
		t.Fatalf("caret found right of the line")
	}
}

func TestSkipExcludesSubtreesFromLayout(t *testing.T) {
	d, p, e := page("alpha beta gamma delta epsilon zeta eta theta")
	before := e.Height()
	overlay := doc.NewElement("div", "class", "marker-overlay")
	d.AppendChild(overlay, doc.NewText("should not be measured"))
	e.Skip = func(n *doc.Node) bool { return n.Attr("class") == "marker-overlay" }
	d.AppendChild(d.Root(), overlay)
	if got := e.Height(); got != before {
		t.Fatalf("height changed from %d to %d after overlay insertion", before, got)
	}
	if el := e.ElementAt(4, 4); el != p {
		t.Fatalf("ElementAt(4,4) = %v, want the paragraph", el)
	}
}

func TestBoundingBoxUnionForInlineElement(t *testing.T) {
	body := doc.NewElement("body")
	d := doc.New(body)
	p := doc.NewElement("p")
	em := doc.NewElement("em")
	d.AppendChild(body, p)
	d.AppendChild(p, doc.NewText("one "))
	d.AppendChild(p, em)
	d.AppendChild(em, doc.NewText("two"))
	e := New(d, metrics())
	e.SetViewport(Viewport{Width: 40 * 8})

	r, ok := e.BoundingBox(em)
	if !ok {
		t.Fatalf("no bounding box for inline element")
	}
	if r.X != 32 || r.W != 24 {
		t.Fatalf("inline bounding box = %+v, want x=32 w=24", r)
	}
}
