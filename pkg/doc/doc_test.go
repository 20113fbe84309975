package doc

import "testing"

func buildPage() (*Document, *Node, *Node) {
	body := NewElement("body")
	d := New(body)
	p1 := NewElement("p")
	p2 := NewElement("p")
	d.AppendChild(body, p1)
	d.AppendChild(body, p2)
	d.AppendChild(p1, NewText("James Clerk Maxwell"))
	d.AppendChild(p2, NewText("was a Scottish physicist"))
	return d, p1, p2
}

func TestPathRoundTrip(t *testing.T) {
	d, p1, p2 := buildPage()
	for _, el := range []*Node{p1, p2, d.Root()} {
		path := PathOf(el)
		if path == "" {
			t.Fatalf("empty path for %q", el.Tag)
		}
		if got := d.Resolve(path); got != el {
			t.Fatalf("Resolve(%q) = %v, want original element", path, got)
		}
	}
}

func TestPathIndexSkipsOtherTags(t *testing.T) {
	d, _, p2 := buildPage()
	// An inserted div between the paragraphs must not shift p indexes.
	d.InsertBefore(d.Root(), NewElement("div"), p2)
	if got := d.Resolve("/body[0]/p[1]"); got != p2 {
		t.Fatalf("p[1] resolved to %v after div insertion", got)
	}
}

func TestResolveMissingReturnsNil(t *testing.T) {
	d, _, _ := buildPage()
	for _, path := range []string{"", "/body[0]/p[9]", "/div[0]", "/body[0]/p[x]"} {
		if got := d.Resolve(path); got != nil {
			t.Fatalf("Resolve(%q) = %v, want nil", path, got)
		}
	}
}

func TestMutationObserver(t *testing.T) {
	d, p1, _ := buildPage()
	var got []Mutation
	d.Observe(func(m Mutation) { got = append(got, m) })

	span := NewElement("span")
	d.AppendChild(p1, span)
	d.SetAttr(span, "class", "note")
	d.RemoveChild(p1, span)

	if len(got) != 3 {
		t.Fatalf("observed %d mutations, want 3", len(got))
	}
	if got[0].Kind != ChildList || len(got[0].Added) != 1 {
		t.Fatalf("first mutation = %+v, want childlist add", got[0])
	}
	if got[1].Kind != Attribute || got[1].Attr != "class" {
		t.Fatalf("second mutation = %+v, want class attribute", got[1])
	}
	if got[2].Kind != ChildList || len(got[2].Removed) != 1 {
		t.Fatalf("third mutation = %+v, want childlist remove", got[2])
	}
}

func TestPositionAtWalksSiblingTextNodes(t *testing.T) {
	d := New(NewElement("body"))
	p := NewElement("p")
	d.AppendChild(d.Root(), p)
	a := NewText("James ")
	em := NewElement("em")
	b := NewText("Clerk")
	c := NewText(" Maxwell")
	d.AppendChild(p, a)
	d.AppendChild(p, em)
	d.AppendChild(em, b)
	d.AppendChild(p, c)

	pos, ok := PositionAt(p, 8)
	if !ok {
		t.Fatalf("PositionAt failed")
	}
	if pos.Node != b || pos.Offset != 2 {
		t.Fatalf("offset 8 mapped to (%q, %d), want (em text, 2)", pos.Node.Text, pos.Offset)
	}
	if got := CanonicalOffset(p, pos); got != 8 {
		t.Fatalf("CanonicalOffset round-trip = %d, want 8", got)
	}
}

func TestStartPositionAtSnapsForwardAtBoundaries(t *testing.T) {
	d := New(NewElement("body"))
	p := NewElement("p")
	d.AppendChild(d.Root(), p)
	a := NewText("James ")
	em := NewElement("em")
	b := NewText("Clerk")
	d.AppendChild(p, a)
	d.AppendChild(p, em)
	d.AppendChild(em, b)

	// Offset 6 sits on the node boundary: a range start belongs to the
	// node beginning there, a range end to the tail of the earlier one.
	start, ok := StartPositionAt(p, 6)
	if !ok {
		t.Fatalf("StartPositionAt failed")
	}
	if start.Node != b || start.Offset != 0 {
		t.Fatalf("start = (%q, %d), want (Clerk, 0)", start.Node.Text, start.Offset)
	}
	end, _ := PositionAt(p, 6)
	if end.Node != a || end.Offset != 6 {
		t.Fatalf("end = (%q, %d), want (James , 6)", end.Node.Text, end.Offset)
	}

	// Past the last node both resolutions clamp to its end.
	tail, _ := StartPositionAt(p, 11)
	if tail.Node != b || tail.Offset != 5 {
		t.Fatalf("tail = (%q, %d), want (Clerk, 5)", tail.Node.Text, tail.Offset)
	}
}

func TestPositionAtClamps(t *testing.T) {
	_, p1, _ := buildPage()
	pos, ok := PositionAt(p1, 999)
	if !ok {
		t.Fatalf("PositionAt failed")
	}
	if pos.Offset != pos.Node.Length() {
		t.Fatalf("out-of-bounds offset clamped to %d, want node end %d", pos.Offset, pos.Node.Length())
	}
	if _, ok := PositionAt(NewElement("p"), 0); ok {
		t.Fatalf("PositionAt on empty element should fail")
	}
}

func TestSelectionTextAcrossNodes(t *testing.T) {
	d, p1, p2 := buildPage()
	start, _ := PositionAt(p1, 6)
	end, _ := PositionAt(p2, 5)
	sel := d.Selection()
	sel.SetRange(end, start) // reversed on purpose
	got := sel.Text(d.Root())
	want := "Clerk Maxwellwas a"
	if got != want {
		t.Fatalf("selection text = %q, want %q", got, want)
	}
	s, e := sel.Ordered(d.Root())
	if s != start || e != end {
		t.Fatalf("Ordered did not swap reversed range")
	}
}
