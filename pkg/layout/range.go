package layout

import "tableflip.dev/marker/pkg/doc"

// RangeRects returns the client rectangles covering the text range
// [start, end], one per line fragment plus any inline embed lying inside
// the range, in document order. Reversed ranges are swapped. A nil result
// means the range does not intersect the current layout (detached nodes,
// skipped subtrees); callers fall back to coarser geometry.
func (e *Engine) RangeRects(start, end doc.Position) []Rect {
	e.ensure()
	if !start.Valid() || !end.Valid() {
		return nil
	}
	if doc.ComparePositions(e.Doc.Root(), start, end) > 0 {
		start, end = end, start
	}

	order := make(map[*doc.Node]int)
	for i, t := range doc.TextNodes(e.Doc.Root()) {
		order[t] = i
	}
	si, ok := order[start.Node]
	if !ok {
		return nil
	}
	ei, ok := order[end.Node]
	if !ok {
		return nil
	}

	var rects []Rect
	inside := false
	for _, it := range e.items {
		if it.kind == itemEmbed {
			if inside {
				rects = append(rects, it.rect)
			}
			continue
		}
		idx, ok := order[it.node]
		if !ok {
			continue
		}
		if idx < si || (idx == si && it.end <= start.Offset) {
			continue
		}
		if idx > ei || (idx == ei && it.start >= end.Offset) {
			break
		}
		r := it.rect
		if idx == si && start.Offset > it.start {
			r = e.clipLeft(it, start.Offset, r)
		}
		if idx == ei && end.Offset < it.end {
			r = e.clipRight(it, end.Offset, r)
		}
		inside = true
		if !r.Empty() {
			rects = append(rects, r)
		}
		if idx == ei && it.end >= end.Offset {
			break
		}
	}
	if !inside {
		return nil
	}
	return rects
}

// clipLeft trims the fragment rect so it starts at the given rune offset.
func (e *Engine) clipLeft(it item, offset int, r Rect) Rect {
	if offset <= it.start {
		return r
	}
	w := e.runWidth(it.node, it.start, offset)
	r.X += w
	r.W -= w
	return r
}

// clipRight trims the fragment rect so it ends at the given rune offset.
// The rect may already be left-clipped; a range collapsing to nothing ends
// up empty and is dropped by the caller.
func (e *Engine) clipRight(it item, offset int, r Rect) Rect {
	if offset >= it.end {
		return r
	}
	r.W -= e.runWidth(it.node, clampOffset(offset, it.start, it.end), it.end)
	return r
}

func clampOffset(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// runWidth measures the pixel width of runes [from, to) of a text node.
func (e *Engine) runWidth(n *doc.Node, from, to int) int {
	runes := []rune(n.Text)
	from = clampOffset(from, 0, len(runes))
	to = clampOffset(to, 0, len(runes))
	w := 0
	for _, r := range runes[from:to] {
		w += runeW(r, e.Metrics.CellWidth)
	}
	return w
}

// CaretAtPoint hit-tests the point against text fragments under el and
// returns the nearest rune boundary with its caret rectangle. ok is false
// when no fragment of el covers the point; callers probe a small ring of
// nearby offsets before giving up.
func (e *Engine) CaretAtPoint(el *doc.Node, x, y int) (doc.Position, Rect, bool) {
	e.ensure()
	for _, it := range e.items {
		if it.kind != itemText || !el.Contains(it.node) {
			continue
		}
		r := it.rect
		if y < r.Y || y >= r.Bottom() || x < r.X || x > r.Right() {
			continue
		}
		runes := []rune(it.node.Text)
		cx := r.X
		off := it.end
		for i := it.start; i < it.end && i < len(runes); i++ {
			w := runeW(runes[i], e.Metrics.CellWidth)
			if x < cx+w/2+1 {
				off = i
				break
			}
			cx += w
		}
		return doc.Position{Node: it.node, Offset: off},
			Rect{X: cx, Y: r.Y, W: 1, H: r.H}, true
	}
	return doc.Position{}, Rect{}, false
}

// BoundingBox returns the box of el, or the union of its laid-out content
// when el itself has no block box. ok is false when nothing of el was laid
// out at all.
func (e *Engine) BoundingBox(el *doc.Node) (Rect, bool) {
	e.ensure()
	if r, ok := e.boxes[el]; ok && !r.Empty() {
		return r, true
	}
	var union Rect
	found := false
	for _, it := range e.items {
		if !el.Contains(it.node) {
			continue
		}
		union = union.Union(it.rect)
		found = true
	}
	return union, found
}

// ElementAt returns the deepest element whose box contains the point, or
// nil. Skipped subtrees are invisible to hit-testing.
func (e *Engine) ElementAt(x, y int) *doc.Node {
	e.ensure()
	var hit *doc.Node
	var walk func(n *doc.Node)
	walk = func(n *doc.Node) {
		if n.Kind != doc.ElementNode || e.skip(n) {
			return
		}
		if r, ok := e.boxes[n]; ok && r.Contains(x, y) {
			hit = n
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(e.Doc.Root())
	return hit
}

// Fragments returns the laid-out text fragments in document order. The
// terminal host draws the page from these.
func (e *Engine) Fragments() []Fragment {
	e.ensure()
	out := make([]Fragment, 0, len(e.items))
	for _, it := range e.items {
		if it.kind != itemText {
			continue
		}
		out = append(out, Fragment{Node: it.node, Start: it.start, End: it.end, Rect: it.rect})
	}
	return out
}

// Embed is an inline embed placement.
type Embed struct {
	Node *doc.Node
	Rect Rect
}

// Embeds returns inline embed placements in document order.
func (e *Engine) Embeds() []Embed {
	e.ensure()
	var out []Embed
	for _, it := range e.items {
		if it.kind == itemEmbed {
			out = append(out, Embed{Node: it.node, Rect: it.rect})
		}
	}
	return out
}
