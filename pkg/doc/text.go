package doc

import "unicode/utf8"

// Position addresses a point inside a text node. Offset counts runes from
// the start of the node's content.
type Position struct {
	Node   *Node
	Offset int
}

// Valid reports whether the position points into a text node.
func (p Position) Valid() bool {
	return p.Node != nil && p.Node.Kind == TextNode
}

// Length returns the rune length of a text node's content, 0 for elements.
func (n *Node) Length() int {
	if n == nil || n.Kind != TextNode {
		return 0
	}
	return utf8.RuneCountInString(n.Text)
}

// TextNodes returns all text descendants of el in document order.
func TextNodes(el *Node) []*Node {
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.Kind == TextNode {
			out = append(out, n)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	if el != nil {
		walk(el)
	}
	return out
}

// TotalTextLength sums the rune lengths of all text descendants of el.
func TotalTextLength(el *Node) int {
	total := 0
	for _, t := range TextNodes(el) {
		total += t.Length()
	}
	return total
}

// PositionAt maps a canonical character offset within el to a concrete
// (text node, local offset) pair, walking text descendants in document
// order and accumulating lengths until the offset is covered. An offset on
// the boundary between two text nodes resolves to the end of the earlier
// node, which is what an end position wants. Out-of-bounds offsets clamp to
// the nearest boundary. ok is false only when el has no text descendants at
// all.
func PositionAt(el *Node, offset int) (Position, bool) {
	nodes := TextNodes(el)
	if len(nodes) == 0 {
		return Position{}, false
	}
	if offset < 0 {
		offset = 0
	}
	consumed := 0
	for _, t := range nodes {
		l := t.Length()
		if consumed+l >= offset {
			return Position{Node: t, Offset: offset - consumed}, true
		}
		consumed += l
	}
	last := nodes[len(nodes)-1]
	return Position{Node: last, Offset: last.Length()}, true
}

// StartPositionAt resolves offset as a range start: a boundary offset snaps
// forward into the node that begins there, so re-resolving a stored start
// lands on the node the selection actually started in rather than at the
// tail of its predecessor.
func StartPositionAt(el *Node, offset int) (Position, bool) {
	nodes := TextNodes(el)
	if len(nodes) == 0 {
		return Position{}, false
	}
	if offset < 0 {
		offset = 0
	}
	consumed := 0
	for _, t := range nodes {
		l := t.Length()
		if consumed+l > offset {
			return Position{Node: t, Offset: offset - consumed}, true
		}
		consumed += l
	}
	last := nodes[len(nodes)-1]
	return Position{Node: last, Offset: last.Length()}, true
}

// CanonicalOffset is the inverse of PositionAt: the character offset of pos
// counted from el's first text descendant. Positions outside el clamp to
// the nearest end.
func CanonicalOffset(el *Node, pos Position) int {
	consumed := 0
	for _, t := range TextNodes(el) {
		if t == pos.Node {
			off := pos.Offset
			if off < 0 {
				off = 0
			}
			if off > t.Length() {
				off = t.Length()
			}
			return consumed + off
		}
		consumed += t.Length()
	}
	return consumed
}

// ComparePositions orders two positions by document position within the tree
// rooted at root: -1 when a precedes b, 0 when equal, 1 when a follows b.
// Positions on nodes outside root sort after everything.
func ComparePositions(root *Node, a, b Position) int {
	if a.Node == b.Node {
		switch {
		case a.Offset < b.Offset:
			return -1
		case a.Offset > b.Offset:
			return 1
		default:
			return 0
		}
	}
	ia, ib := -1, -1
	for i, t := range TextNodes(root) {
		if t == a.Node {
			ia = i
		}
		if t == b.Node {
			ib = i
		}
	}
	switch {
	case ia == ib:
		return 0
	case ib == -1:
		return -1
	case ia == -1:
		return 1
	case ia < ib:
		return -1
	default:
		return 1
	}
}

// TextBetween extracts the document-order text between two positions under
// root. Reversed positions are swapped first.
func TextBetween(root *Node, start, end Position) string {
	if !start.Valid() || !end.Valid() {
		return ""
	}
	if ComparePositions(root, start, end) > 0 {
		start, end = end, start
	}
	var out []rune
	active := false
	for _, t := range TextNodes(root) {
		runes := []rune(t.Text)
		from, to := 0, len(runes)
		if t == start.Node {
			active = true
			from = clampInt(start.Offset, 0, len(runes))
		}
		if !active {
			continue
		}
		if t == end.Node {
			to = clampInt(end.Offset, 0, len(runes))
			if t == start.Node && to < from {
				from, to = to, from
			}
			out = append(out, runes[from:to]...)
			break
		}
		out = append(out, runes[from:to]...)
	}
	return string(out)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
