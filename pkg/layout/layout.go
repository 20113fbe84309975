// Package layout measures a doc tree into pixel-space boxes: block boxes,
// wrapped text line fragments, and inline embeds. It is the geometry source
// for highlight rect planning and caret hit-testing.
//
// The model is deterministic and intentionally plain: blocks stack
// vertically, inline content wraps greedily at word boundaries, and every
// glyph is measured with go-runewidth against a fixed cell grid. Same tree,
// metrics, and viewport always produce the same rectangles.
package layout

import (
	"github.com/mattn/go-runewidth"

	"tableflip.dev/marker/pkg/doc"
)

// Rect is an axis-aligned rectangle in document pixel coordinates.
type Rect struct {
	X, Y, W, H int
}

// Right returns the x coordinate just past the rectangle.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the y coordinate just past the rectangle.
func (r Rect) Bottom() int { return r.Y + r.H }

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Empty reports a zero-area rectangle.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Union returns the smallest rectangle covering both r and o.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x := minInt(r.X, o.X)
	y := minInt(r.Y, o.Y)
	return Rect{
		X: x,
		Y: y,
		W: maxInt(r.Right(), o.Right()) - x,
		H: maxInt(r.Bottom(), o.Bottom()) - y,
	}
}

// Metrics fixes the cell grid the layout measures against.
type Metrics struct {
	CellWidth  int
	LineHeight int
}

// DefaultMetrics returns the 8x16 grid used by the terminal host.
func DefaultMetrics() Metrics { return Metrics{CellWidth: 8, LineHeight: 16} }

// Viewport carries the layout width and the host scroll position. ScrollY
// does not affect document coordinates; it is kept here so hosts can
// translate pointer events.
type Viewport struct {
	Width   int
	ScrollY int
}

// Fragment is one laid-out run of a text node: the runes [Start,End) drawn
// inside Rect on a single visual line.
type Fragment struct {
	Node       *doc.Node
	Start, End int
	Rect       Rect
}

type itemKind int

const (
	itemText itemKind = iota
	itemEmbed
)

// item is a fragment or an inline embed box, in document order.
type item struct {
	kind       itemKind
	node       *doc.Node
	start, end int
	rect       Rect
}

// Engine lays out one document and caches the result until the document
// revision or viewport changes.
type Engine struct {
	Doc     *doc.Document
	Metrics Metrics

	// Skip excludes subtrees from layout. The highlight engine points this
	// at its ownership predicate so overlay elements never shift the page.
	Skip func(*doc.Node) bool

	viewport Viewport
	items    []item
	boxes    map[*doc.Node]Rect
	height   int

	laidRev   uint64
	laidWidth int
	dirty     bool
}

// New builds a layout engine for d.
func New(d *doc.Document, m Metrics) *Engine {
	if m.CellWidth <= 0 || m.LineHeight <= 0 {
		m = DefaultMetrics()
	}
	return &Engine{Doc: d, Metrics: m, viewport: Viewport{Width: 80 * m.CellWidth}, dirty: true}
}

// SetViewport updates layout bounds and scroll position.
func (e *Engine) SetViewport(v Viewport) {
	if v.Width <= 0 {
		v.Width = e.Metrics.CellWidth
	}
	if v.Width != e.viewport.Width {
		e.dirty = true
	}
	e.viewport = v
}

// Viewport returns the current viewport.
func (e *Engine) Viewport() Viewport { return e.viewport }

// Height returns the total laid-out document height.
func (e *Engine) Height() int {
	e.ensure()
	return e.height
}

func (e *Engine) ensure() {
	if !e.dirty && e.laidRev == e.Doc.Revision() && e.laidWidth == e.viewport.Width {
		return
	}
	e.reflow()
	e.laidRev = e.Doc.Revision()
	e.laidWidth = e.viewport.Width
	e.dirty = false
}

var blockTags = map[string]bool{
	"body": true, "div": true, "p": true, "blockquote": true,
	"ul": true, "ol": true, "li": true, "pre": true, "hr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

func isBlock(n *doc.Node) bool {
	return n.Kind == doc.ElementNode && blockTags[n.Tag]
}

func isEmbed(n *doc.Node) bool {
	return n.Kind == doc.ElementNode && n.Tag == "img"
}

func (e *Engine) skip(n *doc.Node) bool {
	return e.Skip != nil && e.Skip(n)
}

func (e *Engine) reflow() {
	e.items = e.items[:0]
	e.boxes = make(map[*doc.Node]Rect)
	root := e.Doc.Root()
	bottom := e.layoutBlock(root, 0, 0, e.viewport.Width)
	e.boxes[root] = Rect{X: 0, Y: 0, W: e.viewport.Width, H: bottom}
	e.height = bottom
}

// layoutBlock lays out el starting at (x, y) with the given width and
// returns the y coordinate below it.
func (e *Engine) layoutBlock(el *doc.Node, x, y, width int) int {
	if e.skip(el) {
		return y
	}
	indent := 0
	switch el.Tag {
	case "blockquote", "li", "ul", "ol":
		indent = 2 * e.Metrics.CellWidth
	}
	innerX := x + indent
	innerW := width - indent
	if innerW < e.Metrics.CellWidth {
		innerW = e.Metrics.CellWidth
	}

	top := y
	if hasBlockChildren(el) {
		for _, c := range el.Children {
			if e.skip(c) {
				continue
			}
			if isBlock(c) {
				y = e.layoutBlock(c, innerX, y, innerW)
			} else {
				y = e.layoutInline(collectInline(c, e.skip), innerX, y, innerW)
			}
		}
	} else {
		y = e.layoutInline(collectInline(el, e.skip), innerX, y, innerW)
	}
	if el.Tag == "hr" && y == top {
		y += e.Metrics.LineHeight
	}
	e.boxes[el] = Rect{X: x, Y: top, W: width, H: y - top}
	return y
}

func hasBlockChildren(el *doc.Node) bool {
	for _, c := range el.Children {
		if isBlock(c) {
			return true
		}
	}
	return false
}

// collectInline flattens the inline content under el (text nodes and embeds)
// in document order, skipping excluded subtrees.
func collectInline(el *doc.Node, skip func(*doc.Node) bool) []*doc.Node {
	var out []*doc.Node
	var walk func(n *doc.Node)
	walk = func(n *doc.Node) {
		if skip != nil && skip(n) {
			return
		}
		if n.Kind == doc.TextNode || isEmbed(n) {
			out = append(out, n)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	if el.Kind == doc.TextNode || isEmbed(el) {
		out = append(out, el)
	} else {
		for _, c := range el.Children {
			walk(c)
		}
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func runeW(r rune, cell int) int {
	w := runewidth.RuneWidth(r)
	if w <= 0 {
		w = 1
	}
	return w * cell
}
