package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"tableflip.dev/marker/pkg/doc"
	"tableflip.dev/marker/pkg/highlight"
	"tableflip.dev/marker/pkg/layout"
	"tableflip.dev/marker/pkg/overlay"
	"tableflip.dev/marker/pkg/tui/theme"
)

type cellInline uint8

const (
	inlineText cellInline = iota
	inlineHeading
	inlineEmphasis
	inlineStrong
	inlineCode
	inlineLink
	inlineBlockquote
	inlineEmbed
)

// cell is one terminal cell of the rendered page. Wide runes occupy their
// cell plus continuation cells that render nothing.
type cell struct {
	r       rune
	cont    bool
	inline  cellInline
	bg      string
	sel     bool
	hover   bool
	handle  bool
	pending bool
}

// pageView draws the laid-out document plus overlay state into styled
// terminal lines. Geometry comes straight from the layout engine and the
// overlay renderer; one document pixel line of 16 maps to one terminal row,
// 8 pixels to one column.
type pageView struct {
	theme theme.PageTheme

	lay  *layout.Engine
	rend *overlay.Renderer
}

func (pv *pageView) render(recs []*highlight.Record, selectedID string, hover *doc.Node, pending []layout.Rect) string {
	m := pv.lay.Metrics
	cols := pv.lay.Viewport().Width / m.CellWidth
	if cols < 1 {
		cols = 1
	}
	rows := (pv.lay.Height() + m.LineHeight - 1) / m.LineHeight
	if rows < 1 {
		rows = 1
	}

	grid := make([][]cell, rows)
	for i := range grid {
		grid[i] = make([]cell, cols)
		for j := range grid[i] {
			grid[i][j].r = ' '
		}
	}

	pv.placeText(grid)
	pv.placeEmbeds(grid)
	pv.placeBoxes(grid, recs, selectedID)
	pv.placeHover(grid, hover)
	pv.placePending(grid, pending)
	pv.placeHandles(grid)

	var b strings.Builder
	for i, row := range grid {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(pv.renderRow(row))
	}
	return b.String()
}

func (pv *pageView) placeText(grid [][]cell) {
	m := pv.lay.Metrics
	for _, frag := range pv.lay.Fragments() {
		row := frag.Rect.Y / m.LineHeight
		col := frag.Rect.X / m.CellWidth
		inline := classifyInline(frag.Node)
		runes := []rune(frag.Node.Text)
		for i := frag.Start; i < frag.End && i < len(runes); i++ {
			r := runes[i]
			w := runewidth.RuneWidth(r)
			if w <= 0 {
				w = 1
			}
			if c := cellAt(grid, row, col); c != nil {
				c.r = r
				c.inline = inline
			}
			for k := 1; k < w; k++ {
				if c := cellAt(grid, row, col+k); c != nil {
					c.cont = true
					c.inline = inline
				}
			}
			col += w
		}
	}
}

func (pv *pageView) placeEmbeds(grid [][]cell) {
	m := pv.lay.Metrics
	for _, em := range pv.lay.Embeds() {
		row := em.Rect.Y / m.LineHeight
		col := em.Rect.X / m.CellWidth
		label := em.Node.Attr("alt")
		if label == "" {
			label = em.Node.Attr("src")
		}
		label = "▨ " + label
		maxCols := em.Rect.W / m.CellWidth
		for i, r := range []rune(label) {
			if i >= maxCols {
				break
			}
			if c := cellAt(grid, row, col+i); c != nil {
				c.r = r
				c.inline = inlineEmbed
			}
		}
	}
}

func (pv *pageView) placeBoxes(grid [][]cell, recs []*highlight.Record, selectedID string) {
	for _, b := range pv.rend.Boxes() {
		color := highlight.DefaultColor
		if rec := recordFor(recs, b); rec != nil {
			color = rec.ResolvedColor()
		}
		sel := selectedID != "" && b.HighlightID == selectedID
		r0, r1, c0, c1 := pv.boxSpan(b.Rect)
		for row := r0; row <= r1; row++ {
			for col := c0; col <= c1; col++ {
				if c := cellAt(grid, row, col); c != nil {
					c.bg = color
					c.sel = sel
				}
			}
		}
	}
}

// boxSpan converts a padded overlay rect back to the cell span of its
// content.
func (pv *pageView) boxSpan(r layout.Rect) (r0, r1, c0, c1 int) {
	m := pv.lay.Metrics
	r0 = (r.Y + overlay.Padding) / m.LineHeight
	r1 = (r.Bottom() - overlay.Padding - 1) / m.LineHeight
	c0 = (r.X + overlay.Padding) / m.CellWidth
	c1 = (r.Right() - overlay.Padding - 1) / m.CellWidth
	return r0, r1, c0, c1
}

func recordFor(recs []*highlight.Record, b overlay.Box) *highlight.Record {
	if b.HighlightID != "" {
		for _, rec := range recs {
			if rec.ID == b.HighlightID {
				return rec
			}
		}
		return nil
	}
	if b.Index >= 0 && b.Index < len(recs) {
		return recs[b.Index]
	}
	return nil
}

func (pv *pageView) placeHover(grid [][]cell, hover *doc.Node) {
	if hover == nil {
		return
	}
	bb, ok := pv.lay.BoundingBox(hover)
	if !ok || bb.Empty() {
		return
	}
	m := pv.lay.Metrics
	r0 := bb.Y / m.LineHeight
	r1 := (bb.Bottom() - 1) / m.LineHeight
	c0 := bb.X / m.CellWidth
	c1 := (bb.Right() - 1) / m.CellWidth
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			if c := cellAt(grid, row, col); c != nil && c.bg == "" {
				c.hover = true
			}
		}
	}
}

// placePending marks the live text-selection rects, drawn reversed so a
// not-yet-committed selection reads differently from a stored highlight.
func (pv *pageView) placePending(grid [][]cell, rects []layout.Rect) {
	m := pv.lay.Metrics
	for _, r := range rects {
		if r.Empty() {
			continue
		}
		row := r.Y / m.LineHeight
		c0 := r.X / m.CellWidth
		c1 := (r.Right() - 1) / m.CellWidth
		for col := c0; col <= c1; col++ {
			if c := cellAt(grid, row, col); c != nil {
				c.pending = true
			}
		}
	}
}

func (pv *pageView) placeHandles(grid [][]cell) {
	m := pv.lay.Metrics
	for _, edge := range []overlay.Edge{overlay.EdgeStart, overlay.EdgeEnd} {
		r, ok := pv.rend.HandleRect(edge)
		if !ok {
			continue
		}
		row := r.Y / m.LineHeight
		col := (r.X + 1) / m.CellWidth
		if c := cellAt(grid, row, col); c != nil {
			c.r = '▎'
			c.cont = false
			c.handle = true
		}
	}
}

func cellAt(grid [][]cell, row, col int) *cell {
	if row < 0 || row >= len(grid) {
		return nil
	}
	if col < 0 || col >= len(grid[row]) {
		return nil
	}
	return &grid[row][col]
}

var inlineTags = map[string]cellInline{
	"em": inlineEmphasis, "strong": inlineStrong,
	"code": inlineCode, "pre": inlineCode,
	"a":  inlineLink,
	"h1": inlineHeading, "h2": inlineHeading, "h3": inlineHeading,
	"h4": inlineHeading, "h5": inlineHeading, "h6": inlineHeading,
	"blockquote": inlineBlockquote,
}

// classifyInline picks the style of a text node from its nearest styled
// ancestor.
func classifyInline(n *doc.Node) cellInline {
	for m := n; m != nil; m = m.Parent {
		if m.Kind != doc.ElementNode {
			continue
		}
		if s, ok := inlineTags[m.Tag]; ok {
			return s
		}
	}
	return inlineText
}

// styleKey folds the cell state drawn with one style run.
type styleKey struct {
	inline  cellInline
	bg      string
	sel     bool
	hover   bool
	handle  bool
	pending bool
}

func (pv *pageView) renderRow(row []cell) string {
	var b strings.Builder
	var run []rune
	var cur styleKey
	started := false

	flush := func() {
		if len(run) == 0 {
			return
		}
		b.WriteString(pv.styleFor(cur).Render(string(run)))
		run = run[:0]
	}

	for _, c := range row {
		if c.cont {
			continue
		}
		key := styleKey{inline: c.inline, bg: c.bg, sel: c.sel, hover: c.hover, handle: c.handle, pending: c.pending}
		if !started || key != cur {
			flush()
			cur = key
			started = true
		}
		run = append(run, c.r)
	}
	flush()
	return strings.TrimRight(b.String(), " ")
}

func (pv *pageView) styleFor(key styleKey) lipgloss.Style {
	var s lipgloss.Style
	switch key.inline {
	case inlineHeading:
		s = pv.theme.Heading
	case inlineEmphasis:
		s = pv.theme.Emphasis
	case inlineStrong:
		s = pv.theme.Strong
	case inlineCode:
		s = pv.theme.Code
	case inlineLink:
		s = pv.theme.Link
	case inlineBlockquote:
		s = pv.theme.Blockquote
	case inlineEmbed:
		s = pv.theme.Embed
	default:
		s = pv.theme.Text
	}
	if key.handle {
		return s.Foreground(lipgloss.Color("212")).Bold(true)
	}
	if key.pending {
		return s.Reverse(true)
	}
	if key.bg != "" {
		s = s.Background(lipgloss.Color(key.bg))
		// Keep highlighted text readable against its own color.
		if overlay.AccentForBackground(key.bg) == overlay.AccentLight {
			s = s.Foreground(lipgloss.Color("255"))
		} else {
			s = s.Foreground(lipgloss.Color("235"))
		}
		if key.sel {
			s = s.Bold(true).Underline(true)
		}
		return s
	}
	if key.hover {
		return s.Background(lipgloss.Color("237"))
	}
	return s
}
