package engine

import (
	"tableflip.dev/marker/pkg/anchor"
	"tableflip.dev/marker/pkg/doc"
	"tableflip.dev/marker/pkg/highlight"
	"tableflip.dev/marker/pkg/layout"
	"tableflip.dev/marker/pkg/overlay"
)

// Modality tags which input stream a pointer event came from. A drag
// session is bound to the modality that started it and ignores events from
// any other, so interleaved streams cannot corrupt the session.
type Modality int

const (
	ModalityPointer Modality = iota
	ModalityMouse
)

// movedThreshold2 is the squared pixel distance a pointer must travel from
// its down point before an armed session starts dragging.
const movedThreshold2 = 9

// caretProbe is the ring of offsets tried around the pointer when the
// exact point misses every text fragment.
var caretProbe = [][2]int{
	{0, 0},
	{2, 0}, {-2, 0}, {0, 2}, {0, -2},
	{4, 0}, {-4, 0}, {0, 4}, {0, -4},
	{2, 2}, {-2, -2}, {2, -2}, {-2, 2},
}

// dragSession is the state of one handle drag, from pointer-down on a
// handle until pointer-up, cancel, or teardown.
type dragSession struct {
	modality Modality
	edge     overlay.Edge
	rec      *highlight.Record
	el       *doc.Node

	// anchor is the fixed opposite edge; cur tracks the moving edge.
	anchor doc.Position
	cur    doc.Position

	// Pre-drag text snapshot; a commit that reproduces it is a no-op.
	preText string

	downX, downY int
	dragging     bool
	suspended    []*doc.Node
}

// PointerDown arms a drag session when the point lands on a visible resize
// handle of the selected text highlight. Returns true when the event was
// consumed. At most one session exists; a down while one is active tears
// the old session down first, so a missed pointer-up can never wedge the
// handles.
func (e *Engine) PointerDown(m Modality, x, y int) bool {
	if e.drag != nil {
		e.teardownDrag()
		e.doc.Selection().Collapse()
		e.applyPass(e.renderAll)
	}
	edge, ok := e.handleAt(x, y)
	if !ok {
		return false
	}
	rec, _ := e.selectedRecord()
	if rec == nil || rec.Type != highlight.TypeText {
		return false
	}
	el := e.resolver.Element(rec.AnchorPath)
	if el == nil {
		return false
	}
	start, end, ok := e.resolver.TextRange(el, rec.StartOffset, rec.EndOffset)
	if !ok {
		return false
	}
	s := &dragSession{
		modality: m,
		edge:     edge,
		rec:      rec,
		el:       el,
		preText:  doc.TextBetween(e.doc.Root(), start, end),
		downX:    x,
		downY:    y,
	}
	if edge == overlay.EdgeStart {
		s.anchor, s.cur = end, start
	} else {
		s.anchor, s.cur = start, end
	}
	// Arming establishes the native selection anchored at the fixed edge, so
	// the first move extends an existing range instead of creating one.
	e.doc.Selection().SetRange(s.anchor, s.cur)
	e.applyPass(func() {
		s.suspended = e.renderer.SuspendInteraction()
		e.renderer.SetDragging(edge, true)
	})
	e.drag = s
	return true
}

func (e *Engine) handleAt(x, y int) (overlay.Edge, bool) {
	for _, edge := range []overlay.Edge{overlay.EdgeStart, overlay.EdgeEnd} {
		r, ok := e.renderer.HandleRect(edge)
		if !ok {
			continue
		}
		// Handles are thin; give the hit target a little slack.
		if x >= r.X-2 && x <= r.Right()+2 && y >= r.Y && y < r.Bottom() {
			return edge, true
		}
	}
	return 0, false
}

// PointerMove advances an armed or dragging session. Events from another
// modality, or with no session active, are ignored.
func (e *Engine) PointerMove(m Modality, x, y int) {
	s := e.drag
	if s == nil || s.modality != m {
		return
	}
	if !s.dragging {
		dx, dy := x-s.downX, y-s.downY
		if dx*dx+dy*dy <= movedThreshold2 {
			return
		}
		s.dragging = true
	}
	pos, rect, ok := e.probeCaret(s.el, x, y)
	if !ok {
		// Pointer left the text; the edge holds its last good position.
		return
	}
	s.cur = pos
	e.doc.Selection().SetRange(s.anchor, s.cur)
	e.applyPass(func() {
		e.renderer.MoveHandle(s.edge, rect)
	})
}

// probeCaret resolves the caret nearest the point, trying a small ring of
// offsets so a pointer hovering between lines still lands on text.
func (e *Engine) probeCaret(el *doc.Node, x, y int) (doc.Position, layout.Rect, bool) {
	for _, d := range caretProbe {
		if pos, rect, ok := e.lay.CaretAtPoint(el, x+d[0], y+d[1]); ok {
			return pos, rect, true
		}
	}
	return doc.Position{}, layout.Rect{}, false
}

// PointerUp ends the session. A session that never crossed the movement
// threshold, or that collapsed to nothing, discards without writing; a real
// resize rewrites the record's canonical offsets and content, persists, and
// repaints immediately.
func (e *Engine) PointerUp(m Modality, x, y int) {
	s := e.drag
	if s == nil || s.modality != m {
		return
	}
	if s.dragging {
		if pos, _, ok := e.probeCaret(s.el, x, y); ok {
			s.cur = pos
		}
	}
	e.teardownDrag()

	if !s.dragging {
		e.doc.Selection().Collapse()
		e.applyPass(e.renderAll)
		return
	}
	startOff, endOff := anchor.CanonicalOffsets(s.el, s.anchor, s.cur)
	content := doc.TextBetween(e.doc.Root(), s.anchor, s.cur)
	if startOff == endOff || content == s.preText {
		// Collapsed, or the drag wandered and came back: nothing to write.
		e.doc.Selection().Collapse()
		e.applyPass(e.renderAll)
		return
	}

	s.rec.StartOffset = startOff
	s.rec.EndOffset = endOff
	s.rec.Content = content
	e.source.PersistHighlights(e.source.CurrentHighlights())
	e.source.NotifyHighlightsChanged()

	e.doc.Selection().Collapse()
	e.applyPass(e.renderAll)
	e.reopenWidget(x, y)
}

// PointerCancel aborts the session and leaves the record untouched.
func (e *Engine) PointerCancel(m Modality) {
	s := e.drag
	if s == nil || s.modality != m {
		return
	}
	e.teardownDrag()
	e.doc.Selection().Collapse()
	e.applyPass(e.renderAll)
}

// Dragging reports whether a drag session has crossed the movement
// threshold.
func (e *Engine) Dragging() bool {
	return e.drag != nil && e.drag.dragging
}

// teardownDrag restores everything the session suspended. It always runs
// before any rearm or commit side effects.
func (e *Engine) teardownDrag() {
	s := e.drag
	if s == nil {
		return
	}
	e.applyPass(func() {
		e.renderer.RestoreInteraction(s.suspended)
		e.renderer.SetDragging(s.edge, false)
	})
	e.drag = nil
}
