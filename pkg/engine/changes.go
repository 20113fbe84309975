package engine

import (
	"time"

	"tableflip.dev/marker/pkg/doc"
	"tableflip.dev/marker/pkg/layout"
	"tableflip.dev/marker/pkg/overlay"
)

// repaintLoop is the cooperative throttle for full repaint passes. The
// engine never spawns goroutines; when a pass is deferred the host learns
// the remaining delay from Pending and pumps Tick after it elapses.
type repaintLoop struct {
	interval   time.Duration
	last       time.Time
	hasRun     bool
	pending    bool
	suppressed bool
}

// onMutation is the document observer. Mutations raised while a repaint
// pass is applying, and mutations that only touch engine-owned elements,
// never schedule work.
func (e *Engine) onMutation(m doc.Mutation) {
	if e.loop.suppressed {
		return
	}
	if relevantMutation(m) {
		e.requestRepaint()
	}
}

// relevantMutation filters out the engine's own DOM writes. An attribute
// change on an owned element is noise; a child-list change is noise when
// every moved node is owned, even if the parent (typically the document
// root) is not.
func relevantMutation(m doc.Mutation) bool {
	if overlay.Owned(m.Target) {
		return false
	}
	if m.Kind != doc.ChildList {
		return true
	}
	for _, n := range m.Added {
		if !overlay.Owned(n) {
			return true
		}
	}
	for _, n := range m.Removed {
		if !overlay.Owned(n) {
			return true
		}
	}
	return len(m.Added) == 0 && len(m.Removed) == 0
}

// Resize updates the layout viewport and schedules a repaint through the
// same throttle as document mutations.
func (e *Engine) Resize(width int) {
	v := e.lay.Viewport()
	if v.Width == width {
		return
	}
	v.Width = width
	e.lay.SetViewport(v)
	e.requestRepaint()
}

// Scroll records the new scroll offset and schedules a repaint.
func (e *Engine) Scroll(y int) {
	v := e.lay.Viewport()
	if v.ScrollY == y {
		return
	}
	v.ScrollY = y
	e.lay.SetViewport(v)
	e.requestRepaint()
}

// requestRepaint runs a pass now if the throttle window has elapsed,
// otherwise marks one pending for the next Tick.
func (e *Engine) requestRepaint() {
	now := e.clock()
	if !e.loop.hasRun || now.Sub(e.loop.last) >= e.loop.interval {
		e.runRepaint(now)
		return
	}
	e.loop.pending = true
}

// Tick runs a deferred pass once its delay has elapsed. Hosts call it from
// their timer; calling early or spuriously is harmless.
func (e *Engine) Tick() {
	if !e.loop.pending {
		return
	}
	now := e.clock()
	if now.Sub(e.loop.last) < e.loop.interval {
		return
	}
	e.runRepaint(now)
}

// Pending reports whether a repaint is deferred and how long until it is
// due.
func (e *Engine) Pending() (bool, time.Duration) {
	if !e.loop.pending {
		return false, 0
	}
	rest := e.loop.interval - e.clock().Sub(e.loop.last)
	if rest < 0 {
		rest = 0
	}
	return true, rest
}

func (e *Engine) runRepaint(now time.Time) {
	e.loop.last = now
	e.loop.hasRun = true
	e.loop.pending = false
	e.applyPass(e.renderAll)
	if e.drag != nil {
		e.syncDragAfterRepaint()
	}
}

// syncDragAfterRepaint keeps an active drag consistent when the page moved
// under it: the handle tracks the re-resolved caret of the moving edge.
func (e *Engine) syncDragAfterRepaint() {
	s := e.drag
	if s == nil || !s.dragging {
		return
	}
	if car, ok := e.caretRectAt(s.cur); ok {
		e.applyPass(func() { e.renderer.MoveHandle(s.edge, car) })
	}
}

// caretRectAt recovers the on-screen caret rect of a resolved position by
// measuring the adjacent rune; collapsed ranges have no client rects of
// their own.
func (e *Engine) caretRectAt(pos doc.Position) (layout.Rect, bool) {
	if !pos.Valid() {
		return layout.Rect{}, false
	}
	if pos.Offset < pos.Node.Length() {
		next := doc.Position{Node: pos.Node, Offset: pos.Offset + 1}
		if rects := e.lay.RangeRects(pos, next); len(rects) > 0 {
			r := rects[0]
			return layout.Rect{X: r.X, Y: r.Y, W: 1, H: r.H}, true
		}
		return layout.Rect{}, false
	}
	if pos.Offset > 0 {
		prev := doc.Position{Node: pos.Node, Offset: pos.Offset - 1}
		if rects := e.lay.RangeRects(prev, pos); len(rects) > 0 {
			r := rects[len(rects)-1]
			return layout.Rect{X: r.Right(), Y: r.Y, W: 1, H: r.H}, true
		}
	}
	return layout.Rect{}, false
}
