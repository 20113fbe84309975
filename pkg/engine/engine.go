// Package engine ties anchor resolution, rect planning, and overlay
// rendering into the highlight engine: a throttled change-detection loop
// that never observes its own output, a selection reference, and the
// pointer-driven resize drag state machine.
package engine

import (
	"time"

	"tableflip.dev/marker/pkg/anchor"
	"tableflip.dev/marker/pkg/doc"
	"tableflip.dev/marker/pkg/highlight"
	"tableflip.dev/marker/pkg/layout"
	"tableflip.dev/marker/pkg/overlay"
)

// DefaultRepaintInterval is the minimum spacing between repaint passes.
const DefaultRepaintInterval = 120 * time.Millisecond

// Config wires the engine's collaborators. Doc, Layout, and Source are
// required; the rest are optional.
type Config struct {
	Doc      *doc.Document
	Layout   *layout.Engine
	Source   HighlightSource
	Widget   AuxWidget
	Notifier SelectionNotifier

	// ScrollTo lets SelectHighlightByID bring a highlight into view; the
	// host owns actual scrolling.
	ScrollTo func(y int)

	// Clock and RepaintInterval exist for tests; zero values mean
	// time.Now and DefaultRepaintInterval.
	Clock           func() time.Time
	RepaintInterval time.Duration
}

// selectionRef identifies the selected highlight: id preferred, positional
// index as the fallback for records without one.
type selectionRef struct {
	id    string
	index int
}

func (s selectionRef) set() bool { return s.id != "" || s.index >= 0 }

var noSelection = selectionRef{index: -1}

// Engine is the highlight-overlay engine. All methods must be called from
// the host's event goroutine; the engine is cooperative and never spawns
// its own.
type Engine struct {
	doc      *doc.Document
	lay      *layout.Engine
	resolver anchor.Resolver
	planner  *overlay.Planner
	renderer *overlay.Renderer

	source   HighlightSource
	widget   AuxWidget
	notifier SelectionNotifier
	scrollTo func(y int)

	clock func() time.Time
	loop  repaintLoop
	sel   selectionRef
	drag  *dragSession
}

// New builds an engine and registers its mutation observer on the document.
func New(cfg Config) *Engine {
	e := &Engine{
		doc:      cfg.Doc,
		lay:      cfg.Layout,
		resolver: anchor.Resolver{Doc: cfg.Doc},
		source:   cfg.Source,
		widget:   cfg.Widget,
		notifier: cfg.Notifier,
		scrollTo: cfg.ScrollTo,
		clock:    cfg.Clock,
		sel:      noSelection,
	}
	if e.clock == nil {
		e.clock = time.Now
	}
	e.loop.interval = cfg.RepaintInterval
	if e.loop.interval <= 0 {
		e.loop.interval = DefaultRepaintInterval
	}
	// Overlay elements live in the document but must not shift the page.
	e.lay.Skip = overlay.Owned
	e.planner = &overlay.Planner{Layout: e.lay, Resolver: e.resolver}
	e.renderer = &overlay.Renderer{Doc: e.doc, Layout: e.lay}
	e.doc.Observe(e.onMutation)
	return e
}

// Renderer exposes rendered overlay state to the host for drawing.
func (e *Engine) Renderer() *overlay.Renderer { return e.renderer }

// PlanAndRenderAll runs a full resolve/plan/render pass over all current
// highlights. The pass-scoped suppression flag disables the change loop so
// the engine's own DOM writes cannot recurse into it.
func (e *Engine) PlanAndRenderAll() {
	e.applyPass(e.renderAll)
}

func (e *Engine) applyPass(fn func()) {
	if e.loop.suppressed {
		return
	}
	e.loop.suppressed = true
	defer func() { e.loop.suppressed = false }()
	fn()
}

func (e *Engine) renderAll() {
	recs := e.source.CurrentHighlights()
	live := make(map[string]bool, len(recs))
	for i, rec := range recs {
		e.renderer.Sync(rec, i, e.planner.Plan(rec, i))
		if rec.ID != "" {
			live[rec.ID] = true
		}
	}
	e.renderer.Prune(func(b overlay.Box) bool {
		if b.HighlightID != "" {
			return live[b.HighlightID]
		}
		return b.Index < len(recs)
	})
	e.reapplySelection()
	if e.widget != nil {
		e.widget.Reposition()
	}
}

func (e *Engine) reapplySelection() {
	if !e.sel.set() {
		return
	}
	if !e.renderer.ApplySelection(e.sel.id, e.sel.index) {
		// Selection no longer resolves to a live overlay.
		e.sel = noSelection
		e.renderer.HideHandles()
		return
	}
	e.updateHandles()
}

// updateHandles places the resize handles on the selected text highlight's
// boundary carets, or hides them when the selection is not resizable.
func (e *Engine) updateHandles() {
	rec, _ := e.selectedRecord()
	if rec == nil || rec.Type != highlight.TypeText {
		e.renderer.HideHandles()
		return
	}
	el := e.resolver.Element(rec.AnchorPath)
	if el == nil {
		e.renderer.HideHandles()
		return
	}
	start, end, ok := e.resolver.TextRange(el, rec.StartOffset, rec.EndOffset)
	if !ok {
		e.renderer.HideHandles()
		return
	}
	rects := e.lay.RangeRects(start, end)
	if len(rects) == 0 {
		e.renderer.HideHandles()
		return
	}
	first, last := rects[0], rects[len(rects)-1]
	e.renderer.ShowHandles(
		layout.Rect{X: first.X - 1, Y: first.Y, W: 2, H: first.H},
		layout.Rect{X: last.Right() - 1, Y: last.Y, W: 2, H: last.H},
	)
}

func (e *Engine) selectedRecord() (*highlight.Record, int) {
	if !e.sel.set() {
		return nil, -1
	}
	recs := e.source.CurrentHighlights()
	for i, rec := range recs {
		if e.sel.id != "" && rec.ID == e.sel.id {
			return rec, i
		}
		if e.sel.id == "" && i == e.sel.index {
			return rec, i
		}
	}
	return nil, -1
}

// SelectOptions controls the side effects of SelectHighlightByID.
type SelectOptions struct {
	OpenWidget     bool
	ScrollIntoView bool
	NotifyExternal bool
}

// SelectHighlightByID selects a highlight and reports whether it resolved
// to a live overlay.
func (e *Engine) SelectHighlightByID(id string, opts SelectOptions) bool {
	recs := e.source.CurrentHighlights()
	index := -1
	for i, rec := range recs {
		if rec.ID == id && id != "" {
			index = i
			break
		}
	}
	if index < 0 {
		return false
	}
	boxes := e.renderer.BoxesFor(id, index)
	if len(boxes) == 0 {
		e.PlanAndRenderAll()
		boxes = e.renderer.BoxesFor(id, index)
		if len(boxes) == 0 {
			return false
		}
	}
	e.sel = selectionRef{id: id, index: index}
	e.applyPass(func() {
		e.renderer.ApplySelection(id, index)
		e.updateHandles()
	})
	first := boxes[0]
	if opts.ScrollIntoView && e.scrollTo != nil {
		e.scrollTo(first.Rect.Y)
	}
	if opts.OpenWidget && e.widget != nil {
		e.widget.Open(id, first.Rect.X, first.Rect.Bottom())
	}
	if opts.NotifyExternal && e.notifier != nil {
		// Best-effort broadcast; a missing listener is not an error here.
		_ = e.notifier.NotifySelection(id)
	}
	return true
}

// Selected returns the selected highlight id (or "" when selection is by
// index or unset) and whether anything is selected.
func (e *Engine) Selected() (string, bool) {
	return e.sel.id, e.sel.set()
}

// ClearAllOverlays removes all rendered state and resets selection and
// drag state.
func (e *Engine) ClearAllOverlays() {
	e.teardownDrag()
	e.applyPass(func() {
		e.renderer.Clear()
	})
	e.sel = noSelection
	e.doc.Selection().Collapse()
	if e.widget != nil {
		e.widget.Close()
	}
}

// reopenWidget re-anchors the widget at the given point after a committed
// resize, so it opens where the pointer released rather than jumping back
// to the highlight's first box.
func (e *Engine) reopenWidget(x, y int) {
	if e.widget == nil || !e.sel.set() {
		return
	}
	e.widget.Open(e.sel.id, x, y)
}

// ClearSelection drops the selection without touching the overlays.
func (e *Engine) ClearSelection() {
	e.sel = noSelection
	e.applyPass(func() {
		e.renderer.ClearSelection()
		e.renderer.HideHandles()
	})
	if e.widget != nil {
		e.widget.Close()
	}
}
