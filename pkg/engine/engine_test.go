package engine

import (
	"testing"
	"time"

	"tableflip.dev/marker/pkg/doc"
	"tableflip.dev/marker/pkg/highlight"
	"tableflip.dev/marker/pkg/layout"
	"tableflip.dev/marker/pkg/overlay"
)

type fakeClock struct{ now time.Time }

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fakeSource struct {
	recs     []*highlight.Record
	reads    int
	persists int
	notifies int
}

func (s *fakeSource) CurrentHighlights() []*highlight.Record { s.reads++; return s.recs }
func (s *fakeSource) PersistHighlights(recs []*highlight.Record) {
	s.persists++
	s.recs = recs
}
func (s *fakeSource) NotifyHighlightsChanged() { s.notifies++ }

type fakeWidget struct {
	openID       string
	lastX, lastY int
	opens        int
	closes       int
	repositions  int
}

func (w *fakeWidget) Open(id string, x, y int) {
	w.openID, w.lastX, w.lastY = id, x, y
	w.opens++
}
func (w *fakeWidget) Close()      { w.openID = ""; w.closes++ }
func (w *fakeWidget) Reposition() { w.repositions++ }

type fakeNotifier struct{ ids []string }

func (n *fakeNotifier) NotifySelection(id string) error {
	n.ids = append(n.ids, id)
	return nil
}

const fixtureText = "alpha beta gamma delta epsilon zeta eta theta"

func testEngine(recs ...*highlight.Record) (*Engine, *doc.Document, *fakeSource, *fakeWidget, *fakeNotifier, *fakeClock) {
	body := doc.NewElement("body")
	d := doc.New(body)
	p := doc.NewElement("p")
	d.AppendChild(body, p)
	d.AppendChild(p, doc.NewText(fixtureText))

	lay := layout.New(d, layout.Metrics{CellWidth: 8, LineHeight: 16})
	lay.SetViewport(layout.Viewport{Width: 160})

	src := &fakeSource{recs: recs}
	w := &fakeWidget{}
	n := &fakeNotifier{}
	clk := newClock()
	e := New(Config{
		Doc:      d,
		Layout:   lay,
		Source:   src,
		Widget:   w,
		Notifier: n,
		Clock:    clk.Now,
	})
	return e, d, src, w, n, clk
}

func textRecord(id string, start, end int) *highlight.Record {
	return &highlight.Record{
		ID: id, Type: highlight.TypeText,
		AnchorPath: "/body[0]/p[0]", StartOffset: start, EndOffset: end,
	}
}

func TestRepaintThrottleCoalescesBursts(t *testing.T) {
	e, d, src, _, _, clk := testEngine(textRecord("h1", 0, 16))
	e.PlanAndRenderAll()
	base := src.reads

	// First outside mutation repaints immediately.
	extra := doc.NewElement("p")
	d.AppendChild(d.Root(), extra)
	if src.reads != base+1 {
		t.Fatalf("first mutation: %d passes, want 1", src.reads-base)
	}

	// A burst inside the throttle window defers to a single pending pass.
	d.AppendChild(extra, doc.NewText("late arrival"))
	d.SetAttr(extra, "align", "left")
	if src.reads != base+1 {
		t.Fatalf("burst repainted eagerly: %d passes", src.reads-base)
	}
	pending, wait := e.Pending()
	if !pending {
		t.Fatalf("no pending repaint after burst")
	}
	if wait <= 0 || wait > DefaultRepaintInterval {
		t.Fatalf("pending delay = %v", wait)
	}

	// An early tick is a no-op; a due tick flushes exactly once.
	e.Tick()
	if src.reads != base+1 {
		t.Fatalf("early tick ran the pass")
	}
	clk.Advance(DefaultRepaintInterval)
	e.Tick()
	if src.reads != base+2 {
		t.Fatalf("due tick: %d passes, want 2", src.reads-base)
	}
	if pending, _ := e.Pending(); pending {
		t.Fatalf("pass still pending after flush")
	}
}

func TestOwnedMutationsAreFiltered(t *testing.T) {
	e, d, src, _, _, _ := testEngine(textRecord("h1", 0, 16))
	e.PlanAndRenderAll()
	base := src.reads

	var container *doc.Node
	for _, c := range d.Root().Children {
		if c.Attr("class") == overlay.ClassContainer {
			container = c
		}
	}
	if container == nil || len(container.Children) == 0 {
		t.Fatalf("no overlay container rendered")
	}

	// Poking at engine-owned elements must not schedule anything.
	d.SetAttr(container.Children[0], "x", "99")
	d.AppendChild(d.Root(), doc.NewElement("div", "class", "marker-hover-indicator"))
	if src.reads != base {
		t.Fatalf("owned mutation triggered %d passes", src.reads-base)
	}
	if pending, _ := e.Pending(); pending {
		t.Fatalf("owned mutation left a pass pending")
	}

	// A genuine page edit still gets through.
	d.SetText(d.Root().Children[0].Children[0], "alpha beta")
	if src.reads == base {
		t.Fatalf("page mutation did not repaint")
	}
}

func TestSelectHighlightOpensWidgetAndNotifies(t *testing.T) {
	e, _, _, w, n, _ := testEngine(textRecord("h1", 0, 16))
	scrolled := -999
	e.scrollTo = func(y int) { scrolled = y }
	e.PlanAndRenderAll()

	if !e.SelectHighlightByID("h1", SelectOptions{OpenWidget: true, ScrollIntoView: true, NotifyExternal: true}) {
		t.Fatalf("selection failed for a rendered highlight")
	}
	if w.openID != "h1" {
		t.Fatalf("widget opened for %q, want h1", w.openID)
	}
	if w.lastX != -overlay.Padding {
		t.Fatalf("widget x = %d, want first box left edge", w.lastX)
	}
	if scrolled != -overlay.Padding {
		t.Fatalf("scrolled to %d, want first box top", scrolled)
	}
	if len(n.ids) != 1 || n.ids[0] != "h1" {
		t.Fatalf("notified %v, want [h1]", n.ids)
	}
	if e.SelectHighlightByID("missing", SelectOptions{}) {
		t.Fatalf("selection matched an unknown id")
	}
}

func TestRemovedHighlightIsPruned(t *testing.T) {
	e, _, src, _, _, _ := testEngine(
		textRecord("h1", 0, 16),
		textRecord("h2", 17, 35),
	)
	e.PlanAndRenderAll()
	if len(e.Renderer().BoxesFor("h2", 1)) == 0 {
		t.Fatalf("second highlight not rendered")
	}

	src.recs = src.recs[:1]
	e.PlanAndRenderAll()
	if got := e.Renderer().BoxesFor("h2", 1); len(got) != 0 {
		t.Fatalf("%d stale boxes survive removal", len(got))
	}
	if len(e.Renderer().BoxesFor("h1", 0)) == 0 {
		t.Fatalf("surviving highlight lost its boxes")
	}
}

func TestDragBelowThresholdDiscards(t *testing.T) {
	e, _, src, _, _, _ := testEngine(textRecord("h1", 0, 16))
	e.PlanAndRenderAll()
	e.SelectHighlightByID("h1", SelectOptions{})

	if !e.PointerDown(ModalityPointer, 128, 8) {
		t.Fatalf("pointer down missed the end handle")
	}
	e.PointerMove(ModalityPointer, 129, 8)
	if e.Dragging() {
		t.Fatalf("1px travel crossed the drag threshold")
	}
	e.PointerUp(ModalityPointer, 129, 8)

	rec := src.recs[0]
	if rec.StartOffset != 0 || rec.EndOffset != 16 {
		t.Fatalf("no-op drag rewrote offsets to (%d, %d)", rec.StartOffset, rec.EndOffset)
	}
	if src.persists != 0 || src.notifies != 0 {
		t.Fatalf("no-op drag persisted (%d writes, %d notifies)", src.persists, src.notifies)
	}
	if e.drag != nil {
		t.Fatalf("session survived pointer up")
	}
}

func TestDragCommitRewritesOffsetsAndPersists(t *testing.T) {
	e, _, src, w, _, _ := testEngine(textRecord("h1", 0, 16))
	e.PlanAndRenderAll()
	e.SelectHighlightByID("h1", SelectOptions{})
	w.opens = 0

	if !e.PointerDown(ModalityPointer, 128, 8) {
		t.Fatalf("pointer down missed the end handle")
	}
	e.PointerMove(ModalityPointer, 88, 8)
	if !e.Dragging() {
		t.Fatalf("drag never crossed the threshold")
	}
	e.PointerUp(ModalityPointer, 88, 8)

	rec := src.recs[0]
	if rec.StartOffset != 0 || rec.EndOffset != 11 {
		t.Fatalf("committed offsets (%d, %d), want (0, 11)", rec.StartOffset, rec.EndOffset)
	}
	if rec.Content != "alpha beta " {
		t.Fatalf("committed content %q", rec.Content)
	}
	if src.persists != 1 || src.notifies != 1 {
		t.Fatalf("persist/notify = %d/%d, want 1/1", src.persists, src.notifies)
	}
	if w.opens != 1 || w.openID != "h1" {
		t.Fatalf("widget not reopened at the resized highlight")
	}
	if w.lastX != 88 || w.lastY != 8 {
		t.Fatalf("widget reopened at (%d, %d), want the release point (88, 8)", w.lastX, w.lastY)
	}
	if e.drag != nil {
		t.Fatalf("session survived commit")
	}
}

func TestSingleDragSession(t *testing.T) {
	e, _, src, _, _, _ := testEngine(textRecord("h1", 0, 16))
	e.PlanAndRenderAll()
	e.SelectHighlightByID("h1", SelectOptions{})

	if !e.PointerDown(ModalityPointer, 128, 8) {
		t.Fatalf("first pointer down missed the end handle")
	}
	e.PointerMove(ModalityPointer, 88, 8)
	if !e.Dragging() {
		t.Fatalf("first session never crossed the threshold")
	}

	// A second press supersedes the active session: the old one tears down
	// without committing and a fresh session arms on the start handle.
	if !e.PointerDown(ModalityPointer, 0, 8) {
		t.Fatalf("second pointer down did not arm over an active session")
	}
	if e.Dragging() {
		t.Fatalf("superseding session inherited the dragging state")
	}
	if e.drag == nil || e.drag.edge != overlay.EdgeStart {
		t.Fatalf("superseding session armed on the wrong handle")
	}
	if src.persists != 0 {
		t.Fatalf("superseded session committed %d writes", src.persists)
	}
	if src.recs[0].StartOffset != 0 || src.recs[0].EndOffset != 16 {
		t.Fatalf("superseded session rewrote offsets to (%d, %d)",
			src.recs[0].StartOffset, src.recs[0].EndOffset)
	}

	e.PointerCancel(ModalityPointer)
	if e.drag != nil {
		t.Fatalf("cancel left a session behind")
	}
	if !e.PointerDown(ModalityPointer, 128, 8) {
		t.Fatalf("rearm failed after teardown")
	}
}

func TestArmEstablishesSelection(t *testing.T) {
	e, d, src, _, _, _ := testEngine(textRecord("h1", 0, 16))
	e.PlanAndRenderAll()
	e.SelectHighlightByID("h1", SelectOptions{})

	if !e.PointerDown(ModalityPointer, 128, 8) {
		t.Fatalf("pointer down missed the end handle")
	}
	sel := d.Selection()
	if !sel.Active() {
		t.Fatalf("arming did not establish a selection")
	}
	p := d.Root().Children[0]
	start, end := sel.Ordered(p)
	if s, f := doc.CanonicalOffset(p, start), doc.CanonicalOffset(p, end); s != 0 || f != 16 {
		t.Fatalf("armed selection covers (%d, %d), want the record's (0, 16)", s, f)
	}

	// Releasing below the threshold collapses the selection and writes
	// nothing.
	e.PointerUp(ModalityPointer, 128, 8)
	if sel.Active() {
		t.Fatalf("selection survived a below-threshold release")
	}
	if src.persists != 0 || src.notifies != 0 {
		t.Fatalf("below-threshold release persisted (%d writes, %d notifies)", src.persists, src.notifies)
	}
}

func TestDragBackToOriginDiscards(t *testing.T) {
	e, _, src, _, _, _ := testEngine(textRecord("h1", 0, 16))
	e.PlanAndRenderAll()
	e.SelectHighlightByID("h1", SelectOptions{})

	if !e.PointerDown(ModalityPointer, 128, 8) {
		t.Fatalf("pointer down missed the end handle")
	}
	e.PointerMove(ModalityPointer, 88, 8)
	if !e.Dragging() {
		t.Fatalf("drag never crossed the threshold")
	}
	e.PointerMove(ModalityPointer, 128, 8)
	e.PointerUp(ModalityPointer, 128, 8)

	// The edge wandered and came back: final text matches the pre-drag
	// snapshot, so nothing is written.
	rec := src.recs[0]
	if rec.StartOffset != 0 || rec.EndOffset != 16 {
		t.Fatalf("round-trip drag rewrote offsets to (%d, %d)", rec.StartOffset, rec.EndOffset)
	}
	if src.persists != 0 || src.notifies != 0 {
		t.Fatalf("round-trip drag persisted (%d writes, %d notifies)", src.persists, src.notifies)
	}
}

func TestDragIgnoresOtherModality(t *testing.T) {
	e, _, src, _, _, _ := testEngine(textRecord("h1", 0, 16))
	e.PlanAndRenderAll()
	e.SelectHighlightByID("h1", SelectOptions{})

	if !e.PointerDown(ModalityMouse, 128, 8) {
		t.Fatalf("mouse down missed the end handle")
	}
	e.PointerMove(ModalityPointer, 88, 8)
	if e.Dragging() {
		t.Fatalf("pointer stream moved a mouse-owned session")
	}
	e.PointerUp(ModalityPointer, 88, 8)
	if e.drag == nil {
		t.Fatalf("pointer up ended a mouse-owned session")
	}

	e.PointerMove(ModalityMouse, 88, 8)
	e.PointerUp(ModalityMouse, 88, 8)
	if src.persists != 1 {
		t.Fatalf("mouse-owned session failed to commit")
	}
	if src.recs[0].EndOffset != 11 {
		t.Fatalf("committed end offset %d, want 11", src.recs[0].EndOffset)
	}
}
