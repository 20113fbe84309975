package overlay

import (
	"encoding/json"
	"strconv"
	"strings"

	"tableflip.dev/marker/pkg/doc"
	"tableflip.dev/marker/pkg/highlight"
	"tableflip.dev/marker/pkg/layout"
)

// Class names carried by engine-owned elements. Everything the engine
// inserts uses the "marker-" prefix; the ownership predicate keys off it.
const (
	ClassContainer   = "marker-overlays"
	ClassOverlay     = "marker-overlay"
	ClassHover       = "marker-hover-indicator"
	ClassHandleStart = "marker-offset-handle-start"
	ClassHandleEnd   = "marker-offset-handle-end"
	ClassSelected    = "is-selected"
	ClassDragging    = "is-dragging"

	ownedPrefix = "marker-"
)

// Owned reports whether n is an engine-owned element or lives inside one.
// The change-detection loop and hover eligibility both rely on this so the
// engine never reacts to, or highlights, its own output.
func Owned(n *doc.Node) bool {
	for m := n; m != nil; m = m.Parent {
		if m.Kind != doc.ElementNode {
			continue
		}
		for _, c := range strings.Fields(m.Attr("class")) {
			if strings.HasPrefix(c, ownedPrefix) {
				return true
			}
		}
	}
	return false
}

var hoverTags = map[string]bool{
	"p": true, "span": true, "em": true, "strong": true, "a": true,
	"code": true, "li": true, "blockquote": true, "div": true, "img": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// HoverEligible reports whether hovering n may show the hover indicator.
func HoverEligible(n *doc.Node) bool {
	return n != nil && n.Kind == doc.ElementNode && hoverTags[n.Tag] && !Owned(n)
}

// rendered pairs a planned box with its materialized element.
type rendered struct {
	Box
	el *doc.Node
}

// Renderer owns the overlay elements in the document: one per planned box,
// one shared hover indicator, and the two resize handles.
type Renderer struct {
	Doc    *doc.Document
	Layout *layout.Engine

	container *doc.Node
	hover     *doc.Node
	handles   [2]*doc.Node // EdgeStart, EdgeEnd
	boxes     []rendered
}

// Edge identifies which boundary of a text highlight a handle moves.
type Edge int

const (
	EdgeStart Edge = iota
	EdgeEnd
)

func (r *Renderer) ensureContainer() *doc.Node {
	if r.container != nil && r.Doc.Contains(r.container) {
		return r.container
	}
	r.container = doc.NewElement("div", "class", ClassContainer)
	r.Doc.AppendChild(r.Doc.Root(), r.container)
	return r.container
}

// Sync reconciles the rendered overlays of one highlight against a freshly
// planned set: boxes matching an existing overlay within the dedup
// tolerance are kept as-is, stale overlays are removed, new boxes get
// elements. Planned geometry is never applied to an existing element.
func (r *Renderer) Sync(rec *highlight.Record, index int, planned []Box) {
	r.ensureContainer()
	consumed := make([]bool, len(planned))
	kept := r.boxes[:0]
	for _, rb := range r.boxes {
		if !sameHighlight(rb.Box, rec.ID, index) {
			kept = append(kept, rb)
			continue
		}
		match := -1
		for i, pb := range planned {
			if !consumed[i] && SameRect(rb.Rect, pb.Rect) {
				match = i
				break
			}
		}
		if match >= 0 {
			consumed[match] = true
			kept = append(kept, rb)
			continue
		}
		r.Doc.RemoveChild(r.container, rb.el)
	}
	r.boxes = kept
	for i, pb := range planned {
		if consumed[i] {
			continue
		}
		r.boxes = append(r.boxes, rendered{Box: pb, el: r.createOverlay(rec, pb)})
	}
}

func sameHighlight(b Box, id string, index int) bool {
	if id != "" {
		return b.HighlightID == id
	}
	return b.HighlightID == "" && b.Index == index
}

func (r *Renderer) createOverlay(rec *highlight.Record, b Box) *doc.Node {
	el := doc.NewElement("div",
		"class", ClassOverlay,
		"data-highlight-id", rec.ID,
		"data-content", rec.Content,
		"color", rec.ResolvedColor(),
	)
	if len(rec.Notes) > 0 {
		if raw, err := json.Marshal(rec.Notes); err == nil {
			el.Attrs["data-notes"] = string(raw)
		}
	}
	if b.Comment {
		el.Attrs["data-comment"] = "1"
	}
	el.Attrs["accent"] = r.accentFor(b.Rect)
	setRectAttrs(el, b.Rect)
	r.Doc.AppendChild(r.container, el)
	return el
}

func setRectAttrs(el *doc.Node, rect layout.Rect) {
	el.Attrs["x"] = strconv.Itoa(rect.X)
	el.Attrs["y"] = strconv.Itoa(rect.Y)
	el.Attrs["w"] = strconv.Itoa(rect.W)
	el.Attrs["h"] = strconv.Itoa(rect.H)
}

// Prune removes overlays whose highlight left the current sequence.
func (r *Renderer) Prune(keep func(Box) bool) {
	kept := r.boxes[:0]
	for _, rb := range r.boxes {
		if keep(rb.Box) {
			kept = append(kept, rb)
			continue
		}
		r.Doc.RemoveChild(r.container, rb.el)
	}
	r.boxes = kept
}

// Boxes returns the currently rendered boxes in render order.
func (r *Renderer) Boxes() []Box {
	out := make([]Box, 0, len(r.boxes))
	for _, rb := range r.boxes {
		out = append(out, rb.Box)
	}
	return out
}

// BoxesFor returns the rendered boxes of one highlight.
func (r *Renderer) BoxesFor(id string, index int) []Box {
	var out []Box
	for _, rb := range r.boxes {
		if sameHighlight(rb.Box, id, index) {
			out = append(out, rb.Box)
		}
	}
	return out
}

// HitTest returns the topmost interactive overlay box under the point.
func (r *Renderer) HitTest(x, y int) (Box, bool) {
	for i := len(r.boxes) - 1; i >= 0; i-- {
		rb := r.boxes[i]
		if rb.el.Attr("pointer-events") == "none" {
			continue
		}
		if rb.Rect.Contains(x, y) {
			return rb.Box, true
		}
	}
	return Box{}, false
}

// ApplySelection marks every overlay of the selected highlight. id takes
// precedence; an empty id falls back to the positional index.
func (r *Renderer) ApplySelection(id string, index int) bool {
	hit := false
	for _, rb := range r.boxes {
		if sameHighlight(rb.Box, id, index) {
			r.addClass(rb.el, ClassSelected)
			hit = true
		} else {
			r.removeClass(rb.el, ClassSelected)
		}
	}
	return hit
}

// ClearSelection removes selection marks from all overlays.
func (r *Renderer) ClearSelection() {
	for _, rb := range r.boxes {
		r.removeClass(rb.el, ClassSelected)
	}
}

// SuspendInteraction disables pointer interaction on every overlay for the
// duration of a drag and returns the affected elements so the session can
// restore exactly what it suspended.
func (r *Renderer) SuspendInteraction() []*doc.Node {
	var out []*doc.Node
	for _, rb := range r.boxes {
		if rb.el.Attr("pointer-events") == "none" {
			continue
		}
		r.Doc.SetAttr(rb.el, "pointer-events", "none")
		out = append(out, rb.el)
	}
	return out
}

// RestoreInteraction re-enables pointer interaction on the given elements.
func (r *Renderer) RestoreInteraction(els []*doc.Node) {
	for _, el := range els {
		r.Doc.RemoveAttr(el, "pointer-events")
	}
}

// ShowHover positions the shared hover indicator over target. At most one
// indicator exists; it tracks the most recently hovered eligible element.
func (r *Renderer) ShowHover(target *doc.Node) {
	if !HoverEligible(target) {
		return
	}
	bb, ok := r.Layout.BoundingBox(target)
	if !ok {
		return
	}
	if r.hover == nil || !r.Doc.Contains(r.hover) {
		r.hover = doc.NewElement("div", "class", ClassHover)
		r.Doc.AppendChild(r.ensureContainer(), r.hover)
	}
	setRectAttrs(r.hover, bb)
	r.Doc.SetAttr(r.hover, "visible", "1")
}

// HideHover hides the hover indicator.
func (r *Renderer) HideHover() {
	if r.hover != nil {
		r.Doc.RemoveAttr(r.hover, "visible")
	}
}

// ShowHandles places the resize handles on the boundary caret rects of the
// selected text highlight.
func (r *Renderer) ShowHandles(start, end layout.Rect) {
	classes := [2]string{ClassHandleStart, ClassHandleEnd}
	rects := [2]layout.Rect{start, end}
	for i := range r.handles {
		if r.handles[i] == nil || !r.Doc.Contains(r.handles[i]) {
			r.handles[i] = doc.NewElement("div", "class", classes[i])
			r.Doc.AppendChild(r.ensureContainer(), r.handles[i])
		}
		setRectAttrs(r.handles[i], rects[i])
		r.Doc.SetAttr(r.handles[i], "visible", "1")
	}
}

// MoveHandle repositions one handle to track the resolved caret rect.
func (r *Renderer) MoveHandle(edge Edge, rect layout.Rect) {
	h := r.handles[edge]
	if h == nil {
		return
	}
	setRectAttrs(h, rect)
	r.Doc.SetAttr(h, "visible", "1")
}

// HandleRect returns the current rect of one handle.
func (r *Renderer) HandleRect(edge Edge) (layout.Rect, bool) {
	h := r.handles[edge]
	if h == nil || h.Attr("visible") == "" {
		return layout.Rect{}, false
	}
	return layout.Rect{
		X: atoi(h.Attr("x")), Y: atoi(h.Attr("y")),
		W: atoi(h.Attr("w")), H: atoi(h.Attr("h")),
	}, true
}

// HideHandles hides both resize handles.
func (r *Renderer) HideHandles() {
	for _, h := range r.handles {
		if h != nil {
			r.Doc.RemoveAttr(h, "visible")
		}
	}
}

// SetDragging toggles the drag-mode visual state on one handle.
func (r *Renderer) SetDragging(edge Edge, on bool) {
	h := r.handles[edge]
	if h == nil {
		return
	}
	if on {
		r.addClass(h, ClassDragging)
	} else {
		r.removeClass(h, ClassDragging)
	}
}

// Clear removes every rendered element and resets renderer state.
func (r *Renderer) Clear() {
	if r.container != nil && r.Doc.Contains(r.container) {
		r.Doc.RemoveChild(r.Doc.Root(), r.container)
	}
	r.container = nil
	r.hover = nil
	r.handles = [2]*doc.Node{}
	r.boxes = nil
}

func (r *Renderer) addClass(el *doc.Node, class string) {
	classes := strings.Fields(el.Attr("class"))
	for _, c := range classes {
		if c == class {
			return
		}
	}
	r.Doc.SetAttr(el, "class", strings.Join(append(classes, class), " "))
}

func (r *Renderer) removeClass(el *doc.Node, class string) {
	classes := strings.Fields(el.Attr("class"))
	kept := classes[:0]
	for _, c := range classes {
		if c != class {
			kept = append(kept, c)
		}
	}
	if len(kept) != len(classes) {
		r.Doc.SetAttr(el, "class", strings.Join(kept, " "))
	}
}

func atoi(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}
