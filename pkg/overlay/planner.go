// Package overlay turns resolved highlight ranges into deduplicated visual
// rectangles and materializes them as engine-owned elements in the document
// tree, together with the shared hover indicator and resize handles.
package overlay

import (
	"tableflip.dev/marker/pkg/anchor"
	"tableflip.dev/marker/pkg/highlight"
	"tableflip.dev/marker/pkg/layout"
)

const (
	// Padding expands every emitted rectangle per edge for legibility.
	Padding = 2
	// tolerance is the pixel slack for merge and dedup comparisons.
	tolerance = 1
)

// Box is one planned overlay rectangle. Boxes are transient: destroyed and
// replanned on every change-detection tick, never mutated in place.
type Box struct {
	Rect        layout.Rect
	HighlightID string
	Index       int
	Comment     bool
}

// Planner derives the minimal rectangle set for one highlight.
type Planner struct {
	Layout   *layout.Engine
	Resolver anchor.Resolver
}

var paragraphTags = map[string]bool{
	"p": true, "blockquote": true, "li": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// Plan produces the rectangles for rec. index is the record's position in
// the current highlight sequence (the selection fallback for id-less
// records). A nil result means the anchor did not resolve at all.
func (pl *Planner) Plan(rec *highlight.Record, index int) []Box {
	el := pl.Resolver.Element(rec.AnchorPath)
	if el == nil {
		return nil
	}

	var rects []layout.Rect
	switch rec.Type {
	case highlight.TypeText:
		if start, end, ok := pl.Resolver.TextRange(el, rec.StartOffset, rec.EndOffset); ok {
			rects = pl.Layout.RangeRects(start, end)
		}
	default:
		// Paragraph-like blocks split by visual line so a multi-line
		// paragraph does not collapse into one bounding box.
		if paragraphTags[el.Tag] {
			if start, end, ok := pl.Resolver.FullRange(el); ok {
				rects = pl.Layout.RangeRects(start, end)
			}
		}
	}
	if len(rects) == 0 {
		bb, ok := pl.Layout.BoundingBox(el)
		if !ok {
			return nil
		}
		rects = []layout.Rect{bb}
	}

	lines, tall := classify(rects)
	merged := append(mergeRuns(lines), mergeRuns(tall)...)

	boxes := make([]Box, 0, len(merged))
	for i, r := range merged {
		boxes = append(boxes, Box{
			Rect:        pad(r),
			HighlightID: rec.ID,
			Index:       index,
			Comment:     i == 0 && rec.HasNotes(),
		})
	}
	return boxes
}

// classify splits rects into normal text-line rects and "complex" rects
// taller than 1.5x the average height (inline embeds), which are merged as
// a separate group so a tall element never extends an adjacent thin line.
func classify(rects []layout.Rect) (lines, tall []layout.Rect) {
	if len(rects) == 0 {
		return nil, nil
	}
	sum := 0
	for _, r := range rects {
		sum += r.H
	}
	avg := sum / len(rects)
	for _, r := range rects {
		if 2*r.H <= 3*avg {
			lines = append(lines, r)
		} else {
			tall = append(tall, r)
		}
	}
	return lines, tall
}

// mergeRuns collapses consecutive rects whose vertical position and height
// match within the tolerance, extending the running rect's right edge. A
// single text line fractured by inline markup becomes one visual box.
func mergeRuns(rects []layout.Rect) []layout.Rect {
	var out []layout.Rect
	for _, r := range rects {
		if n := len(out); n > 0 && sameLine(out[n-1], r) {
			if r.Right() > out[n-1].Right() {
				out[n-1].W = r.Right() - out[n-1].X
			}
			continue
		}
		out = append(out, r)
	}
	return out
}

func sameLine(a, b layout.Rect) bool {
	return within(a.Y, b.Y) && within(a.H, b.H)
}

func within(a, b int) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tolerance
}

// SameRect reports whether two rects occupy the same position and size
// within the tolerance on every dimension. Replanning runs frequently; this
// is the dedup check that keeps overlays from accumulating.
func SameRect(a, b layout.Rect) bool {
	return within(a.X, b.X) && within(a.Y, b.Y) && within(a.W, b.W) && within(a.H, b.H)
}

func pad(r layout.Rect) layout.Rect {
	return layout.Rect{X: r.X - Padding, Y: r.Y - Padding, W: r.W + 2*Padding, H: r.H + 2*Padding}
}
