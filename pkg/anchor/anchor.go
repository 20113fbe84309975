// Package anchor resolves stored highlight anchors against a live document:
// structural paths to elements, and stored text offsets in either historical
// encoding to concrete text-node positions.
package anchor

import (
	"tableflip.dev/marker/pkg/doc"
	"tableflip.dev/marker/pkg/highlight"
)

// Resolver binds anchor resolution to one document.
type Resolver struct {
	Doc *doc.Document
}

// Element resolves an anchor path, returning nil on failure. Callers fall
// back to element-level treatment; resolution never errors.
func (r Resolver) Element(path string) *doc.Node {
	if r.Doc == nil {
		return nil
	}
	return r.Doc.Resolve(path)
}

// TextRange maps a record's stored offsets to a (start, end) position pair
// inside el. Offsets are decoded per the dual-encoding rule and clamped to
// the element's text bounds. ok is false only when el has no text
// descendants; the caller then treats the whole element as one rectangle.
func (r Resolver) TextRange(el *doc.Node, startOffset, endOffset int) (start, end doc.Position, ok bool) {
	total := doc.TotalTextLength(el)
	if total == 0 {
		return doc.Position{}, doc.Position{}, false
	}
	s, e, _ := highlight.DecodeOffsets(total, startOffset, endOffset)
	start, ok = doc.StartPositionAt(el, s)
	if !ok {
		return doc.Position{}, doc.Position{}, false
	}
	end, ok = doc.PositionAt(el, e)
	if !ok {
		return doc.Position{}, doc.Position{}, false
	}
	return start, end, true
}

// FullRange returns positions spanning all text content of el.
func (r Resolver) FullRange(el *doc.Node) (start, end doc.Position, ok bool) {
	total := doc.TotalTextLength(el)
	if total == 0 {
		return doc.Position{}, doc.Position{}, false
	}
	start, _ = doc.StartPositionAt(el, 0)
	end, _ = doc.PositionAt(el, total)
	return start, end, true
}

// CanonicalOffsets converts a resolved position pair back to canonical
// character offsets within el. Every write path uses this, so stored data
// is never legacy-encoded again.
func CanonicalOffsets(el *doc.Node, start, end doc.Position) (int, int) {
	s := doc.CanonicalOffset(el, start)
	e := doc.CanonicalOffset(el, end)
	if s > e {
		s, e = e, s
	}
	return s, e
}
