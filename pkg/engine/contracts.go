package engine

import "tableflip.dev/marker/pkg/highlight"

// HighlightSource is the persistence collaborator: it owns the highlight
// records. The engine reads the sequence on every pass and writes it back
// only after a committed resize.
type HighlightSource interface {
	// CurrentHighlights returns records in insertion/document order.
	CurrentHighlights() []*highlight.Record
	// PersistHighlights stores the updated sequence.
	PersistHighlights(recs []*highlight.Record)
	// NotifyHighlightsChanged tells interested parties the set changed.
	NotifyHighlightsChanged()
}

// AuxWidget is the externally-owned widget shown next to a selected
// highlight. The engine only opens, closes, and repositions it.
type AuxWidget interface {
	Open(highlightID string, x, y int)
	Close()
	Reposition()
}

// SelectionNotifier broadcasts selection changes to external listeners.
// Delivery is best-effort: the engine swallows errors, the local selection
// state applies regardless.
type SelectionNotifier interface {
	NotifySelection(highlightID string) error
}
