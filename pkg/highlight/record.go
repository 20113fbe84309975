// Package highlight defines the persisted highlight record, its identifier
// scheme, the dual-mode offset codec for stored text ranges, and the merge
// policy applied when records meet.
package highlight

import (
	"strings"
	"time"
)

// Type classifies what a highlight anchors to.
type Type string

const (
	// TypeText anchors a character range inside one element.
	TypeText Type = "text"
	// TypeElement anchors a whole element.
	TypeElement Type = "element"
	// TypeComplex anchors an element with mixed/embedded content.
	TypeComplex Type = "complex"
)

// DefaultColor is the fallback used when a record carries no explicit color.
const DefaultColor = "#ffeb3b"

// Record is one stored highlight. The engine treats records as read-mostly:
// geometry never writes them, and a committed handle resize writes back only
// offsets and content.
type Record struct {
	ID          string    `json:"id"`
	Type        Type      `json:"type"`
	AnchorPath  string    `json:"anchorPath"`
	StartOffset int       `json:"startOffset,omitempty"`
	EndOffset   int       `json:"endOffset,omitempty"`
	Color       string    `json:"color,omitempty"`
	Notes       []string  `json:"notes,omitempty"`
	Content     string    `json:"content,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// ResolvedColor returns the record's color or the shared default, so two
// colorless records compare as equal-colored.
func (r *Record) ResolvedColor() string {
	if r.Color == "" {
		return DefaultColor
	}
	return r.Color
}

// HasNotes reports whether the record carries at least one non-empty note.
func (r *Record) HasNotes() bool {
	for _, n := range r.Notes {
		if strings.TrimSpace(n) != "" {
			return true
		}
	}
	return false
}

// Created returns the record's creation time, falling back to the timestamp
// encoded in the id, then to now for ids that carry none.
func (r *Record) Created(now time.Time) time.Time {
	if !r.CreatedAt.IsZero() {
		return r.CreatedAt
	}
	if t, ok := CreatedTime(r.ID); ok {
		return t
	}
	return now
}
