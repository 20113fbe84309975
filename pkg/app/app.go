package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"tableflip.dev/marker/pkg/highlight"
	"tableflip.dev/marker/pkg/store"
)

// Service provides high-level operations over stored highlights. It wraps
// persistence and the merge policy so UIs and CLIs can share logic.
type Service struct {
	Persistence store.Persistence

	// Relate overrides spatial relation computation when the caller has
	// real geometry (the TUI wires layout-based abutment). Nil falls back
	// to anchor-path and offset comparison.
	Relate func(a, b *highlight.Record) (highlight.Relation, bool)
}

var ErrNotFound = errors.New("app: highlight not found")

// Pages returns sorted page identities that carry highlights.
func (s *Service) Pages(ctx context.Context) ([]string, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	return s.Persistence.Pages(ctx, ""), nil
}

// Highlights lists a page's records in creation order.
func (s *Service) Highlights(ctx context.Context, page string) ([]*highlight.Record, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	return s.Persistence.List(ctx, page), nil
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	return s.Persistence.Watch(ctx)
}

// Add stores a new highlight, first folding it into any stored neighbor the
// merge policy says it belongs with. Merging repeats until the record sits
// alone: a new span bridging two existing highlights collapses all three.
// The returned record is the one actually stored.
func (s *Service) Add(ctx context.Context, page string, r *highlight.Record) (*highlight.Record, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	if r == nil || strings.TrimSpace(r.AnchorPath) == "" {
		return nil, errors.New("app: anchor path required")
	}
	if r.Type == "" {
		r.Type = highlight.TypeText
	}
	now := time.Now()
	if r.ID == "" {
		r.ID = highlight.NewID(now)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}

	merged := r
	absorbed := make(map[string]bool)
	for {
		var hit *highlight.Record
		for _, e := range s.Persistence.List(ctx, page) {
			if e.ID == merged.ID || absorbed[e.ID] {
				continue
			}
			rel, ok := s.relation(merged, e)
			if ok && highlight.ShouldMerge(merged, e, rel) {
				hit = e
				break
			}
		}
		if hit == nil {
			break
		}
		absorbed[hit.ID] = true
		merged = mergeRecords(hit, merged)
	}

	if err := s.Persistence.Store(page, merged); err != nil {
		return nil, err
	}
	for id := range absorbed {
		if id == merged.ID {
			continue
		}
		if err := s.Persistence.Delete(page, id); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// Delete removes a highlight permanently.
func (s *Service) Delete(ctx context.Context, page, id string) error {
	if s.Persistence == nil {
		return errors.New("app: no persistence configured")
	}
	if _, err := s.find(ctx, page, id); err != nil {
		return err
	}
	return s.Persistence.Delete(page, id)
}

// SetColor updates the color of a stored highlight.
func (s *Service) SetColor(ctx context.Context, page, id, color string) (*highlight.Record, error) {
	return s.update(ctx, page, id, func(r *highlight.Record) {
		r.Color = color
	})
}

// AddNote appends a note to a stored highlight.
func (s *Service) AddNote(ctx context.Context, page, id, note string) (*highlight.Record, error) {
	if strings.TrimSpace(note) == "" {
		return nil, errors.New("app: note required")
	}
	return s.update(ctx, page, id, func(r *highlight.Record) {
		r.Notes = append(r.Notes, note)
	})
}

func (s *Service) update(ctx context.Context, page, id string, fn func(*highlight.Record)) (*highlight.Record, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	r, err := s.find(ctx, page, id)
	if err != nil {
		return nil, err
	}
	fn(r)
	if err := s.Persistence.Store(page, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) find(ctx context.Context, page, id string) (*highlight.Record, error) {
	for _, r := range s.Persistence.List(ctx, page) {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, ErrNotFound
}

// relation computes how two records sit relative to each other. Without a
// layout-backed Relate hook only same-anchor relations are visible: text
// ranges that intersect overlap, ranges that touch end-to-start are
// adjacent, and any non-text pairing on the same element shares content.
func (s *Service) relation(a, b *highlight.Record) (highlight.Relation, bool) {
	if s.Relate != nil {
		return s.Relate(a, b)
	}
	if a.AnchorPath != b.AnchorPath {
		return "", false
	}
	if a.Type != highlight.TypeText || b.Type != highlight.TypeText {
		return highlight.RelationOverlap, true
	}
	if a.StartOffset < b.EndOffset && b.StartOffset < a.EndOffset {
		return highlight.RelationOverlap, true
	}
	if a.EndOffset == b.StartOffset || b.EndOffset == a.StartOffset {
		return highlight.RelationAdjacent, true
	}
	return "", false
}

// mergeRecords folds from into the stored record into: union range, content
// stitched in document order, concatenated notes, earliest creation time.
// The stored record's id survives so external references stay valid.
func mergeRecords(into, from *highlight.Record) *highlight.Record {
	out := *into
	if into.AnchorPath == from.AnchorPath {
		if from.StartOffset <= into.StartOffset {
			out.Content = from.Content + into.Content
		} else {
			out.Content = into.Content + from.Content
		}
		if from.StartOffset < out.StartOffset {
			out.StartOffset = from.StartOffset
		}
		if from.EndOffset > out.EndOffset {
			out.EndOffset = from.EndOffset
		}
	}
	if into.Type != from.Type {
		out.Type = highlight.TypeComplex
	}
	out.Notes = append(append([]string(nil), into.Notes...), from.Notes...)
	if !from.CreatedAt.IsZero() && (out.CreatedAt.IsZero() || from.CreatedAt.Before(out.CreatedAt)) {
		out.CreatedAt = from.CreatedAt
	}
	if out.Color == "" {
		out.Color = from.Color
	}
	return &out
}
