package app

import (
	"context"
	"errors"

	"tableflip.dev/marker/pkg/highlight"
)

// NormalizeOffsets rewrites records whose stored offsets still use the
// historical end-relative encoding into canonical character offsets.
// totals maps anchor paths to the current text length of the anchored
// element; records whose anchor is missing from the map are left alone,
// since decoding needs the element's length to tell the encodings apart.
// Returns how many records were rewritten.
func (s *Service) NormalizeOffsets(ctx context.Context, page string, totals map[string]int) (int, error) {
	if s.Persistence == nil {
		return 0, errors.New("app: no persistence configured")
	}
	changed := 0
	for _, r := range s.Persistence.List(ctx, page) {
		if r.Type != highlight.TypeText {
			continue
		}
		total, ok := totals[r.AnchorPath]
		if !ok || total <= 0 {
			continue
		}
		start, end, _ := highlight.DecodeOffsets(total, r.StartOffset, r.EndOffset)
		if start == r.StartOffset && end == r.EndOffset {
			continue
		}
		r.StartOffset = start
		r.EndOffset = end
		if err := s.Persistence.Store(page, r); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}
