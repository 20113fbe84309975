package tui

import (
	"context"

	"tableflip.dev/marker/pkg/app"
	"tableflip.dev/marker/pkg/highlight"
)

// pageSource adapts the highlight service to the engine's persistence
// contract for a single page. It caches the record sequence so every render
// pass reads the same slice, and reloads on store change events.
type pageSource struct {
	svc  *app.Service
	page string

	recs    []*highlight.Record
	changed bool
}

func newPageSource(svc *app.Service, page string) *pageSource {
	s := &pageSource{svc: svc, page: page}
	s.reload()
	return s
}

func (s *pageSource) reload() {
	recs, err := s.svc.Highlights(context.Background(), s.page)
	if err != nil {
		return
	}
	s.recs = recs
}

func (s *pageSource) CurrentHighlights() []*highlight.Record { return s.recs }

func (s *pageSource) PersistHighlights(recs []*highlight.Record) {
	s.recs = recs
	_ = s.svc.Persistence.SaveAll(s.page, recs)
}

func (s *pageSource) NotifyHighlightsChanged() { s.changed = true }

// consumeChanged reports and clears the changed flag; the model refreshes
// the status line from it.
func (s *pageSource) consumeChanged() bool {
	c := s.changed
	s.changed = false
	return c
}

// statusNotifier surfaces selection broadcasts on the status bar; the TUI
// has no external listeners, so the bar is the broadcast surface.
type statusNotifier struct {
	lastSelected string
}

func (n *statusNotifier) NotifySelection(highlightID string) error {
	n.lastSelected = highlightID
	return nil
}
