package app

import (
	"context"
	"errors"
	"sort"
	"time"
)

// ReportItem captures one highlight inside a report window.
type ReportItem struct {
	ID        string
	Content   string
	Color     string
	Notes     int
	CreatedAt time.Time
}

// ReportSection groups report items by page.
type ReportSection struct {
	Page  string
	Items []ReportItem
}

// ReportResult encapsulates a highlights-created report for a time window.
type ReportResult struct {
	Since    time.Time
	Until    time.Time
	Sections []ReportSection
	Total    int
}

// Report returns highlights created between the provided bounds, grouped by
// page and ordered by creation time within each page.
func (s *Service) Report(ctx context.Context, since, until time.Time) (ReportResult, error) {
	if s.Persistence == nil {
		return ReportResult{}, errors.New("app: no persistence configured")
	}
	if since.After(until) {
		since, until = until, since
	}
	now := time.Now()

	grouped := make(map[string][]ReportItem)
	total := 0
	for page, recs := range s.Persistence.MapAll(ctx) {
		for _, r := range recs {
			created := r.Created(now)
			if !since.IsZero() && created.Before(since) {
				continue
			}
			if !until.IsZero() && created.After(until) {
				continue
			}
			grouped[page] = append(grouped[page], ReportItem{
				ID:        r.ID,
				Content:   r.Content,
				Color:     r.ResolvedColor(),
				Notes:     len(r.Notes),
				CreatedAt: created,
			})
			total++
		}
	}

	pages := make([]string, 0, len(grouped))
	for page := range grouped {
		pages = append(pages, page)
	}
	sort.Strings(pages)

	sections := make([]ReportSection, 0, len(pages))
	for _, page := range pages {
		items := grouped[page]
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].CreatedAt.Equal(items[j].CreatedAt) {
				return items[i].ID < items[j].ID
			}
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		})
		sections = append(sections, ReportSection{Page: page, Items: items})
	}

	return ReportResult{
		Since:    since,
		Until:    until,
		Sections: sections,
		Total:    total,
	}, nil
}
