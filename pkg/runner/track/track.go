// Package track summarizes highlight activity on a calendar.
package track

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/marker/pkg/app"
	"tableflip.dev/marker/pkg/highlight"
	"tableflip.dev/marker/pkg/printers"
)

// Track prints a calendar with highlight-creation activity marked, for one
// page or across the whole store.
type Track struct {
	Page    string
	Year    bool
	Service *app.Service
}

func (n *Track) Do(ctx context.Context) error {
	pp := printers.PrettyPrint{}

	if n.Service == nil {
		return errors.New("can not track, no service")
	}
	fmt.Println("")

	var recs []*highlight.Record
	if n.Page != "" {
		all, err := n.Service.Highlights(ctx, n.Page)
		if err != nil {
			return err
		}
		recs = all
		pp.Title(n.Page)
	} else {
		for _, all := range n.Service.Persistence.MapAll(ctx) {
			recs = append(recs, all...)
		}
		pp.Title("all pages")
	}

	if n.Year {
		pp.TrackingYear(recs...)
		return nil
	}
	pp.Tracking(recs...)
	return nil
}
