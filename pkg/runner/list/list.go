package list

import (
	"context"
	"errors"

	"tableflip.dev/marker/pkg/app"
	"tableflip.dev/marker/pkg/printers"
)

// List prints stored highlights: one page in detail, or the page overview
// table when no page is given.
type List struct {
	ShowID  bool
	Page    string
	Service *app.Service
}

func (l *List) Do(ctx context.Context) error {
	if l.Service == nil {
		return errors.New("can not list, no service")
	}
	pp := printers.PrettyPrint{ShowID: l.ShowID}

	if l.Page != "" {
		recs, err := l.Service.Highlights(ctx, l.Page)
		if err != nil {
			return err
		}
		pp.NewLine()
		pp.TitleWithCount(l.Page, len(recs))
		pp.Page(recs...)
		return nil
	}

	all := l.Service.Persistence.MapAll(ctx)
	pages, err := l.Service.Pages(ctx)
	if err != nil {
		return err
	}
	counts := make(map[string]int, len(all))
	for page, recs := range all {
		counts[page] = len(recs)
	}
	pp.Pages(counts, pages)
	return nil
}
