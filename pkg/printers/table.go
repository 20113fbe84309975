package printers

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/marker/pkg/app"
)

// Pages prints a page overview table: one row per page with its highlight
// count.
func (pp *PrettyPrint) Pages(counts map[string]int, pages []string) {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Page"), bold.Sprint("Highlights"))
	for _, page := range pages {
		tbl.AddRow(truncate.StringWithTail(page, 60, "…"), counts[page])
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
}

// Report prints a creation-window report grouped by page.
func (pp *PrettyPrint) Report(result app.ReportResult) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	if result.Total == 0 {
		_, _ = faint.Println("no highlights in window")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Page"), bold.Sprint("When"), bold.Sprint("Content"), bold.Sprint("Notes"))
	for _, sec := range result.Sections {
		for _, item := range sec.Items {
			tbl.AddRow(
				truncate.StringWithTail(sec.Page, 40, "…"),
				item.CreatedAt.Local().Format("2006-01-02 15:04"),
				truncate.StringWithTail(item.Content, 48, "…"),
				item.Notes,
			)
		}
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
	_, _ = faint.Printf("%d total\n", result.Total)
}
