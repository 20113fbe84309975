// Package report renders creation-window reports of stored highlights.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/marker/pkg/app"
	"tableflip.dev/marker/pkg/printers"
	"tableflip.dev/marker/pkg/timeutil"
)

// Report prints the highlights created inside a lookback window, grouped by
// page.
type Report struct {
	Window  string
	Service *app.Service
}

func (n *Report) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not report, no service")
	}
	window, canonical, err := timeutil.ParseWindow(n.Window)
	if err != nil {
		return err
	}
	until := time.Now()
	since := until.Add(-window)

	result, err := n.Service.Report(ctx, since, until)
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	_, _ = bold.Printf("\nHighlights in the last %s\n\n", canonical)
	pp := printers.PrettyPrint{}
	pp.Report(result)
	fmt.Println("")
	return nil
}
