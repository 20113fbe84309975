package tui

import (
	"path/filepath"

	"tableflip.dev/marker/pkg/app"
	"tableflip.dev/marker/pkg/engine"
	"tableflip.dev/marker/pkg/layout"
	"tableflip.dev/marker/pkg/markdown"
	"tableflip.dev/marker/pkg/tui/theme"
)

// RenderPage runs one full resolve/plan/render pass over a markdown page and
// returns the styled terminal rendering. This is the non-interactive painter
// behind `marker paint`.
func RenderPage(service *app.Service, path string, widthCells int) (string, error) {
	if widthCells <= 0 {
		widthCells = 80
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	d, err := markdown.LoadFile(path)
	if err != nil {
		return "", err
	}
	lay := layout.New(d, layout.DefaultMetrics())
	lay.SetViewport(layout.Viewport{Width: widthCells * lay.Metrics.CellWidth})

	src := newPageSource(service, abs)
	eng := engine.New(engine.Config{Doc: d, Layout: lay, Source: src})
	eng.PlanAndRenderAll()

	pv := &pageView{theme: theme.Default().Page, lay: lay, rend: eng.Renderer()}
	return pv.render(src.CurrentHighlights(), "", nil, nil), nil
}
