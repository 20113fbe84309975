package paint

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/marker/pkg/app"
	"tableflip.dev/marker/pkg/tui"
)

// Paint renders a markdown page with its stored highlights once and prints
// the result, no interaction loop.
type Paint struct {
	Path    string
	Width   int
	Service *app.Service
}

func (p *Paint) Do(ctx context.Context) error {
	if p.Service == nil {
		return errors.New("can not paint, no service")
	}
	out, err := tui.RenderPage(p.Service, p.Path, p.Width)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(color.Output, out)
	return nil
}
