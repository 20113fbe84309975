// Package edit holds the small write operations on a stored highlight:
// recoloring and removal.
package edit

import (
	"context"
	"errors"

	"tableflip.dev/marker/pkg/app"
	"tableflip.dev/marker/pkg/printers"
)

// Color sets the color of a stored highlight.
type Color struct {
	Page    string
	ID      string
	Color   string
	Service *app.Service
}

func (c *Color) Do(ctx context.Context) error {
	if c.Service == nil {
		return errors.New("can not recolor, no service")
	}
	rec, err := c.Service.SetColor(ctx, c.Page, c.ID, c.Color)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{ShowID: true}
	pp.NewLine()
	pp.Page(rec)
	return nil
}

// Remove deletes a stored highlight permanently.
type Remove struct {
	Page    string
	ID      string
	Service *app.Service
}

func (r *Remove) Do(ctx context.Context) error {
	if r.Service == nil {
		return errors.New("can not remove, no service")
	}
	return r.Service.Delete(ctx, r.Page, r.ID)
}
