// Package migrate rewrites legacy-encoded highlight offsets against a live
// document.
package migrate

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"tableflip.dev/marker/pkg/app"
	"tableflip.dev/marker/pkg/doc"
	"tableflip.dev/marker/pkg/markdown"
)

// Migrate loads a markdown page, measures every anchored element's text
// length, and normalizes stored offsets that still use the end-relative
// encoding.
type Migrate struct {
	Path    string
	Page    string
	Service *app.Service
}

func (n *Migrate) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not migrate, no service")
	}
	page := n.Page
	if page == "" {
		abs, err := filepath.Abs(n.Path)
		if err != nil {
			return err
		}
		page = abs
	}

	d, err := markdown.LoadFile(n.Path)
	if err != nil {
		return err
	}

	totals := make(map[string]int)
	var walk func(el *doc.Node)
	walk = func(el *doc.Node) {
		if el.Kind == doc.ElementNode {
			if path := doc.PathOf(el); path != "" {
				totals[path] = doc.TotalTextLength(el)
			}
		}
		for _, c := range el.Children {
			walk(c)
		}
	}
	walk(d.Root())

	changed, err := n.Service.NormalizeOffsets(ctx, page, totals)
	if err != nil {
		return err
	}
	fmt.Printf("normalized %d record(s) on %s\n", changed, page)
	return nil
}
