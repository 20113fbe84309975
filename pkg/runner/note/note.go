package note

import (
	"context"
	"errors"

	"tableflip.dev/marker/pkg/app"
	"tableflip.dev/marker/pkg/printers"
)

// Note appends a note to a stored highlight.
type Note struct {
	Page    string
	ID      string
	Note    string
	Service *app.Service
}

func (n *Note) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not note, no service")
	}
	rec, err := n.Service.AddNote(ctx, n.Page, n.ID, n.Note)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{ShowID: true}
	pp.NewLine()
	pp.Page(rec)
	return nil
}
