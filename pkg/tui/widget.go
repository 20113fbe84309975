package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/marker/pkg/highlight"
	"tableflip.dev/marker/pkg/tui/theme"
)

// notesWidget is the floating panel anchored below a selected highlight. The
// engine opens, closes, and repositions it; the model draws it over the page.
type notesWidget struct {
	theme theme.NotesTheme

	// anchorFor re-resolves the panel position from live overlay geometry.
	anchorFor func(id string) (x, y int, ok bool)
	record    func(id string) *highlight.Record

	open bool
	id   string
	x, y int // document pixels
}

func (w *notesWidget) Open(highlightID string, x, y int) {
	w.open = true
	w.id = highlightID
	w.x, w.y = x, y
}

func (w *notesWidget) Close() {
	w.open = false
	w.id = ""
}

func (w *notesWidget) Reposition() {
	if !w.open || w.anchorFor == nil {
		return
	}
	if x, y, ok := w.anchorFor(w.id); ok {
		w.x, w.y = x, y
		return
	}
	// The highlight left the page; the panel has nothing to anchor to.
	w.Close()
}

// View renders the panel, capped to the given cell width.
func (w *notesWidget) View(maxWidth int) string {
	if !w.open || w.record == nil {
		return ""
	}
	rec := w.record(w.id)
	if rec == nil {
		return ""
	}

	inner := maxWidth - w.theme.Frame.GetHorizontalFrameSize()
	if inner > 44 {
		inner = 44
	}
	if inner < 12 {
		inner = 12
	}

	var b strings.Builder
	title := strings.TrimSpace(rec.Content)
	if title == "" {
		title = fmt.Sprintf("(%s) %s", rec.Type, rec.AnchorPath)
	}
	if len([]rune(title)) > inner {
		title = string([]rune(title)[:inner-1]) + "…"
	}
	b.WriteString(w.theme.Title.Render(title))
	for _, note := range rec.Notes {
		if strings.TrimSpace(note) == "" {
			continue
		}
		b.WriteString("\n")
		b.WriteString(w.theme.Note.Render(wordwrap.String("↳ "+note, inner)))
	}
	if !rec.HasNotes() {
		b.WriteString("\n")
		b.WriteString(w.theme.Note.Render("no notes · :note <text> to add one"))
	}
	return w.theme.Frame.Render(b.String())
}
