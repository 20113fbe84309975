package store

import (
	"context"
	"testing"

	"tableflip.dev/marker/pkg/highlight"
)

func TestStoreRoundTripsNonASCIIPages(t *testing.T) {
	base := t.TempDir()
	p, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}
	ctx := context.Background()

	// The standard base64 alphabet encodes this page with a `/`, which
	// diskv rejects inside a key segment; the URL-safe alphabet encodes
	// "notes/až.md" with a `-`, which the key split must reassemble.
	pages := []string{"/notes/oé.md", "notes/až.md"}
	for i, page := range pages {
		r := &highlight.Record{
			ID:         "01HZZZZZZZZZZZZZZZZZZZZZZ" + string(rune('A'+i)),
			Type:       highlight.TypeText,
			AnchorPath: "/body[0]/p[0]",
			EndOffset:  5,
			Content:    "hello",
		}
		if err := p.Store(page, r); err != nil {
			t.Fatalf("store on %q: %v", page, err)
		}
		got := p.List(ctx, page)
		if len(got) != 1 || got[0].ID != r.ID {
			t.Fatalf("list %q = %+v, want the stored record", page, got)
		}
	}

	listed := p.Pages(ctx, "")
	if len(listed) != 2 {
		t.Fatalf("pages = %v, want both stored pages", listed)
	}
	for _, page := range pages {
		found := false
		for _, got := range listed {
			if got == page {
				found = true
			}
		}
		if !found {
			t.Fatalf("page %q missing from %v", page, listed)
		}
	}

	all := p.MapAll(ctx)
	for _, page := range pages {
		if len(all[page]) != 1 {
			t.Fatalf("MapAll lost page %q: %v", page, all)
		}
	}

	if err := p.Delete(pages[0], "01HZZZZZZZZZZZZZZZZZZZZZZA"); err != nil {
		t.Fatalf("delete on %q: %v", pages[0], err)
	}
	if got := p.List(ctx, pages[0]); len(got) != 0 {
		t.Fatalf("record survived delete on %q", pages[0])
	}
}
