package store

import (
	"context"
	"testing"
	"time"

	"tableflip.dev/marker/pkg/highlight"
)

type testConfig struct {
	path string
}

func (t testConfig) BasePath() string {
	return t.path
}

func TestPersistenceWatchEmitsPageChanges(t *testing.T) {
	base := t.TempDir()
	p, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow watcher goroutine to subscribe to directories before storing.
	time.Sleep(50 * time.Millisecond)

	r := &highlight.Record{
		Type:       highlight.TypeText,
		AnchorPath: "/body[0]/p[0]",
		EndOffset:  5,
		Content:    "hello",
	}
	if err := p.Store("https://example.com/a", r); err != nil {
		t.Fatalf("store record: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Type == EventPagesInvalidated {
				return
			}
			if evt.Type == EventPageChanged {
				if evt.Page != "https://example.com/a" {
					t.Fatalf("expected page 'https://example.com/a', got %q", evt.Page)
				}
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for page change event")
		}
	}
}

func TestSaveAllReplacesPageSet(t *testing.T) {
	base := t.TempDir()
	p, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}

	page := "https://example.com/b"
	a := &highlight.Record{ID: "01HZZZZZZZZZZZZZZZZZZZZZZA", Type: highlight.TypeText, AnchorPath: "/body[0]/p[0]", EndOffset: 3}
	b := &highlight.Record{ID: "01HZZZZZZZZZZZZZZZZZZZZZZB", Type: highlight.TypeText, AnchorPath: "/body[0]/p[1]", EndOffset: 4}
	if err := p.SaveAll(page, []*highlight.Record{a, b}); err != nil {
		t.Fatalf("save all: %v", err)
	}

	ctx := context.Background()
	if got := p.List(ctx, page); len(got) != 2 {
		t.Fatalf("listed %d records, want 2", len(got))
	}

	// Dropping a record from the sequence erases it from disk.
	if err := p.SaveAll(page, []*highlight.Record{b}); err != nil {
		t.Fatalf("save all: %v", err)
	}
	got := p.List(ctx, page)
	if len(got) != 1 || got[0].ID != b.ID {
		t.Fatalf("surviving records = %+v, want just %s", got, b.ID)
	}

	if pages := p.Pages(ctx, ""); len(pages) != 1 || pages[0] != page {
		t.Fatalf("pages = %v", pages)
	}
}
