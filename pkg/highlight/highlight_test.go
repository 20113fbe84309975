package highlight

import (
	"testing"
	"time"
)

func TestDecodeOffsets(t *testing.T) {
	cases := []struct {
		name              string
		total, start, end int
		wantS, wantE      int
		wantLegacy        bool
	}{
		{"canonical", 20, 3, 7, 3, 7, false},
		{"legacy both above total", 20, 23, 27, 3, 7, true},
		{"mixed stays canonical clamped", 20, 3, 25, 3, 20, false},
		{"reversed capture swaps", 20, 7, 3, 3, 7, false},
		{"legacy reversed swaps", 20, 27, 23, 3, 7, true},
		{"negative clamps to zero", 20, -4, 7, 0, 7, false},
		{"empty element", 0, 3, 7, 0, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, e, legacy := DecodeOffsets(tc.total, tc.start, tc.end)
			if s != tc.wantS || e != tc.wantE || legacy != tc.wantLegacy {
				t.Fatalf("DecodeOffsets(%d, %d, %d) = (%d, %d, %v), want (%d, %d, %v)",
					tc.total, tc.start, tc.end, s, e, legacy, tc.wantS, tc.wantE, tc.wantLegacy)
			}
		})
	}
}

func TestCreatedTime(t *testing.T) {
	now := time.Date(2025, time.June, 1, 10, 30, 0, 0, time.UTC)
	id := NewID(now)
	got, ok := CreatedTime(id)
	if !ok {
		t.Fatalf("ULID id yielded no timestamp")
	}
	if got.UnixMilli() != now.UnixMilli() {
		t.Fatalf("ULID timestamp = %v, want %v", got, now)
	}

	legacy, ok := CreatedTime("1717237800000")
	if !ok {
		t.Fatalf("legacy decimal id yielded no timestamp")
	}
	if legacy.UnixMilli() != 1717237800000 {
		t.Fatalf("legacy timestamp = %v", legacy)
	}

	for _, bad := range []string{"", "banana", "-5", "0"} {
		if _, ok := CreatedTime(bad); ok {
			t.Fatalf("id %q should yield no timestamp", bad)
		}
	}
}

func TestShouldMergeTruthTable(t *testing.T) {
	textA := &Record{Type: TypeText, AnchorPath: "/body[0]/p[0]", StartOffset: 6, EndOffset: 11, Color: "#86d26f"}
	textB := &Record{Type: TypeText, AnchorPath: "/body[0]/p[0]", StartOffset: 0, EndOffset: 19, Color: "#ffeb3b"}
	sameA := &Record{Type: TypeText, AnchorPath: "/body[0]/p[0]", StartOffset: 0, EndOffset: 5, Color: "#ffeb3b"}
	sameB := &Record{Type: TypeText, AnchorPath: "/body[0]/p[0]", StartOffset: 5, EndOffset: 11, Color: "#ffeb3b"}
	elem := &Record{Type: TypeElement, AnchorPath: "/body[0]/p[0]", Color: "#86d26f"}

	cases := []struct {
		name string
		a, b *Record
		rel  Relation
		want bool
	}{
		{"overlap different colors", textA, textB, RelationOverlap, false},
		{"overlap same colors", sameA, sameB, RelationOverlap, false},
		{"adjacent same color", sameA, sameB, RelationAdjacent, true},
		{"adjacent colors differ", textA, textB, RelationAdjacent, false},
		{"adjacent element and text", elem, textB, RelationAdjacent, true},
		{"adjacent text and element", textA, elem, RelationAdjacent, true},
		{"unknown relation", sameA, sameB, Relation("near"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ShouldMerge(tc.a, tc.b, tc.rel); got != tc.want {
				t.Fatalf("ShouldMerge(%s) = %v, want %v", tc.rel, got, tc.want)
			}
		})
	}
}

func TestResolvedColorFallback(t *testing.T) {
	a := &Record{Type: TypeText}
	b := &Record{Type: TypeText, Color: DefaultColor}
	if a.ResolvedColor() != b.ResolvedColor() {
		t.Fatalf("colorless record should resolve to the default color")
	}
}

func TestHasNotes(t *testing.T) {
	r := &Record{Notes: []string{"", "  "}}
	if r.HasNotes() {
		t.Fatalf("blank notes should not count")
	}
	r.Notes = append(r.Notes, "check the appendix")
	if !r.HasNotes() {
		t.Fatalf("non-empty note not detected")
	}
}
