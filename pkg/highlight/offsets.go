package highlight

// Stored text offsets exist in two historical encodings. Canonical offsets
// count characters from the anchor element's first text descendant; the
// legacy encoder wrote totalTextLength + actualOffset instead. New writes
// are always canonical, so legacy values only survive in old stored data
// and are normalized at read time.

// DecodeOffsets interprets a stored (start, end) pair against the anchor's
// total text length and returns canonical offsets with start <= end, both
// clamped to [0, total]. A pair is canonical when either value is strictly
// below the total; otherwise both are legacy-encoded.
func DecodeOffsets(total, start, end int) (s, e int, legacy bool) {
	s, e = start, end
	if total > 0 && s >= total && e >= total {
		legacy = true
		s -= total
		e -= total
	}
	if s > e {
		s, e = e, s
	}
	s = clamp(s, 0, total)
	e = clamp(e, 0, total)
	return s, e, legacy
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
