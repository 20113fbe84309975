package highlight

// Relation describes how two highlights sit relative to each other on the
// page. The creation/update pipeline computes it; the policy below only
// decides.
type Relation string

const (
	// RelationAdjacent means the highlights touch without sharing content.
	RelationAdjacent Relation = "adjacent"
	// RelationOverlap means the highlights share content.
	RelationOverlap Relation = "overlap"
)

// ShouldMerge decides whether two spatially related highlights collapse into
// one record. Overlapping highlights never merge: a short highlight layered
// inside a longer one is a supported arrangement. Adjacent highlights merge
// unless both are text highlights on the same anchor with differing resolved
// colors; any adjacency involving a non-text highlight merges regardless of
// color.
func ShouldMerge(a, b *Record, rel Relation) bool {
	if a == nil || b == nil {
		return false
	}
	switch rel {
	case RelationOverlap:
		return false
	case RelationAdjacent:
		if a.Type == TypeText && b.Type == TypeText &&
			a.AnchorPath == b.AnchorPath &&
			a.ResolvedColor() != b.ResolvedColor() {
			return false
		}
		return true
	default:
		return false
	}
}
