package highlight

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewID mints a highlight id carrying the creation time. New records always
// use ULIDs; decimal millisecond ids only appear in data written by old
// versions.
func NewID(t time.Time) string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// CreatedTime recovers the creation time encoded in an id: ULID time for
// current ids, epoch milliseconds for legacy decimal ids. ok is false when
// the id parses to neither (non-positive decimal counts as neither) and
// callers substitute the current time.
func CreatedTime(id string) (time.Time, bool) {
	if u, err := ulid.ParseStrict(id); err == nil {
		return ulid.Time(u.Time()), true
	}
	ms, err := strconv.ParseInt(id, 10, 64)
	if err != nil || ms <= 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}
