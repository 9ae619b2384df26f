package query

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/feral-file/ff-smartdial/internal/domain"
	"github.com/feral-file/ff-smartdial/internal/store/schema"
)

// Recency buckets, lower ranks first
const (
	RECENCY_CURRENT = iota // used within RECENCY_CURRENT_WINDOW
	RECENCY_RECENT         // used within RECENCY_RECENT_WINDOW
	RECENCY_STALE          // used earlier, or never
)

// recencyBucket classifies when a number was last used relative to now
func recencyBucket(lastUsed int64, now time.Time) int {
	if lastUsed <= 0 {
		return RECENCY_STALE
	}
	age := now.Sub(time.UnixMilli(lastUsed))
	switch {
	case age < domain.RECENCY_CURRENT_WINDOW:
		return RECENCY_CURRENT
	case age < domain.RECENCY_RECENT_WINDOW:
		return RECENCY_RECENT
	default:
		return RECENCY_STALE
	}
}

// compareBool orders true before false
func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	default:
		return 1
	}
}

// compareEntries orders candidates best first: starred, super primary, recency
// bucket, use count, visible group, display name, contact id, primary number.
func compareEntries(a, b *schema.IndexedEntry, now time.Time) int {
	if c := compareBool(a.Starred, b.Starred); c != 0 {
		return c
	}
	if c := compareBool(a.IsSuperPrimary, b.IsSuperPrimary); c != 0 {
		return c
	}
	if c := cmp.Compare(recencyBucket(a.LastTimeUsed, now), recencyBucket(b.LastTimeUsed, now)); c != 0 {
		return c
	}
	if c := cmp.Compare(b.TimesUsed, a.TimesUsed); c != 0 {
		return c
	}
	if c := compareBool(a.InVisibleGroup, b.InVisibleGroup); c != 0 {
		return c
	}
	if c := strings.Compare(a.DisplayName, b.DisplayName); c != 0 {
		return c
	}
	if c := cmp.Compare(a.ContactID, b.ContactID); c != 0 {
		return c
	}
	return compareBool(a.IsPrimary, b.IsPrimary)
}

// rank sorts entries in place by ranking key
func rank(entries []schema.IndexedEntry, now time.Time) {
	slices.SortStableFunc(entries, func(a, b schema.IndexedEntry) int {
		return compareEntries(&a, &b, now)
	})
}
