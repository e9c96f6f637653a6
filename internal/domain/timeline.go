package domain

import (
	"slices"
	"time"
)

// UnionTimeline returns the sorted, deduplicated union of the given
// timestamp sets. The union is associative, commutative, and idempotent.
func UnionTimeline(sets ...[]time.Time) []time.Time {
	seen := make(map[int64]struct{})
	var out []time.Time
	for _, set := range sets {
		for _, t := range set {
			key := t.UnixNano()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, t.UTC())
		}
	}
	slices.SortFunc(out, func(a, b time.Time) int { return a.Compare(b) })
	return out
}

// timelineIndex maps each timeline instant to its row position.
func timelineIndex(timeline []time.Time) map[int64]int {
	idx := make(map[int64]int, len(timeline))
	for i, t := range timeline {
		idx[t.UnixNano()] = i
	}
	return idx
}

// reindex projects values keyed by times onto the timeline. Timeline rows
// with no matching time are nil. When a time repeats in the source, the
// first occurrence wins.
func reindex[T any](timeline []time.Time, idx map[int64]int, times []time.Time, values []*T) []*T {
	out := make([]*T, len(timeline))
	filled := make([]bool, len(timeline))
	for i, t := range times {
		row, ok := idx[t.UnixNano()]
		if !ok || filled[row] {
			continue
		}
		filled[row] = true
		out[row] = values[i]
	}
	return out
}

func boolPtrs(values []bool) []*bool {
	out := make([]*bool, len(values))
	for i := range values {
		out[i] = &values[i]
	}
	return out
}
