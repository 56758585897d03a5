package chaindump

import "fmt"

// Range is a concrete, inclusive block number range. It is resolved once at
// the start of an export; the upper bound stays fixed even if the store
// advances while the export runs.
type Range struct {
	Start uint64
	End   uint64
}

// Count returns the number of blocks covered by the range.
func (r Range) Count() uint64 {
	return r.End - r.Start + 1
}

// ResolveRange resolves a requested range against the store's current head.
// A nil end means "latest at resolution time". ok is false when the resolved
// range is empty, which is nothing-to-do rather than an error. An explicit end
// beyond the store's latest block fails with ErrRangeUnavailable.
func ResolveRange(st HeadReader, start uint64, end *uint64) (Range, bool, error) {
	latest, _, ok := st.Head()
	if !ok {
		if end != nil {
			return Range{}, false, fmt.Errorf("%w: store is empty, cannot reach block %d", ErrRangeUnavailable, *end)
		}
		return Range{}, false, nil
	}

	resolved := latest
	if end != nil {
		if *end > latest {
			return Range{}, false, fmt.Errorf("%w: end block %d is beyond latest block %d", ErrRangeUnavailable, *end, latest)
		}
		resolved = *end
	}

	if start > resolved {
		return Range{}, false, nil
	}
	return Range{Start: start, End: resolved}, true, nil
}
