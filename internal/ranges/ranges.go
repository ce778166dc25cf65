// Package ranges implements integer interval arithmetic over study units and
// the completion math built on top of it.
package ranges

import "sort"

// Range is an inclusive interval of absolute unit numbers
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of units covered by the range
func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

// UnitRange is a contiguous run of unit numbers with its size
type UnitRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
	Count int `json:"count"`
}

// MergeUnitsToRanges collapses a set of unit numbers into ascending runs of
// consecutive units. Duplicates are ignored.
func MergeUnitsToRanges(units []int) []UnitRange {
	if len(units) == 0 {
		return []UnitRange{}
	}

	sorted := make([]int, len(units))
	copy(sorted, units)
	sort.Ints(sorted)

	result := []UnitRange{{Start: sorted[0], End: sorted[0], Count: 1}}
	for _, u := range sorted[1:] {
		last := &result[len(result)-1]
		switch {
		case u == last.End:
			// duplicate
		case u == last.End+1:
			last.End = u
			last.Count++
		default:
			result = append(result, UnitRange{Start: u, End: u, Count: 1})
		}
	}
	return result
}

// MergeRanges sorts ranges by start and merges the ones that overlap or touch.
// [1,3] and [4,6] merge into [1,6]; [1,3] and [5,6] stay apart.
func MergeRanges(ranges []Range) []Range {
	if len(ranges) == 0 {
		return []Range{}
	}

	sorted := make([]Range, len(ranges))
	copy(sorted, ranges)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	merged := []Range{sorted[0]}
	for _, r := range sorted[1:] {
		last := &merged[len(merged)-1]
		if r.Start <= last.End+1 {
			if r.End > last.End {
				last.End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}
