package ranges

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeRanges(t *testing.T) {
	tests := []struct {
		name string
		in   []Range
		want []Range
	}{
		{"empty", nil, []Range{}},
		{"adjacent merge", []Range{{1, 3}, {4, 6}}, []Range{{1, 6}}},
		{"gap stays apart", []Range{{1, 3}, {5, 6}}, []Range{{1, 3}, {5, 6}}},
		{"overlap", []Range{{5, 9}, {1, 6}}, []Range{{1, 9}}},
		{"contained", []Range{{1, 10}, {3, 4}}, []Range{{1, 10}}},
		{"unsorted chain", []Range{{7, 8}, {1, 2}, {3, 6}, {12, 12}}, []Range{{1, 8}, {12, 12}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeRanges(tt.in))
		})
	}
}

func TestMergeRanges_Idempotent(t *testing.T) {
	in := []Range{{10, 12}, {1, 3}, {2, 5}, {7, 7}, {8, 9}}
	once := MergeRanges(in)
	assert.Equal(t, once, MergeRanges(once))
	assert.Equal(t, []Range{{1, 5}, {7, 12}}, once)
}

func TestMergeRanges_DoesNotMutateInput(t *testing.T) {
	in := []Range{{4, 6}, {1, 3}}
	MergeRanges(in)
	assert.Equal(t, []Range{{4, 6}, {1, 3}}, in)
}

func TestMergeUnitsToRanges(t *testing.T) {
	assert.Empty(t, MergeUnitsToRanges(nil))

	got := MergeUnitsToRanges([]int{9, 3, 5, 4, 4})
	assert.Equal(t, []UnitRange{
		{Start: 3, End: 5, Count: 3},
		{Start: 9, End: 9, Count: 1},
	}, got)
}

func TestMergeUnitsToRanges_Idempotent(t *testing.T) {
	first := MergeUnitsToRanges([]int{1, 2, 3, 7, 8, 20})

	var units []int
	for _, r := range first {
		for u := r.Start; u <= r.End; u++ {
			units = append(units, u)
		}
	}
	assert.Equal(t, first, MergeUnitsToRanges(units))
}
