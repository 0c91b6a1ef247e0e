package evaluation

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKFoldSplitterPartitions(t *testing.T) {
	labels := make([]int, 23)
	for i := range labels {
		labels[i] = i % 3
	}

	folds, err := NewKFoldSplitter(5, true, 1).Split(labels)
	require.NoError(t, err)
	require.Len(t, folds, 5)

	var tested []int
	for _, fold := range folds {
		assert.Len(t, fold.Train, len(labels)-len(fold.Test))
		assert.InDelta(t, len(labels)/5, len(fold.Test), 1)

		inTest := make(map[int]bool)
		for _, idx := range fold.Test {
			inTest[idx] = true
		}
		for _, idx := range fold.Train {
			assert.False(t, inTest[idx], "index %d in both train and test", idx)
		}
		tested = append(tested, fold.Test...)
	}

	sort.Ints(tested)
	for i, idx := range tested {
		assert.Equal(t, i, idx)
	}
}

func TestKFoldSplitterStratifies(t *testing.T) {
	labels := make([]int, 20)
	for i := 10; i < 20; i++ {
		labels[i] = 1
	}

	folds, err := NewKFoldSplitter(5, true, 1).Split(labels)
	require.NoError(t, err)

	for _, fold := range folds {
		counts := map[int]int{}
		for _, idx := range fold.Test {
			counts[labels[idx]]++
		}
		assert.Equal(t, map[int]int{0: 2, 1: 2}, counts)
	}
}

func TestKFoldSplitterIsSeeded(t *testing.T) {
	labels := []int{0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 1, 1}

	a, err := NewKFoldSplitter(3, true, 42).Split(labels)
	require.NoError(t, err)
	b, err := NewKFoldSplitter(3, true, 42).Split(labels)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestKFoldSplitterErrors(t *testing.T) {
	tests := []struct {
		name   string
		folds  int
		labels []int
	}{
		{"empty", 2, nil},
		{"one fold", 1, []int{0, 1, 0}},
		{"more folds than instances", 10, []int{0, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewKFoldSplitter(tt.folds, true, 1).Split(tt.labels)
			assert.ErrorIs(t, err, ErrEvaluationFailed)
		})
	}
}
