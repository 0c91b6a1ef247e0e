package evaluation

import (
	"fmt"
	"math/rand"
	"sort"
)

// Fold holds the instance indices of one train/test round.
type Fold struct {
	Train []int
	Test  []int
}

type KFoldSplitter struct {
	nFolds     int
	stratified bool
	randomSeed int64
}

func NewKFoldSplitter(nFolds int, stratified bool, randomSeed int64) *KFoldSplitter {
	return &KFoldSplitter{
		nFolds:     nFolds,
		stratified: stratified,
		randomSeed: randomSeed,
	}
}

// Split shuffles the instance indices with the seeded generator and deals
// them round-robin into folds. When stratified the shuffled indices are first
// grouped by label, keeping the shuffled order within a class, so each fold
// receives a near-equal share of every class. Labels of -1 (missing) form
// their own group.
func (kfs *KFoldSplitter) Split(labels []int) ([]Fold, error) {
	n := len(labels)
	if n == 0 {
		return nil, fmt.Errorf("%w: cannot split empty dataset", ErrEvaluationFailed)
	}
	if kfs.nFolds < 2 {
		return nil, fmt.Errorf("%w: number of folds must be at least 2, got %d", ErrEvaluationFailed, kfs.nFolds)
	}
	if kfs.nFolds > n {
		return nil, fmt.Errorf("%w: cannot have more folds (%d) than instances (%d)", ErrEvaluationFailed, kfs.nFolds, n)
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	rng := rand.New(rand.NewSource(kfs.randomSeed))
	rng.Shuffle(n, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	if kfs.stratified {
		sort.SliceStable(indices, func(i, j int) bool {
			return labels[indices[i]] < labels[indices[j]]
		})
	}

	assignment := make([]int, n)
	for pos, idx := range indices {
		assignment[idx] = pos % kfs.nFolds
	}

	folds := make([]Fold, kfs.nFolds)
	for idx := 0; idx < n; idx++ {
		for f := range folds {
			if assignment[idx] == f {
				folds[f].Test = append(folds[f].Test, idx)
			} else {
				folds[f].Train = append(folds[f].Train, idx)
			}
		}
	}

	return folds, nil
}
