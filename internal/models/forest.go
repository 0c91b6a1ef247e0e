package models

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/shopspring/decimal"
)

// RandomForest averages the leaf distributions of bootstrapped trees, each
// grown on a random subset of sqrt(features) columns. Tree i is seeded with
// Seed+i, so a fitted forest is reproducible regardless of MaxWorkers.
type RandomForest struct {
	BaseModel
	NTrees          int
	MaxDepth        int
	MinSamplesSplit int
	MaxFeatures     int
	Seed            int64
	Trees           []*DecisionTree
	FeatureIndices  [][]int
	MaxWorkers      int

	nFeatures int
}

func NewRandomForest(nTrees, maxDepth, minSamplesSplit int) *RandomForest {
	if nTrees <= 0 {
		nTrees = 100
	}

	return &RandomForest{
		NTrees:          nTrees,
		MaxDepth:        maxDepth,
		MinSamplesSplit: minSamplesSplit,
		Seed:            1,
		MaxWorkers:      4,
		BaseModel: BaseModel{
			Name: "RandomForest",
			Params: map[string]any{
				"n_trees":           nTrees,
				"max_depth":         maxDepth,
				"min_samples_split": minSamplesSplit,
			},
		},
	}
}

func (rf *RandomForest) Fit(X [][]decimal.Decimal, y []int, numClasses int) error {
	if len(X) != len(y) {
		return fmt.Errorf("%w: %d rows but %d labels", ErrModelBuildFailed, len(X), len(y))
	}
	if numClasses < 1 {
		return fmt.Errorf("%w: no classes", ErrModelBuildFailed)
	}

	rf.NumClasses = numClasses
	rf.nFeatures = 0
	if len(X) > 0 {
		rf.nFeatures = len(X[0])
	}
	rf.MaxFeatures = min(max(1, int(math.Sqrt(float64(rf.nFeatures)))), rf.nFeatures)

	rf.Trees = make([]*DecisionTree, rf.NTrees)
	rf.FeatureIndices = make([][]int, rf.NTrees)

	workers := min(max(1, rf.MaxWorkers), rf.NTrees)
	jobs := make(chan int, rf.NTrees)
	errs := make([]error, rf.NTrees)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				tree, features, err := rf.trainSingleTree(X, y, rf.Seed+int64(i))
				rf.Trees[i] = tree
				rf.FeatureIndices[i] = features
				errs[i] = err
			}
		}()
	}

	for i := 0; i < rf.NTrees; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return fmt.Errorf("tree %d training failed: %w", i, err)
		}
	}

	return nil
}

func (rf *RandomForest) trainSingleTree(X [][]decimal.Decimal, y []int, seed int64) (*DecisionTree, []int, error) {
	r := rand.New(rand.NewSource(seed))

	n := len(X)
	XBoot := make([][]decimal.Decimal, n)
	yBoot := make([]int, n)
	for i := 0; i < n; i++ {
		idx := r.Intn(n)
		XBoot[i] = X[idx]
		yBoot[i] = y[idx]
	}

	features := rf.selectFeatures(r)
	for i := range XBoot {
		XBoot[i] = project(XBoot[i], features)
	}

	tree := NewDecisionTree(rf.MaxDepth, rf.MinSamplesSplit)
	err := tree.Fit(XBoot, yBoot, rf.NumClasses)

	return tree, features, err
}

func (rf *RandomForest) selectFeatures(r *rand.Rand) []int {
	return r.Perm(rf.nFeatures)[:rf.MaxFeatures]
}

func project(sample []decimal.Decimal, features []int) []decimal.Decimal {
	out := make([]decimal.Decimal, len(features))
	for k, feat := range features {
		out[k] = sample[feat]
	}
	return out
}

func (rf *RandomForest) PredictProba(X [][]decimal.Decimal) [][]float64 {
	proba := make([][]float64, len(X))

	for i, sample := range X {
		dist := make([]float64, rf.NumClasses)
		for j, tree := range rf.Trees {
			leaf := tree.predictLeaf(project(sample, rf.FeatureIndices[j]), tree.Root)
			for c, p := range leaf.Distribution {
				dist[c] += p / float64(len(rf.Trees))
			}
		}
		proba[i] = dist
	}

	return proba
}

func (rf *RandomForest) Clone() Model {
	clone := NewRandomForest(rf.NTrees, rf.MaxDepth, rf.MinSamplesSplit)
	clone.Seed = rf.Seed
	clone.MaxWorkers = rf.MaxWorkers
	return clone
}

func (rf *RandomForest) Reset() {
	rf.Trees = nil
	rf.FeatureIndices = nil
	rf.NumClasses = 0
}
