package models

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

type TreeNode struct {
	IsLeaf           bool
	Distribution     []float64
	Feature          int
	Threshold        decimal.Decimal
	Left             *TreeNode
	Right            *TreeNode
	Samples          int
	Impurity         float64
	ImpurityDecrease float64
}

// DecisionTree is a binary CART tree on Gini impurity. Leaves predict the
// class frequencies of their training rows.
type DecisionTree struct {
	BaseModel
	Root                *TreeNode
	MaxDepth            int
	MinSamplesSplit     int
	MinImpurityDecrease float64
}

func NewDecisionTree(maxDepth, minSamplesSplit int) *DecisionTree {
	if maxDepth <= 0 {
		maxDepth = 10
	}

	if minSamplesSplit <= 0 {
		minSamplesSplit = 2
	}

	return &DecisionTree{
		MaxDepth:            maxDepth,
		MinSamplesSplit:     minSamplesSplit,
		MinImpurityDecrease: 0.01,
		BaseModel: BaseModel{
			Name: "DecisionTree",
			Params: map[string]any{
				"max_depth":         maxDepth,
				"min_samples_split": minSamplesSplit,
			},
		},
	}
}

func (dt *DecisionTree) Fit(X [][]decimal.Decimal, y []int, numClasses int) error {
	if len(X) != len(y) {
		return fmt.Errorf("%w: %d rows but %d labels", ErrModelBuildFailed, len(X), len(y))
	}
	if numClasses < 1 {
		return fmt.Errorf("%w: no classes", ErrModelBuildFailed)
	}

	dt.NumClasses = numClasses
	dt.Root = dt.buildTree(X, y, 0)
	return nil
}

func (dt *DecisionTree) buildTree(X [][]decimal.Decimal, y []int, depth int) *TreeNode {
	counts := ClassCounts(y, dt.NumClasses)
	node := &TreeNode{
		Samples:  len(y),
		Impurity: gini(counts, len(y)),
	}

	if depth >= dt.MaxDepth ||
		len(y) < dt.MinSamplesSplit ||
		node.Impurity < dt.MinImpurityDecrease {
		return dt.leaf(node, counts)
	}

	bestFeature, bestThreshold, bestDecrease := dt.findBestSplit(X, y, node.Impurity)
	if bestDecrease < dt.MinImpurityDecrease {
		return dt.leaf(node, counts)
	}

	left, right := splitIndices(X, bestFeature, bestThreshold)
	if len(left) == 0 || len(right) == 0 {
		return dt.leaf(node, counts)
	}

	node.Feature = bestFeature
	node.Threshold = bestThreshold
	node.ImpurityDecrease = bestDecrease

	XLeft, yLeft := selectRows(X, y, left)
	XRight, yRight := selectRows(X, y, right)
	node.Left = dt.buildTree(XLeft, yLeft, depth+1)
	node.Right = dt.buildTree(XRight, yRight, depth+1)

	return node
}

func (dt *DecisionTree) leaf(node *TreeNode, counts []int) *TreeNode {
	node.IsLeaf = true
	node.Distribution = make([]float64, dt.NumClasses)
	if node.Samples == 0 {
		node.Distribution = uniform(dt.NumClasses)
		return node
	}
	for c, n := range counts {
		node.Distribution[c] = float64(n) / float64(node.Samples)
	}
	return node
}

func (dt *DecisionTree) findBestSplit(X [][]decimal.Decimal, y []int, parentImpurity float64) (int, decimal.Decimal, float64) {
	bestFeature := 0
	bestThreshold := decimal.Zero
	bestDecrease := 0.0
	n := float64(len(y))

	if len(X) == 0 {
		return bestFeature, bestThreshold, bestDecrease
	}

	for feature := range X[0] {
		for _, threshold := range uniqueValues(X, feature) {
			leftCounts := make([]int, dt.NumClasses)
			rightCounts := make([]int, dt.NumClasses)
			nLeft, nRight := 0, 0

			for i, sample := range X {
				if y[i] < 0 || y[i] >= dt.NumClasses {
					continue
				}
				if sample[feature].LessThan(threshold) {
					leftCounts[y[i]]++
					nLeft++
				} else {
					rightCounts[y[i]]++
					nRight++
				}
			}

			if nLeft == 0 || nRight == 0 {
				continue
			}

			weighted := (float64(nLeft)/n)*gini(leftCounts, nLeft) +
				(float64(nRight)/n)*gini(rightCounts, nRight)

			if decrease := parentImpurity - weighted; decrease > bestDecrease {
				bestDecrease = decrease
				bestFeature = feature
				bestThreshold = threshold
			}
		}
	}

	return bestFeature, bestThreshold, bestDecrease
}

func (dt *DecisionTree) PredictProba(X [][]decimal.Decimal) [][]float64 {
	proba := make([][]float64, len(X))
	for i, sample := range X {
		leaf := dt.predictLeaf(sample, dt.Root)
		proba[i] = make([]float64, len(leaf.Distribution))
		copy(proba[i], leaf.Distribution)
	}
	return proba
}

func (dt *DecisionTree) predictLeaf(sample []decimal.Decimal, node *TreeNode) *TreeNode {
	for !node.IsLeaf {
		if sample[node.Feature].LessThan(node.Threshold) {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node
}

func (dt *DecisionTree) Clone() Model {
	clone := NewDecisionTree(dt.MaxDepth, dt.MinSamplesSplit)
	clone.MinImpurityDecrease = dt.MinImpurityDecrease
	return clone
}

func (dt *DecisionTree) Reset() {
	dt.Root = nil
	dt.NumClasses = 0
}

func gini(counts []int, total int) float64 {
	if total == 0 {
		return 0.0
	}

	impurity := 1.0
	n := float64(total)
	for _, count := range counts {
		p := float64(count) / n
		impurity -= p * p
	}

	return impurity
}

// uniqueValues returns the distinct values of a feature in ascending order.
func uniqueValues(X [][]decimal.Decimal, feature int) []decimal.Decimal {
	seen := make(map[string]bool)
	var values []decimal.Decimal

	for _, sample := range X {
		key := sample[feature].String()
		if !seen[key] {
			seen[key] = true
			values = append(values, sample[feature])
		}
	}

	sort.Slice(values, func(i, j int) bool { return values[i].LessThan(values[j]) })
	return values
}

func splitIndices(X [][]decimal.Decimal, feature int, threshold decimal.Decimal) ([]int, []int) {
	var left, right []int

	for i, sample := range X {
		if sample[feature].LessThan(threshold) {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return left, right
}

func selectRows(X [][]decimal.Decimal, y []int, indices []int) ([][]decimal.Decimal, []int) {
	selectedX := make([][]decimal.Decimal, len(indices))
	selectedY := make([]int, len(indices))

	for i, idx := range indices {
		selectedX[i] = X[idx]
		selectedY[i] = y[idx]
	}

	return selectedX, selectedY
}
