package models

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Weighting is the contribution of a neighbour at normalised distance d.
type Weighting int

const (
	WeightNone Weighting = iota
	WeightInverse
	WeightSimilarity
)

// Weightings lists the modes in enumeration order.
var Weightings = []Weighting{WeightNone, WeightInverse, WeightSimilarity}

func (w Weighting) String() string {
	switch w {
	case WeightNone:
		return "None"
	case WeightInverse:
		return "Inverse"
	case WeightSimilarity:
		return "Similarity"
	default:
		return fmt.Sprintf("Weighting(%d)", int(w))
	}
}

func ParseWeighting(name string) (Weighting, error) {
	switch strings.ToLower(name) {
	case "none", "":
		return WeightNone, nil
	case "inverse":
		return WeightInverse, nil
	case "similarity":
		return WeightSimilarity, nil
	default:
		return 0, fmt.Errorf("unknown distance weighting: %s", name)
	}
}

func (w Weighting) weight(d float64) float64 {
	switch w {
	case WeightInverse:
		return 1 / (d + 0.001)
	case WeightSimilarity:
		return 1 - d
	default:
		return 1
	}
}

// KNN votes among the K nearest training rows. Rows are expected in the
// distance encoding of preprocessing.NewDistanceEncoder, so the distance of a
// neighbour is already normalised to [0, 1]. Neighbours tied with the K-th
// distance all vote.
type KNN struct {
	BaseModel
	K         int
	Structure SearchStructure
	Weighting Weighting
	Seed      uint64

	index  neighbourIndex
	yTrain []int
	nTrain int
}

func NewKNN(k int, structure SearchStructure, weighting Weighting) *KNN {
	if k <= 0 {
		k = 1
	}

	return &KNN{
		K:         k,
		Structure: structure,
		Weighting: weighting,
		Seed:      1,
		BaseModel: BaseModel{
			Name: "KNN",
			Params: map[string]any{
				"k":         k,
				"structure": structure.String(),
				"weighting": weighting.String(),
			},
		},
	}
}

func (knn *KNN) Fit(X [][]decimal.Decimal, y []int, numClasses int) error {
	if len(X) != len(y) {
		return fmt.Errorf("%w: %d rows but %d labels", ErrModelBuildFailed, len(X), len(y))
	}
	if numClasses < 1 {
		return fmt.Errorf("%w: no classes", ErrModelBuildFailed)
	}

	points := toFloats(X)
	index, err := newNeighbourIndex(knn.Structure, points, knn.Seed)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrModelBuildFailed, knn.Structure, err)
	}

	knn.index = index
	knn.yTrain = make([]int, len(y))
	copy(knn.yTrain, y)
	knn.nTrain = len(y)
	knn.NumClasses = numClasses
	return nil
}

func (knn *KNN) PredictProba(X [][]decimal.Decimal) [][]float64 {
	queries := toFloats(X)
	proba := make([][]float64, len(queries))

	for i, q := range queries {
		proba[i] = knn.distribution(q)
	}

	return proba
}

// distribution starts every class at 1/max(1, n) so a class with no
// neighbours keeps a small non-zero probability, then adds each neighbour's
// weight and normalises.
func (knn *KNN) distribution(q []float64) []float64 {
	dist := make([]float64, knn.NumClasses)
	prior := 1 / math.Max(1, float64(knn.nTrain))
	for c := range dist {
		dist[c] = prior
	}

	k := min(knn.K, knn.nTrain)
	if k > 0 {
		for _, n := range knn.index.nearest(q, k) {
			label := knn.yTrain[n.index]
			if label < 0 || label >= knn.NumClasses {
				continue
			}
			dist[label] += knn.Weighting.weight(math.Sqrt(n.dist))
		}
	}

	total := 0.0
	for _, p := range dist {
		total += p
	}
	if total <= 0 {
		return uniform(knn.NumClasses)
	}
	for c := range dist {
		dist[c] /= total
	}
	return dist
}

func (knn *KNN) Clone() Model {
	clone := NewKNN(knn.K, knn.Structure, knn.Weighting)
	clone.Seed = knn.Seed
	return clone
}

func (knn *KNN) Reset() {
	knn.index = nil
	knn.yTrain = nil
	knn.nTrain = 0
	knn.NumClasses = 0
}
