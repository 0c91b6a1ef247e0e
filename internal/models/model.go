package models

import (
	"github.com/shopspring/decimal"
)

// Model is a classifier over an encoded feature matrix. Labels are class
// indices in [0, numClasses); PredictProba returns one distribution of length
// numClasses per row and the predicted class is its Argmax.
type Model interface {
	Fit(X [][]decimal.Decimal, y []int, numClasses int) error
	PredictProba(X [][]decimal.Decimal) [][]float64
	GetName() string
	GetParams() map[string]any
	Clone() Model
	Reset()
}

type BaseModel struct {
	Name       string
	Params     map[string]any
	NumClasses int
}

func (bm *BaseModel) GetName() string {
	return bm.Name
}

func (bm *BaseModel) GetParams() map[string]any {
	return bm.Params
}

// ClassCounts counts the labels in y, ignoring out-of-range ones.
func ClassCounts(y []int, numClasses int) []int {
	counts := make([]int, numClasses)
	for _, label := range y {
		if label >= 0 && label < numClasses {
			counts[label]++
		}
	}
	return counts
}

// Argmax returns the index of the largest value, the first one on ties.
func Argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

func toFloats(X [][]decimal.Decimal) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = v.InexactFloat64()
		}
	}
	return out
}

func uniform(numClasses int) []float64 {
	dist := make([]float64, numClasses)
	for i := range dist {
		dist[i] = 1 / float64(numClasses)
	}
	return dist
}
