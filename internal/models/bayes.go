package models

import (
	"fmt"
	"math"
	"sort"

	"github.com/IbaiO/weka-lab/internal/preprocessing"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
)

// NaiveBayes treats one-hot column groups as discrete attributes with
// Laplace-corrected value counts and every other column as a Gaussian. Without
// column groups every column is Gaussian. Missing values, an empty one-hot
// block or a raised flag, are left out of training and prediction.
type NaiveBayes struct {
	BaseModel
	ClassLogPriors []float64
	FeatureMeans   [][]decimal.Decimal
	FeatureStds    [][]float64
	ValueLogProbs  [][][]float64
	VarSmoothing   decimal.Decimal
	Groups         []preprocessing.ColumnGroup
}

func NewNaiveBayes(varSmoothing float64) *NaiveBayes {
	return &NaiveBayes{
		VarSmoothing: decimal.NewFromFloat(varSmoothing),
		BaseModel: BaseModel{
			Name: "NaiveBayes",
			Params: map[string]any{
				"var_smoothing": varSmoothing,
			},
		},
	}
}

// SetColumnGroups tells the model which encoded columns belong together.
func (nb *NaiveBayes) SetColumnGroups(groups []preprocessing.ColumnGroup) {
	nb.Groups = groups
}

func (nb *NaiveBayes) groups(nFeatures int) []preprocessing.ColumnGroup {
	if nb.Groups != nil {
		return nb.Groups
	}
	groups := make([]preprocessing.ColumnGroup, nFeatures)
	for j := range groups {
		groups[j] = preprocessing.ColumnGroup{Attribute: j, Offset: j, Width: 1}
	}
	return groups
}

func (nb *NaiveBayes) Fit(X [][]decimal.Decimal, y []int, numClasses int) error {
	if len(X) != len(y) {
		return fmt.Errorf("%w: %d rows but %d labels", ErrModelBuildFailed, len(X), len(y))
	}
	if numClasses < 1 {
		return fmt.Errorf("%w: no classes", ErrModelBuildFailed)
	}

	nFeatures := 0
	if len(X) > 0 {
		nFeatures = len(X[0])
	}
	groups := nb.groups(nFeatures)

	nb.NumClasses = numClasses
	counts := ClassCounts(y, numClasses)
	total := 0
	for _, c := range counts {
		total += c
	}

	nb.ClassLogPriors = make([]float64, numClasses)
	for c := range counts {
		nb.ClassLogPriors[c] = math.Log(float64(counts[c]+1) / float64(total+numClasses))
	}

	nb.FeatureMeans = make([][]decimal.Decimal, numClasses)
	nb.FeatureStds = make([][]float64, numClasses)
	nb.ValueLogProbs = make([][][]float64, numClasses)

	minStds := make(map[int]float64)
	for _, g := range groups {
		if !g.Nominal {
			minStds[g.Offset] = columnPrecision(X, g) / 6
		}
	}

	for class := 0; class < numClasses; class++ {
		var classData [][]decimal.Decimal
		for i, label := range y {
			if label == class {
				classData = append(classData, X[i])
			}
		}

		nb.FeatureMeans[class] = make([]decimal.Decimal, nFeatures)
		nb.FeatureStds[class] = make([]float64, nFeatures)
		nb.ValueLogProbs[class] = make([][]float64, len(groups))

		for gi, g := range groups {
			if g.Nominal {
				nb.ValueLogProbs[class][gi] = nominalLogProbs(classData, g)
				continue
			}

			j := g.Offset
			mean, variance := columnMoments(classData, g)
			variance = variance.Add(nb.VarSmoothing)
			varFloat, _ := variance.Float64()
			nb.FeatureMeans[class][j] = mean
			nb.FeatureStds[class][j] = math.Max(math.Sqrt(varFloat), minStds[j])
		}
	}

	return nil
}

// columnMoments returns the mean and population variance of the observed
// values of a numeric group.
func columnMoments(rows [][]decimal.Decimal, g preprocessing.ColumnGroup) (decimal.Decimal, decimal.Decimal) {
	j := g.Offset
	var observed [][]decimal.Decimal
	for _, row := range rows {
		if g.Observed(row) {
			observed = append(observed, row)
		}
	}
	if len(observed) == 0 {
		return decimal.Zero, decimal.Zero
	}
	n := decimal.NewFromInt(int64(len(observed)))

	sum := decimal.Zero
	for _, row := range observed {
		sum = sum.Add(row[j])
	}
	mean := sum.Div(n)

	variance := decimal.Zero
	for _, row := range observed {
		diff := row[j].Sub(mean)
		variance = variance.Add(diff.Mul(diff))
	}
	return mean, variance.Div(n)
}

// columnPrecision is the mean gap between adjacent distinct observed values
// of a numeric group, 0.01 when there are fewer than two.
func columnPrecision(X [][]decimal.Decimal, g preprocessing.ColumnGroup) float64 {
	seen := make(map[float64]bool)
	var values []float64
	for _, row := range X {
		if !g.Observed(row) {
			continue
		}
		v := row[g.Offset].InexactFloat64()
		if !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	if len(values) < 2 {
		return 0.01
	}
	sort.Float64s(values)
	return (values[len(values)-1] - values[0]) / float64(len(values)-1)
}

func nominalLogProbs(rows [][]decimal.Decimal, g preprocessing.ColumnGroup) []float64 {
	counts := make([]float64, g.Width)
	total := 0.0
	for _, row := range rows {
		for v := 0; v < g.Width; v++ {
			if row[g.Offset+v].IsPositive() {
				counts[v]++
				total++
				break
			}
		}
	}

	logProbs := make([]float64, g.Width)
	for v := range counts {
		logProbs[v] = math.Log((counts[v] + 1) / (total + float64(g.Width)))
	}
	return logProbs
}

func logGaussianPDF(x, mean, std float64) float64 {
	if std <= 0 {
		std = 1e-9
	}
	diff := x - mean
	return -0.5*math.Log(2*math.Pi*std*std) - (diff*diff)/(2*std*std)
}

func (nb *NaiveBayes) jointLogLikelihood(sample []decimal.Decimal) []float64 {
	groups := nb.groups(len(sample))
	logProbs := make([]float64, nb.NumClasses)

	for class := range logProbs {
		logProb := nb.ClassLogPriors[class]

		for gi, g := range groups {
			if g.Nominal {
				for v := 0; v < g.Width; v++ {
					if sample[g.Offset+v].IsPositive() {
						logProb += nb.ValueLogProbs[class][gi][v]
						break
					}
				}
				continue
			}

			if !g.Observed(sample) {
				continue
			}
			j := g.Offset
			logProb += logGaussianPDF(
				sample[j].InexactFloat64(),
				nb.FeatureMeans[class][j].InexactFloat64(),
				nb.FeatureStds[class][j],
			)
		}

		logProbs[class] = logProb
	}

	return logProbs
}

func (nb *NaiveBayes) PredictProba(X [][]decimal.Decimal) [][]float64 {
	proba := make([][]float64, len(X))

	for i, sample := range X {
		logProbs := nb.jointLogLikelihood(sample)
		norm := floats.LogSumExp(logProbs)

		proba[i] = make([]float64, len(logProbs))
		for c, lp := range logProbs {
			proba[i][c] = math.Exp(lp - norm)
		}
	}

	return proba
}

func (nb *NaiveBayes) Clone() Model {
	clone := NewNaiveBayes(nb.VarSmoothing.InexactFloat64())
	clone.Groups = nb.Groups
	return clone
}

func (nb *NaiveBayes) Reset() {
	nb.ClassLogPriors = nil
	nb.FeatureMeans = nil
	nb.FeatureStds = nil
	nb.ValueLogProbs = nil
	nb.NumClasses = 0
}
