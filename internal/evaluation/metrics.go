package evaluation

import (
	"fmt"
	"math"

	"github.com/IbaiO/weka-lab/internal/models"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Evaluation accumulates predicted class distributions against actual labels.
// Error statistics compare each distribution with the one-hot actual class and
// are averaged over the classes; the relative ones are measured against a
// classifier that always predicts the Laplace-corrected training prior.
type Evaluation struct {
	ClassNames      []string
	NumClasses      int
	ConfusionMatrix [][]float64
	FoldScores      []float64

	priors         []float64
	withClass      float64
	correct        float64
	sumAbsErr      float64
	sumSqrErr      float64
	sumPriorAbsErr float64
	sumPriorSqrErr float64
}

func NewEvaluation(classNames []string) *Evaluation {
	numClasses := len(classNames)
	matrix := make([][]float64, numClasses)
	for i := range matrix {
		matrix[i] = make([]float64, numClasses)
	}

	names := make([]string, numClasses)
	copy(names, classNames)

	e := &Evaluation{
		ClassNames:      names,
		NumClasses:      numClasses,
		ConfusionMatrix: matrix,
	}
	e.SetPriors(nil)
	return e
}

// SetPriors sets the reference distribution used by the relative error
// measures from the training labels, with one pseudo-count per class.
func (e *Evaluation) SetPriors(trainLabels []int) {
	e.priors = make([]float64, e.NumClasses)
	for c := range e.priors {
		e.priors[c] = 1
	}
	for _, label := range trainLabels {
		if label >= 0 && label < e.NumClasses {
			e.priors[label]++
		}
	}
	floats.Scale(1/floats.Sum(e.priors), e.priors)
}

// Record adds one prediction. Instances with a missing label are ignored.
func (e *Evaluation) Record(actual int, dist []float64) error {
	if actual < 0 {
		return nil
	}
	if actual >= e.NumClasses || len(dist) != e.NumClasses {
		return fmt.Errorf("%w: prediction for class %d has %d probabilities, want %d",
			ErrEvaluationFailed, actual, len(dist), e.NumClasses)
	}

	predicted := models.Argmax(dist)
	e.ConfusionMatrix[actual][predicted]++
	e.withClass++
	if predicted == actual {
		e.correct++
	}

	var absErr, sqrErr, priorAbsErr, priorSqrErr float64
	for c := 0; c < e.NumClasses; c++ {
		target := 0.0
		if c == actual {
			target = 1
		}
		diff := dist[c] - target
		absErr += math.Abs(diff)
		sqrErr += diff * diff

		priorDiff := e.priors[c] - target
		priorAbsErr += math.Abs(priorDiff)
		priorSqrErr += priorDiff * priorDiff
	}

	k := float64(e.NumClasses)
	e.sumAbsErr += absErr / k
	e.sumSqrErr += sqrErr / k
	e.sumPriorAbsErr += priorAbsErr / k
	e.sumPriorSqrErr += priorSqrErr / k
	return nil
}

// Merge adds the counts of other, which must cover the same classes.
func (e *Evaluation) Merge(other *Evaluation) {
	for i := range e.ConfusionMatrix {
		floats.Add(e.ConfusionMatrix[i], other.ConfusionMatrix[i])
	}
	e.withClass += other.withClass
	e.correct += other.correct
	e.sumAbsErr += other.sumAbsErr
	e.sumSqrErr += other.sumSqrErr
	e.sumPriorAbsErr += other.sumPriorAbsErr
	e.sumPriorSqrErr += other.sumPriorSqrErr
}

func (e *Evaluation) NumInstances() float64 { return e.withClass }
func (e *Evaluation) Correct() float64      { return e.correct }
func (e *Evaluation) Incorrect() float64    { return e.withClass - e.correct }

func (e *Evaluation) PctCorrect() float64 {
	return 100 * safeDivide(e.correct, e.withClass)
}

func (e *Evaluation) PctIncorrect() float64 {
	return 100 * safeDivide(e.withClass-e.correct, e.withClass)
}

// Kappa is Cohen's kappa of the confusion matrix.
func (e *Evaluation) Kappa() float64 {
	total := 0.0
	diagonal := 0.0
	chance := 0.0
	for i := range e.ConfusionMatrix {
		diagonal += e.ConfusionMatrix[i][i]
		total += floats.Sum(e.ConfusionMatrix[i])
	}
	if total == 0 {
		return 0
	}
	for i := range e.ConfusionMatrix {
		chance += floats.Sum(e.ConfusionMatrix[i]) * e.columnSum(i)
	}
	chance /= total * total

	if chance >= 1 {
		return 1
	}
	return (diagonal/total - chance) / (1 - chance)
}

func (e *Evaluation) MeanAbsoluteError() float64 {
	return safeDivide(e.sumAbsErr, e.withClass)
}

func (e *Evaluation) RootMeanSquaredError() float64 {
	return math.Sqrt(safeDivide(e.sumSqrErr, e.withClass))
}

func (e *Evaluation) RelativeAbsoluteError() float64 {
	return 100 * safeDivide(e.MeanAbsoluteError(), safeDivide(e.sumPriorAbsErr, e.withClass))
}

func (e *Evaluation) RootRelativeSquaredError() float64 {
	prior := math.Sqrt(safeDivide(e.sumPriorSqrErr, e.withClass))
	return 100 * safeDivide(e.RootMeanSquaredError(), prior)
}

func (e *Evaluation) columnSum(class int) float64 {
	sum := 0.0
	for i := range e.ConfusionMatrix {
		sum += e.ConfusionMatrix[i][class]
	}
	return sum
}

// Precision of class i, zero when the class was never predicted.
func (e *Evaluation) Precision(class int) float64 {
	return safeDivide(e.ConfusionMatrix[class][class], e.columnSum(class))
}

// Recall of class i, zero when the class never occurred.
func (e *Evaluation) Recall(class int) float64 {
	return safeDivide(e.ConfusionMatrix[class][class], floats.Sum(e.ConfusionMatrix[class]))
}

func (e *Evaluation) FMeasure(class int) float64 {
	p := e.Precision(class)
	r := e.Recall(class)
	return safeDivide(2*p*r, p+r)
}

// classWeights returns the number of actual instances of each class.
func (e *Evaluation) classWeights() []float64 {
	weights := make([]float64, e.NumClasses)
	for i := range e.ConfusionMatrix {
		weights[i] = floats.Sum(e.ConfusionMatrix[i])
	}
	return weights
}

func (e *Evaluation) weighted(metric func(int) float64) float64 {
	weights := e.classWeights()
	if floats.Sum(weights) == 0 {
		return 0
	}
	values := make([]float64, e.NumClasses)
	for i := range values {
		values[i] = metric(i)
	}
	return stat.Mean(values, weights)
}

func (e *Evaluation) WeightedPrecision() float64 { return e.weighted(e.Precision) }
func (e *Evaluation) WeightedRecall() float64    { return e.weighted(e.Recall) }
func (e *Evaluation) WeightedFMeasure() float64  { return e.weighted(e.FMeasure) }

// FoldStats returns the mean and sample standard deviation of the per-fold
// weighted F-measures.
func (e *Evaluation) FoldStats() (mean, std float64) {
	switch len(e.FoldScores) {
	case 0:
		return 0, 0
	case 1:
		return e.FoldScores[0], 0
	}
	return stat.MeanStdDev(e.FoldScores, nil)
}

func safeDivide(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0.0
	}
	result := numerator / denominator
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0.0
	}
	return result
}

func (e *Evaluation) FormatMetrics() string {
	result := fmt.Sprintf("Accuracy: %.4f%%\n", e.PctCorrect())
	result += fmt.Sprintf("Kappa: %.4f\n", e.Kappa())
	result += fmt.Sprintf("Weighted Avg - Precision: %.4f, Recall: %.4f, F1: %.4f\n",
		e.WeightedPrecision(), e.WeightedRecall(), e.WeightedFMeasure())
	return result
}
