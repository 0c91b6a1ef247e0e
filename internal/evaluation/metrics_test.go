package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoClassEvaluation(t *testing.T) *Evaluation {
	t.Helper()

	e := NewEvaluation([]string{"yes", "no"})
	records := []struct {
		actual int
		dist   []float64
	}{
		{0, []float64{0.8, 0.2}},
		{0, []float64{0.4, 0.6}},
		{1, []float64{0.1, 0.9}},
		{1, []float64{0.3, 0.7}},
	}
	for _, r := range records {
		require.NoError(t, e.Record(r.actual, r.dist))
	}
	return e
}

func TestEvaluationCounts(t *testing.T) {
	e := twoClassEvaluation(t)

	assert.Equal(t, [][]float64{{1, 1}, {0, 2}}, e.ConfusionMatrix)
	assert.Equal(t, 4.0, e.NumInstances())
	assert.Equal(t, 3.0, e.Correct())
	assert.Equal(t, 1.0, e.Incorrect())
	assert.InDelta(t, 75.0, e.PctCorrect(), 1e-9)
	assert.InDelta(t, 25.0, e.PctIncorrect(), 1e-9)
}

func TestEvaluationClassMetrics(t *testing.T) {
	e := twoClassEvaluation(t)

	assert.InDelta(t, 1.0, e.Precision(0), 1e-9)
	assert.InDelta(t, 2.0/3, e.Precision(1), 1e-9)
	assert.InDelta(t, 0.5, e.Recall(0), 1e-9)
	assert.InDelta(t, 1.0, e.Recall(1), 1e-9)
	assert.InDelta(t, 2.0/3, e.FMeasure(0), 1e-9)
	assert.InDelta(t, 0.8, e.FMeasure(1), 1e-9)

	assert.InDelta(t, (1+2.0/3)/2, e.WeightedPrecision(), 1e-9)
	assert.InDelta(t, 0.75, e.WeightedRecall(), 1e-9)
	assert.InDelta(t, (2.0/3+0.8)/2, e.WeightedFMeasure(), 1e-9)
}

func TestEvaluationAgreementAndErrors(t *testing.T) {
	e := twoClassEvaluation(t)

	assert.InDelta(t, 0.5, e.Kappa(), 1e-9)
	assert.InDelta(t, 0.3, e.MeanAbsoluteError(), 1e-9)
	assert.InDelta(t, 0.35355339, e.RootMeanSquaredError(), 1e-8)
	assert.InDelta(t, 60.0, e.RelativeAbsoluteError(), 1e-9)
	assert.InDelta(t, 70.7106781, e.RootRelativeSquaredError(), 1e-6)
}

func TestEvaluationIgnoresMissingLabel(t *testing.T) {
	e := NewEvaluation([]string{"a", "b"})
	require.NoError(t, e.Record(-1, []float64{0.5, 0.5}))
	assert.Equal(t, 0.0, e.NumInstances())
	assert.Equal(t, 0.0, e.WeightedFMeasure())
	assert.Equal(t, 0.0, e.Kappa())
}

func TestEvaluationRejectsBadDistribution(t *testing.T) {
	e := NewEvaluation([]string{"a", "b"})
	assert.ErrorIs(t, e.Record(0, []float64{1}), ErrEvaluationFailed)
	assert.ErrorIs(t, e.Record(2, []float64{0.5, 0.5}), ErrEvaluationFailed)
}

func TestEvaluationPriorsFromTraining(t *testing.T) {
	e := NewEvaluation([]string{"a", "b"})
	e.SetPriors([]int{0, 0, 0, 1, -1})
	// (3+1)/(4+2) and (1+1)/(4+2)
	assert.InDeltaSlice(t, []float64{4.0 / 6, 2.0 / 6}, e.priors, 1e-12)
}

func TestEvaluationMerge(t *testing.T) {
	a := twoClassEvaluation(t)
	b := twoClassEvaluation(t)
	a.Merge(b)

	assert.Equal(t, [][]float64{{2, 2}, {0, 4}}, a.ConfusionMatrix)
	assert.InDelta(t, 75.0, a.PctCorrect(), 1e-9)
	assert.InDelta(t, 0.3, a.MeanAbsoluteError(), 1e-9)
}

func TestFoldStats(t *testing.T) {
	e := NewEvaluation([]string{"a", "b"})
	mean, std := e.FoldStats()
	assert.Zero(t, mean)
	assert.Zero(t, std)

	e.FoldScores = []float64{0.5, 0.7, 0.9}
	mean, std = e.FoldStats()
	assert.InDelta(t, 0.7, mean, 1e-12)
	assert.InDelta(t, 0.2, std, 1e-12)
}
