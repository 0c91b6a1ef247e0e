package models

import (
	"math"
	"testing"

	"github.com/IbaiO/weka-lab/internal/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// separable has a numeric and a nominal attribute that both predict the class.
func separable(t *testing.T) *data.Dataset {
	t.Helper()

	ds := data.NewDataset("separable", []data.Attribute{
		data.NewNumericAttribute("x"),
		data.NewNominalAttribute("colour", []string{"red", "blue"}),
		data.NewNominalAttribute("class", []string{"a", "b"}),
	})
	for i := 0; i < 10; i++ {
		require.NoError(t, ds.Add([]data.Value{data.NumFloat(float64(i)), data.Cat(0), data.Cat(0)}))
		require.NoError(t, ds.Add([]data.Value{data.NumFloat(float64(20 + i)), data.Cat(1), data.Cat(1)}))
	}
	require.NoError(t, ds.SetClassIndex(2))
	return ds
}

func TestCreateClassifierFitsEveryAlgorithm(t *testing.T) {
	ds := separable(t)

	for _, name := range []string{"knn", "naive_bayes", "decision_tree", "random_forest"} {
		t.Run(name, func(t *testing.T) {
			config := DefaultConfig(name)
			config.NTrees = 10

			clf, err := CreateClassifier(config)
			require.NoError(t, err)
			require.NoError(t, clf.Fit(ds))
			assert.Equal(t, 2, clf.NumClasses())

			dists, err := clf.Distributions(ds)
			require.NoError(t, err)
			require.Len(t, dists, ds.NumInstances())

			for i, dist := range dists {
				require.Len(t, dist, 2)
				assert.InDelta(t, 1.0, dist[0]+dist[1], 1e-9)
				assert.Equal(t, ds.Label(i), Argmax(dist), "instance %d", i)
			}
		})
	}
}

func TestCreateClassifierUnknownAlgorithm(t *testing.T) {
	_, err := CreateClassifier(ModelConfig{Algorithm: "svm"})
	assert.Error(t, err)
}

func TestPipelineRequiresNominalClass(t *testing.T) {
	ds := separable(t)
	clf, err := CreateClassifier(DefaultConfig("knn"))
	require.NoError(t, err)

	ds.ClassIndex = -1
	assert.ErrorIs(t, clf.Fit(ds), ErrModelBuildFailed)
	assert.ErrorIs(t, clf.Fit(ds), data.ErrInvalidLabel)

	require.NoError(t, ds.SetClassIndex(0))
	assert.ErrorIs(t, clf.Fit(ds), data.ErrInvalidLabel)
}

func TestPipelineSkipsMissingLabels(t *testing.T) {
	ds := separable(t)
	require.NoError(t, ds.Add([]data.Value{data.NumFloat(100), data.Cat(0), data.MissingValue()}))

	clf, err := CreateClassifier(DefaultConfig("decision_tree"))
	require.NoError(t, err)
	require.NoError(t, clf.Fit(ds))

	dists, err := clf.Distributions(ds)
	require.NoError(t, err)
	assert.Len(t, dists, ds.NumInstances())
}

func TestPipelineDistributionsBeforeFit(t *testing.T) {
	clf, err := CreateClassifier(DefaultConfig("naive_bayes"))
	require.NoError(t, err)

	_, err = clf.Distributions(separable(t))
	assert.Error(t, err)
}

func TestPipelineClone(t *testing.T) {
	clf, err := CreateClassifier(ModelConfig{Algorithm: "knn", K: 3, Structure: KDTreeSearch, Weighting: WeightInverse})
	require.NoError(t, err)
	require.NoError(t, clf.Fit(separable(t)))

	clone, ok := clf.Clone().(*Pipeline)
	require.True(t, ok)
	assert.Equal(t, "KNN", clone.Name())
	assert.True(t, clone.Encoder.Distance)

	_, err = clone.Distributions(separable(t))
	assert.Error(t, err, "clone must start unfitted")

	knn := clone.Model.(*KNN)
	assert.Equal(t, 3, knn.K)
	assert.Equal(t, KDTreeSearch, knn.Structure)
	assert.Equal(t, WeightInverse, knn.Weighting)
}

func TestNaiveBayesNominalCounts(t *testing.T) {
	ds := data.NewDataset("nominal", []data.Attribute{
		data.NewNominalAttribute("outlook", []string{"sunny", "rainy"}),
		data.NewNominalAttribute("play", []string{"yes", "no"}),
	})
	rows := [][2]int{{0, 0}, {0, 0}, {0, 0}, {1, 1}, {1, 1}, {0, 1}}
	for _, r := range rows {
		require.NoError(t, ds.Add([]data.Value{data.Cat(r[0]), data.Cat(r[1])}))
	}
	require.NoError(t, ds.SetClassIndex(1))

	clf, err := CreateClassifier(DefaultConfig("naive_bayes"))
	require.NoError(t, err)
	require.NoError(t, clf.Fit(ds))

	dists, err := clf.Distributions(ds.Subset([]int{0}))
	require.NoError(t, err)

	// P(yes)=(3+1)/(6+2), P(sunny|yes)=(3+1)/(3+2)
	// P(no)=(3+1)/(6+2),  P(sunny|no)=(1+1)/(3+2)
	yes := 0.5 * 0.8
	no := 0.5 * 0.4
	assert.InDelta(t, yes/(yes+no), dists[0][0], 1e-9)
	assert.InDelta(t, no/(yes+no), dists[0][1], 1e-9)
}

func TestNaiveBayesIgnoresMissingNumeric(t *testing.T) {
	ds := data.NewDataset("gap", []data.Attribute{
		data.NewNumericAttribute("x"),
		data.NewNominalAttribute("class", []string{"a", "b"}),
	})
	for i := 0; i < 5; i++ {
		require.NoError(t, ds.Add([]data.Value{data.NumFloat(float64(i)), data.Cat(0)}))
		require.NoError(t, ds.Add([]data.Value{data.NumFloat(float64(10 + i)), data.Cat(1)}))
	}
	require.NoError(t, ds.Add([]data.Value{data.MissingValue(), data.Cat(0)}))
	require.NoError(t, ds.SetClassIndex(1))

	clf, err := CreateClassifier(DefaultConfig("naive_bayes"))
	require.NoError(t, err)
	require.NoError(t, clf.Fit(ds))

	nb := clf.Model.(*NaiveBayes)
	assert.InDelta(t, 2.0, nb.FeatureMeans[0][0].InexactFloat64(), 1e-9)
	assert.InDelta(t, math.Sqrt2, nb.FeatureStds[0][0], 1e-6)

	// a query without x falls back to the Laplace-corrected prior
	dists, err := clf.Distributions(ds.Subset([]int{10}))
	require.NoError(t, err)
	assert.InDelta(t, 7.0/13, dists[0][0], 1e-9)
	assert.InDelta(t, 6.0/13, dists[0][1], 1e-9)

	clone := clf.Clone().(*Pipeline)
	assert.True(t, clone.Encoder.MissingFlags)
}

func TestRandomForestIsReproducible(t *testing.T) {
	ds := separable(t)

	run := func(workers int) [][]float64 {
		model := NewRandomForest(15, 5, 2)
		model.MaxWorkers = workers
		clf := NewPipeline(rawEncoder(), model)
		require.NoError(t, clf.Fit(ds))
		dists, err := clf.Distributions(ds)
		require.NoError(t, err)
		return dists
	}

	assert.Equal(t, run(1), run(4))
}
