package preprocessing

import (
	"math"
	"testing"

	"github.com/IbaiO/weka-lab/internal/data"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mixed(t *testing.T) *data.Dataset {
	t.Helper()

	ds := data.NewDataset("mixed", []data.Attribute{
		data.NewNumericAttribute("x"),
		data.NewNominalAttribute("colour", []string{"red", "blue"}),
		data.NewNominalAttribute("class", []string{"a", "b"}),
	})
	rows := [][]data.Value{
		{data.NumFloat(0), data.Cat(0), data.Cat(0)},
		{data.NumFloat(10), data.Cat(1), data.Cat(1)},
		{data.NumFloat(5), data.Cat(0), data.Cat(1)},
		{data.MissingValue(), data.MissingValue(), data.Cat(0)},
	}
	for _, row := range rows {
		require.NoError(t, ds.Add(row))
	}
	require.NoError(t, ds.SetClassIndex(2))
	return ds
}

func squared(a, b []decimal.Decimal) float64 {
	sum := 0.0
	for i := range a {
		d := a[i].Sub(b[i]).InexactFloat64()
		sum += d * d
	}
	return sum
}

func TestDistanceEncoderNormalisesToUnitRange(t *testing.T) {
	ds := mixed(t)
	enc := NewDistanceEncoder()

	X, err := enc.FitTransform(ds)
	require.NoError(t, err)
	require.Equal(t, 3, enc.Width())
	require.Len(t, X, 4)

	// x differs by the full range and colour differs: (1 + 1) / 2 attributes
	assert.InDelta(t, 1.0, squared(X[0], X[1]), 1e-9)
	// x differs by half the range, same colour
	assert.InDelta(t, 0.25/2, squared(X[0], X[2]), 1e-9)
	// only colour differs
	assert.InDelta(t, 0.5, squared(X[1], X[2])-0.25/2, 1e-9)
}

func TestEncoderMissingValues(t *testing.T) {
	ds := mixed(t)
	enc := NewDistanceEncoder()
	X, err := enc.FitTransform(ds)
	require.NoError(t, err)

	// mean of 0, 10, 5 is 5 which scales to 0.5
	assert.InDelta(t, 0.5/math.Sqrt(2), X[3][0].InexactFloat64(), 1e-9)
	assert.True(t, X[3][1].IsZero())
	assert.True(t, X[3][2].IsZero())
}

func TestRawEncoderKeepsValues(t *testing.T) {
	enc := NewEncoder("none")
	X, err := enc.FitTransform(mixed(t))
	require.NoError(t, err)

	assert.Equal(t, "10", X[1][0].String())
	assert.Equal(t, "0", X[1][1].String())
	assert.Equal(t, "1", X[1][2].String())

	assert.Equal(t, []ColumnGroup{
		{Attribute: 0, Offset: 0, Width: 1},
		{Attribute: 1, Offset: 1, Width: 2, Nominal: true},
	}, enc.Groups())
}

func TestFlaggingEncoderMarksMissingNumerics(t *testing.T) {
	enc := NewFlaggingEncoder()
	X, err := enc.FitTransform(mixed(t))
	require.NoError(t, err)
	require.Equal(t, 4, enc.Width())

	groups := enc.Groups()
	assert.Equal(t, []ColumnGroup{
		{Attribute: 0, Offset: 0, Width: 2, Flagged: true},
		{Attribute: 1, Offset: 2, Width: 2, Nominal: true},
	}, groups)

	assert.Equal(t, "10", X[1][0].String())
	assert.True(t, X[1][1].IsZero())
	assert.Equal(t, "1", X[3][1].String())

	assert.True(t, groups[0].Observed(X[0]))
	assert.False(t, groups[0].Observed(X[3]))
	assert.True(t, groups[1].Observed(X[0]))
	assert.False(t, groups[1].Observed(X[3]))

	clone := enc.Clone()
	assert.True(t, clone.MissingFlags)
	assert.False(t, clone.IsFitted)
}

func TestDistanceEncoderIgnoresMissingFlags(t *testing.T) {
	enc := NewDistanceEncoder()
	enc.MissingFlags = true
	require.NoError(t, enc.Fit(mixed(t)))
	assert.Equal(t, 3, enc.Width())
}

func TestEncoderErrors(t *testing.T) {
	_, err := NewEncoder("none").Transform(mixed(t))
	assert.Error(t, err)

	_, err = NewEncoder("log").FitTransform(mixed(t))
	assert.Error(t, err)

	enc := NewEncoder("minmax")
	require.NoError(t, enc.Fit(mixed(t)))
	_, err = enc.Transform(data.NewDataset("other", []data.Attribute{data.NewNumericAttribute("x")}))
	assert.Error(t, err)
}

func TestScalerStandard(t *testing.T) {
	s := NewScaler("standard")
	require.NoError(t, s.Fit(mixed(t)))

	assert.Equal(t, "5", s.Mean(0).String())
	z := s.Scale(0, decimal.NewFromInt(10)).InexactFloat64()
	assert.InDelta(t, 5/math.Sqrt(50.0/3), z, 1e-9)
}

func TestLabels(t *testing.T) {
	ds := mixed(t)
	ds.Rows[1][2] = data.MissingValue()
	assert.Equal(t, []int{0, -1, 1, 0}, Labels(ds))
}
