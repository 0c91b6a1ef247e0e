package preprocessing

import (
	"testing"

	"github.com/IbaiO/weka-lab/internal/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withMissing(t *testing.T) *data.Dataset {
	t.Helper()

	ds := data.NewDataset("gaps", []data.Attribute{
		data.NewNumericAttribute("x"),
		data.NewNominalAttribute("colour", []string{"red", "green", "blue"}),
		data.NewNumericAttribute("empty"),
		data.NewNominalAttribute("class", []string{"a", "b"}),
	})
	rows := [][]data.Value{
		{data.NumFloat(1), data.Cat(1), data.MissingValue(), data.Cat(0)},
		{data.MissingValue(), data.Cat(1), data.MissingValue(), data.Cat(1)},
		{data.NumFloat(5), data.MissingValue(), data.MissingValue(), data.Cat(1)},
		{data.NumFloat(3), data.Cat(2), data.MissingValue(), data.MissingValue()},
	}
	for _, row := range rows {
		require.NoError(t, ds.Add(row))
	}
	require.NoError(t, ds.SetClassIndex(3))
	return ds
}

func TestReplaceMissingFillsEveryCell(t *testing.T) {
	ds := withMissing(t)
	before := ds.MissingCount()

	out, err := NewReplaceMissing().FitTransform(ds)
	require.NoError(t, err)

	assert.Zero(t, out.MissingCount())
	assert.Equal(t, ds.NumInstances(), out.NumInstances())
	assert.Equal(t, ds.NumAttributes(), out.NumAttributes())
	assert.Equal(t, ds.ClassIndex, out.ClassIndex)
	assert.Equal(t, before, ds.MissingCount(), "input must not be modified")

	assert.Equal(t, "3", out.FormatValue(0, out.Rows[1][0]))
	assert.Equal(t, "green", out.FormatValue(1, out.Rows[2][1]))
	assert.Equal(t, "0", out.FormatValue(2, out.Rows[0][2]))
	assert.Equal(t, "b", out.FormatValue(3, out.Rows[3][3]))
}

func TestReplaceMissingAllMissingNominalUsesFirstValue(t *testing.T) {
	ds := data.NewDataset("blank", []data.Attribute{
		data.NewNominalAttribute("colour", []string{"red", "green"}),
	})
	require.NoError(t, ds.Add([]data.Value{data.MissingValue()}))

	out, err := NewReplaceMissing().FitTransform(ds)
	require.NoError(t, err)
	assert.Equal(t, "red", out.FormatValue(0, out.Rows[0][0]))
}

func TestReplaceMissingEmptyDomainFails(t *testing.T) {
	ds := data.NewDataset("broken", []data.Attribute{
		data.NewNominalAttribute("nothing", nil),
	})
	require.NoError(t, ds.Add([]data.Value{data.MissingValue()}))

	_, err := NewReplaceMissing().FitTransform(ds)
	assert.ErrorIs(t, err, ErrTransformFailed)
}

func TestReplaceMissingRequiresFit(t *testing.T) {
	_, err := NewReplaceMissing().Transform(withMissing(t))
	assert.ErrorIs(t, err, ErrTransformFailed)

	rm := NewReplaceMissing()
	require.NoError(t, rm.Fit(withMissing(t)))
	other := data.NewDataset("other", []data.Attribute{data.NewNumericAttribute("x")})
	_, err = rm.Transform(other)
	assert.ErrorIs(t, err, ErrTransformFailed)
}
