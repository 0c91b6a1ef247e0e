package data

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVReaderInfersTypes(t *testing.T) {
	path := writeFile(t, "iris.csv", "sepal,petal,colour,species\n"+
		"5.1,1.4,red,setosa\n"+
		"7.0,?,blue,versicolor\n"+
		"6.3,6.0,,virginica\n"+
		"4.9,1.4,red,setosa\n")

	ds, err := NewCSVReader(path).LoadData()
	require.NoError(t, err)

	assert.Equal(t, "iris", ds.Relation)
	assert.Equal(t, -1, ds.ClassIndex)
	require.Equal(t, 4, ds.NumAttributes())
	assert.Equal(t, Numeric, ds.Attributes[0].Kind)
	assert.Equal(t, Numeric, ds.Attributes[1].Kind)
	assert.Equal(t, Nominal, ds.Attributes[2].Kind)
	assert.Equal(t, []string{"red", "blue"}, ds.Attributes[2].Values)
	assert.Equal(t, []string{"setosa", "versicolor", "virginica"}, ds.Attributes[3].Values)

	assert.True(t, ds.Rows[1][1].Missing)
	assert.True(t, ds.Rows[2][2].Missing)
	assert.Equal(t, 0, ds.Rows[3][3].Index)
	assert.Equal(t, 2, ds.MissingCount())
}

func TestCSVReaderLastColumnAlwaysNominal(t *testing.T) {
	ds, err := NewCSVReader(writeFile(t, "num.csv", "a,label\n1,0\n2,1\n3,0\n")).LoadData()
	require.NoError(t, err)

	assert.Equal(t, Nominal, ds.Attributes[1].Kind)
	assert.Equal(t, []string{"0", "1"}, ds.Attributes[1].Values)
}

func TestCSVReaderErrors(t *testing.T) {
	_, err := NewCSVReader(filepath.Join(t.TempDir(), "missing.csv")).LoadData()
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = NewCSVReader(writeFile(t, "header.csv", "a,b\n")).LoadData()
	assert.ErrorIs(t, err, ErrUnreadableFile)

	_, err = NewCSVReader(writeFile(t, "ragged.csv", "a,b\n1,2\n3\n")).LoadData()
	assert.ErrorIs(t, err, ErrUnreadableFile)
}
