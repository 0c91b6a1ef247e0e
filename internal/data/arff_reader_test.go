package data

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const weatherARFF = `% weather data
@relation weather

@attribute outlook {sunny, overcast, rainy}
@attribute temperature numeric
@attribute 'relative humidity' real
@attribute windy {TRUE, FALSE}
@attribute play {yes, no}

@data
sunny,85,85,FALSE,no
overcast,83,?,FALSE,yes
'rainy',70,96,TRUE,yes
?,64,65,TRUE,?
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestARFFReaderLoadsWeather(t *testing.T) {
	ds, err := NewARFFReader(writeFile(t, "weather.arff", weatherARFF)).LoadData()
	require.NoError(t, err)

	assert.Equal(t, "weather", ds.Relation)
	assert.Equal(t, 5, ds.NumAttributes())
	assert.Equal(t, 4, ds.NumInstances())
	assert.Equal(t, -1, ds.ClassIndex)

	assert.Equal(t, []string{"sunny", "overcast", "rainy"}, ds.Attributes[0].Values)
	assert.Equal(t, Numeric, ds.Attributes[1].Kind)
	assert.Equal(t, "relative humidity", ds.Attributes[2].Name)
	assert.Equal(t, Numeric, ds.Attributes[2].Kind)

	assert.Equal(t, 2, ds.Rows[2][0].Index)
	assert.Equal(t, "85", ds.FormatValue(1, ds.Rows[0][1]))
	assert.True(t, ds.Rows[1][2].Missing)
	assert.True(t, ds.Rows[3][0].Missing)
	assert.Equal(t, 3, ds.MissingCount())
}

func TestARFFReaderErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no data section", "@relation r\n@attribute a numeric\n"},
		{"unknown nominal value", "@relation r\n@attribute a {x,y}\n@data\nz\n"},
		{"bad number", "@relation r\n@attribute a numeric\n@data\nabc\n"},
		{"wrong arity", "@relation r\n@attribute a numeric\n@attribute b numeric\n@data\n1\n"},
		{"string attribute", "@relation r\n@attribute a string\n@data\nfoo\n"},
		{"sparse row", "@relation r\n@attribute a numeric\n@data\n{0 1}\n"},
		{"unterminated quote", "@relation r\n@attribute a {x,y}\n@data\n'x\n"},
		{"data before attributes", "@relation r\n@data\n1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewARFFReader(writeFile(t, "bad.arff", tt.content)).LoadData()
			assert.ErrorIs(t, err, ErrUnreadableFile)
		})
	}
}

func TestARFFReaderMissingFile(t *testing.T) {
	_, err := NewARFFReader(filepath.Join(t.TempDir(), "nope.arff")).LoadData()
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestSplitFields(t *testing.T) {
	fields, err := splitFields(` a , 'b c', "d,e" ,?`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b c", "d,e", "?"}, fields)

	fields, err = splitFields(`'it\'s'`)
	require.NoError(t, err)
	assert.Equal(t, []string{"it's"}, fields)
}

func TestParseARFFCaseInsensitiveKeywords(t *testing.T) {
	src := "@RELATION r\n@ATTRIBUTE a INTEGER\n@ATTRIBUTE c {p,q}\n@DATA\n1,p\n2,q\n"
	ds, err := ParseARFF(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 2, ds.NumInstances())
	assert.Equal(t, Nominal, ds.Attributes[1].Kind)
}
