package preprocessing

import (
	"fmt"
	"math"

	"github.com/IbaiO/weka-lab/internal/data"
	"github.com/shopspring/decimal"
)

// Encoder turns the non-class attributes of a dataset into a dense feature
// matrix. Numeric attributes go through the Scaler and nominal attributes are
// one-hot encoded.
//
// In distance mode numeric attributes are min-max normalised, a one-hot column
// is scaled by 1/sqrt(2) so two different nominal values are exactly 1 apart,
// and every column is divided by sqrt(attributes). The squared Euclidean
// distance between two encoded rows is then the mean squared per-attribute
// difference and always lies in [0, 1].
//
// Outside distance mode MissingFlags gives every numeric attribute a second
// column that is 1 when the cell is missing, so models can tell an observed
// value from the mean filled in for it.
type Encoder struct {
	Scaler       *Scaler
	Distance     bool
	MissingFlags bool
	IsFitted     bool

	attributes []data.Attribute
	classIndex int
	offsets    []int
	width      int
	oneHot     decimal.Decimal
	norm       decimal.Decimal
}

func NewEncoder(scaleType string) *Encoder {
	return &Encoder{Scaler: NewScaler(scaleType)}
}

func NewDistanceEncoder() *Encoder {
	return &Encoder{Scaler: NewScaler("minmax"), Distance: true}
}

// NewFlaggingEncoder keeps raw values and flags missing numeric cells.
func NewFlaggingEncoder() *Encoder {
	return &Encoder{Scaler: NewScaler("none"), MissingFlags: true}
}

// Clone returns an unfitted encoder with the same options.
func (e *Encoder) Clone() *Encoder {
	return &Encoder{
		Scaler:       NewScaler(e.Scaler.ScaleType),
		Distance:     e.Distance,
		MissingFlags: e.MissingFlags,
	}
}

func (e *Encoder) flagged() bool {
	return e.MissingFlags && !e.Distance
}

func (e *Encoder) Fit(ds *data.Dataset) error {
	if err := e.Scaler.Fit(ds); err != nil {
		return err
	}

	e.attributes = ds.Attributes
	e.classIndex = ds.ClassIndex
	e.offsets = make([]int, ds.NumAttributes())
	e.width = 0

	used := 0
	for j, attr := range ds.Attributes {
		e.offsets[j] = e.width
		if j == ds.ClassIndex {
			continue
		}
		used++
		switch {
		case attr.IsNominal():
			e.width += len(attr.Values)
		case e.flagged():
			e.width += 2
		default:
			e.width++
		}
	}

	e.oneHot = decimal.NewFromInt(1)
	e.norm = decimal.NewFromInt(1)
	if e.Distance {
		e.oneHot = decimal.NewFromFloat(math.Sqrt(0.5))
		if used > 0 {
			e.norm = decimal.NewFromFloat(1 / math.Sqrt(float64(used)))
		}
	}

	e.IsFitted = true
	return nil
}

// ColumnGroup is the block of encoded columns produced by one attribute. A
// Flagged numeric group holds the value at Offset and the missing flag at
// Offset+1.
type ColumnGroup struct {
	Attribute int
	Offset    int
	Width     int
	Nominal   bool
	Flagged   bool
}

// Observed reports whether row carries a value for the group's attribute.
func (g ColumnGroup) Observed(row []decimal.Decimal) bool {
	if g.Nominal {
		for v := 0; v < g.Width; v++ {
			if row[g.Offset+v].IsPositive() {
				return true
			}
		}
		return false
	}
	return !g.Flagged || !row[g.Offset+1].IsPositive()
}

// Groups lists the encoded column blocks in attribute order.
func (e *Encoder) Groups() []ColumnGroup {
	groups := make([]ColumnGroup, 0, len(e.attributes))
	for j, attr := range e.attributes {
		if j == e.classIndex {
			continue
		}
		g := ColumnGroup{Attribute: j, Offset: e.offsets[j], Width: 1}
		switch {
		case attr.IsNominal():
			g.Width = len(attr.Values)
			g.Nominal = true
		case e.flagged():
			g.Width = 2
			g.Flagged = true
		}
		groups = append(groups, g)
	}
	return groups
}

// Width is the number of encoded columns.
func (e *Encoder) Width() int {
	return e.width
}

func (e *Encoder) Transform(ds *data.Dataset) ([][]decimal.Decimal, error) {
	if !e.IsFitted {
		return nil, fmt.Errorf("encoder must be fitted before transform")
	}
	if ds.NumAttributes() != len(e.attributes) {
		return nil, fmt.Errorf("dataset has %d attributes, encoder was fitted on %d", ds.NumAttributes(), len(e.attributes))
	}

	X := make([][]decimal.Decimal, ds.NumInstances())
	for i, row := range ds.Rows {
		X[i] = e.TransformRow(row)
	}
	return X, nil
}

func (e *Encoder) FitTransform(ds *data.Dataset) ([][]decimal.Decimal, error) {
	if err := e.Fit(ds); err != nil {
		return nil, err
	}
	return e.Transform(ds)
}

// TransformRow encodes one instance. A missing numeric cell takes the fitted
// mean, raising its flag when flags are on, and a missing nominal cell leaves
// its one-hot block at zero.
func (e *Encoder) TransformRow(row []data.Value) []decimal.Decimal {
	out := make([]decimal.Decimal, e.width)
	for j, attr := range e.attributes {
		if j == e.classIndex {
			continue
		}
		v := row[j]
		off := e.offsets[j]

		if attr.IsNominal() {
			if !v.Missing && v.Index >= 0 && v.Index < len(attr.Values) {
				out[off+v.Index] = e.oneHot.Mul(e.norm)
			}
			continue
		}

		num := e.Scaler.Mean(j)
		if !v.Missing {
			num = v.Number
		} else if e.flagged() {
			out[off+1] = decimal.NewFromInt(1)
		}
		out[off] = e.Scaler.Scale(j, num).Mul(e.norm)
	}
	return out
}

// Labels returns the class index of every row, -1 for a missing label.
func Labels(ds *data.Dataset) []int {
	y := make([]int, ds.NumInstances())
	for i := range ds.Rows {
		y[i] = ds.Label(i)
	}
	return y
}
