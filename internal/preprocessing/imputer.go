package preprocessing

import (
	"fmt"

	"github.com/IbaiO/weka-lab/internal/data"
	"github.com/shopspring/decimal"
)

// Filter is a dataset-to-dataset transform fitted on the data it is first
// given.
type Filter interface {
	Fit(ds *data.Dataset) error
	Transform(ds *data.Dataset) (*data.Dataset, error)
}

// ReplaceMissing substitutes every missing cell with the mean (numeric) or
// mode (nominal) of the fitted data. A numeric attribute with no observed
// values is replaced with zero and a nominal one with its first declared
// value.
type ReplaceMissing struct {
	Replacements []data.Value
	IsFitted     bool
}

func NewReplaceMissing() *ReplaceMissing {
	return &ReplaceMissing{}
}

func (rm *ReplaceMissing) Fit(ds *data.Dataset) error {
	if ds == nil {
		return fmt.Errorf("%w: nil dataset", ErrTransformFailed)
	}

	rm.Replacements = make([]data.Value, ds.NumAttributes())
	for j, attr := range ds.Attributes {
		if attr.IsNominal() {
			mode, err := nominalMode(ds, j)
			if err != nil {
				return err
			}
			rm.Replacements[j] = data.Cat(mode)
			continue
		}
		rm.Replacements[j] = data.Num(numericMean(ds, j))
	}

	rm.IsFitted = true
	return nil
}

func (rm *ReplaceMissing) Transform(ds *data.Dataset) (*data.Dataset, error) {
	if !rm.IsFitted {
		return nil, fmt.Errorf("%w: filter must be fitted before transform", ErrTransformFailed)
	}
	if ds.NumAttributes() != len(rm.Replacements) {
		return nil, fmt.Errorf("%w: dataset has %d attributes, filter was fitted on %d",
			ErrTransformFailed, ds.NumAttributes(), len(rm.Replacements))
	}

	out := ds.Clone()
	for _, row := range out.Rows {
		for j := range row {
			if row[j].Missing {
				row[j] = rm.Replacements[j]
			}
		}
	}
	return out, nil
}

func (rm *ReplaceMissing) FitTransform(ds *data.Dataset) (*data.Dataset, error) {
	if err := rm.Fit(ds); err != nil {
		return nil, err
	}
	return rm.Transform(ds)
}

func numericMean(ds *data.Dataset, j int) decimal.Decimal {
	sum := decimal.Zero
	n := 0
	for _, row := range ds.Rows {
		if row[j].Missing {
			continue
		}
		sum = sum.Add(row[j].Number)
		n++
	}
	if n == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(n)))
}

// nominalMode returns the most frequent value of attribute j, the lowest index
// on ties.
func nominalMode(ds *data.Dataset, j int) (int, error) {
	attr := ds.Attributes[j]
	if len(attr.Values) == 0 {
		return 0, fmt.Errorf("%w: nominal attribute %q has an empty domain", ErrTransformFailed, attr.Name)
	}

	counts := make([]int, len(attr.Values))
	for _, row := range ds.Rows {
		v := row[j]
		if v.Missing || v.Index < 0 || v.Index >= len(counts) {
			continue
		}
		counts[v.Index]++
	}

	mode := 0
	for i, c := range counts {
		if c > counts[mode] {
			mode = i
		}
	}
	return mode, nil
}
