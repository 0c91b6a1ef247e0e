package preprocessing

import (
	"fmt"
	"math"

	"github.com/IbaiO/weka-lab/internal/data"
	"github.com/shopspring/decimal"
)

// Scaler holds per-attribute statistics of the numeric attributes of a
// dataset. Nominal attributes and missing cells are ignored while fitting.
type Scaler struct {
	ScaleType   string
	IsFitted    bool
	FeatureMin  []decimal.Decimal
	FeatureMax  []decimal.Decimal
	FeatureMean []decimal.Decimal
	FeatureStd  []decimal.Decimal
	Observed    []int
}

func NewScaler(scaleType string) *Scaler {
	return &Scaler{
		ScaleType: scaleType,
		IsFitted:  false,
	}
}

func (s *Scaler) Fit(ds *data.Dataset) error {
	switch s.ScaleType {
	case "minmax", "normalized", "standard", "standardized", "raw", "none":
	default:
		return fmt.Errorf("unknown scale type: %s", s.ScaleType)
	}

	nAttrs := ds.NumAttributes()
	s.FeatureMin = make([]decimal.Decimal, nAttrs)
	s.FeatureMax = make([]decimal.Decimal, nAttrs)
	s.FeatureMean = make([]decimal.Decimal, nAttrs)
	s.FeatureStd = make([]decimal.Decimal, nAttrs)
	s.Observed = make([]int, nAttrs)

	for j, attr := range ds.Attributes {
		s.FeatureStd[j] = decimal.NewFromInt(1)
		if attr.IsNominal() {
			continue
		}
		s.fitColumn(ds, j)
	}

	s.IsFitted = true
	return nil
}

func (s *Scaler) fitColumn(ds *data.Dataset, j int) {
	sum := decimal.Zero
	first := true
	for _, row := range ds.Rows {
		v := row[j]
		if v.Missing {
			continue
		}
		if first || v.Number.LessThan(s.FeatureMin[j]) {
			s.FeatureMin[j] = v.Number
		}
		if first || v.Number.GreaterThan(s.FeatureMax[j]) {
			s.FeatureMax[j] = v.Number
		}
		first = false
		sum = sum.Add(v.Number)
		s.Observed[j]++
	}

	if s.Observed[j] == 0 {
		return
	}

	n := decimal.NewFromInt(int64(s.Observed[j]))
	s.FeatureMean[j] = sum.Div(n)

	variance := decimal.Zero
	for _, row := range ds.Rows {
		if row[j].Missing {
			continue
		}
		diff := row[j].Number.Sub(s.FeatureMean[j])
		variance = variance.Add(diff.Mul(diff))
	}
	variance = variance.Div(n)

	varFloat, _ := variance.Float64()
	std := decimal.NewFromFloat(math.Sqrt(varFloat))
	if !std.IsZero() {
		s.FeatureStd[j] = std
	}
}

// Scale maps a numeric value of attribute j into the fitted space. With min-max
// scaling a constant attribute maps to zero.
func (s *Scaler) Scale(j int, value decimal.Decimal) decimal.Decimal {
	switch s.ScaleType {
	case "minmax", "normalized":
		range_ := s.FeatureMax[j].Sub(s.FeatureMin[j])
		if range_.IsZero() {
			return decimal.Zero
		}
		return value.Sub(s.FeatureMin[j]).Div(range_)
	case "standard", "standardized":
		return value.Sub(s.FeatureMean[j]).Div(s.FeatureStd[j])
	default:
		return value
	}
}

// Mean returns the mean of the observed values of attribute j.
func (s *Scaler) Mean(j int) decimal.Decimal {
	return s.FeatureMean[j]
}
