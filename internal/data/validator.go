package data

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type DataValidator struct{}

func NewDataValidator() *DataValidator {
	return &DataValidator{}
}

func (dv *DataValidator) ValidateDataset(ds *Dataset) error {
	if ds == nil || ds.NumInstances() == 0 {
		return fmt.Errorf("dataset is empty")
	}

	if ds.NumAttributes() == 0 {
		return fmt.Errorf("attributes cannot be empty")
	}

	for i, row := range ds.Rows {
		if len(row) != ds.NumAttributes() {
			return fmt.Errorf("inconsistent value count at instance %d: expected %d, got %d", i, ds.NumAttributes(), len(row))
		}
		for j, v := range row {
			attr := ds.Attributes[j]
			if !v.Missing && attr.IsNominal() && (v.Index < 0 || v.Index >= len(attr.Values)) {
				return fmt.Errorf("value index %d out of domain of %q at instance %d", v.Index, attr.Name, i)
			}
		}
	}

	return nil
}

// ValidateLabels checks that ds has a nominal class with at least two
// declared values.
func (dv *DataValidator) ValidateLabels(ds *Dataset) error {
	attr, ok := ds.ClassAttribute()
	if !ok {
		return fmt.Errorf("%w: class index is not set", ErrInvalidLabel)
	}
	if !attr.IsNominal() {
		return fmt.Errorf("%w: class attribute %q is not nominal", ErrInvalidLabel, attr.Name)
	}
	if len(attr.Values) < 2 {
		return fmt.Errorf("%w: dataset must have at least 2 classes, found %d", ErrInvalidLabel, len(attr.Values))
	}
	return nil
}

type AttributeStats struct {
	Name    string
	Kind    AttributeKind
	Missing int
	Min     decimal.Decimal
	Max     decimal.Decimal
	Mean    decimal.Decimal
	Counts  []int
}

type DatasetStats struct {
	Instances         int
	Attributes        int
	Classes           int
	Missing           int
	ClassDistribution map[string]int
	AttributeStats    []AttributeStats
}

func (dv *DataValidator) GetDatasetStats(ds *Dataset) DatasetStats {
	stats := DatasetStats{
		Instances:         ds.NumInstances(),
		Attributes:        ds.NumAttributes(),
		Classes:           ds.NumClasses(),
		ClassDistribution: make(map[string]int),
		AttributeStats:    make([]AttributeStats, ds.NumAttributes()),
	}

	for j, attr := range ds.Attributes {
		as := AttributeStats{Name: attr.Name, Kind: attr.Kind}
		if attr.IsNominal() {
			as.Counts = make([]int, len(attr.Values))
		}

		var present []decimal.Decimal
		for _, row := range ds.Rows {
			v := row[j]
			if v.Missing {
				as.Missing++
				continue
			}
			if attr.IsNominal() {
				if v.Index >= 0 && v.Index < len(as.Counts) {
					as.Counts[v.Index]++
				}
				continue
			}
			present = append(present, v.Number)
		}

		if !attr.IsNominal() {
			as.Min = findMin(present)
			as.Max = findMax(present)
			as.Mean = calculateMean(present)
		}
		stats.Missing += as.Missing
		stats.AttributeStats[j] = as
	}

	if attr, ok := ds.ClassAttribute(); ok && attr.IsNominal() {
		for i, count := range stats.AttributeStats[ds.ClassIndex].Counts {
			stats.ClassDistribution[attr.Values[i]] = count
		}
	}

	return stats
}

func findMin(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return decimal.Min(values[0], values[1:]...)
}

func findMax(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return decimal.Max(values[0], values[1:]...)
}

func calculateMean(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(values[0], values[1:]...).Div(decimal.NewFromInt(int64(len(values))))
}
