package data

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type AttributeKind int

const (
	Numeric AttributeKind = iota
	Nominal
)

func (k AttributeKind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Nominal:
		return "nominal"
	default:
		return fmt.Sprintf("AttributeKind(%d)", int(k))
	}
}

type Attribute struct {
	Name   string
	Kind   AttributeKind
	Values []string
}

func NewNumericAttribute(name string) Attribute {
	return Attribute{Name: name, Kind: Numeric}
}

func NewNominalAttribute(name string, values []string) Attribute {
	v := make([]string, len(values))
	copy(v, values)
	return Attribute{Name: name, Kind: Nominal, Values: v}
}

func (a Attribute) IsNominal() bool {
	return a.Kind == Nominal
}

// IndexOf returns the position of a nominal value in the attribute domain, or -1.
func (a Attribute) IndexOf(value string) int {
	for i, v := range a.Values {
		if v == value {
			return i
		}
	}
	return -1
}

// Value is a single cell. Nominal cells carry the index into Attribute.Values.
type Value struct {
	Number  decimal.Decimal
	Index   int
	Missing bool
}

func Num(d decimal.Decimal) Value {
	return Value{Number: d}
}

func NumFloat(f float64) Value {
	return Value{Number: decimal.NewFromFloat(f)}
}

func Cat(index int) Value {
	return Value{Index: index}
}

func MissingValue() Value {
	return Value{Missing: true}
}

// Dataset is an in-memory table of instances. ClassIndex is -1 until a label
// column has been chosen.
type Dataset struct {
	Relation   string
	Attributes []Attribute
	Rows       [][]Value
	ClassIndex int
}

func NewDataset(relation string, attributes []Attribute) *Dataset {
	attrs := make([]Attribute, len(attributes))
	copy(attrs, attributes)
	return &Dataset{
		Relation:   relation,
		Attributes: attrs,
		ClassIndex: -1,
	}
}

func (ds *Dataset) NumInstances() int {
	return len(ds.Rows)
}

func (ds *Dataset) NumAttributes() int {
	return len(ds.Attributes)
}

func (ds *Dataset) HasClass() bool {
	return ds.ClassIndex >= 0 && ds.ClassIndex < len(ds.Attributes)
}

func (ds *Dataset) SetClassIndex(index int) error {
	if index < 0 || index >= len(ds.Attributes) {
		return fmt.Errorf("%w: class index %d out of range [0,%d)", ErrInvalidLabel, index, len(ds.Attributes))
	}
	ds.ClassIndex = index
	return nil
}

func (ds *Dataset) SetClassByName(name string) error {
	for i, attr := range ds.Attributes {
		if attr.Name == name {
			ds.ClassIndex = i
			return nil
		}
	}
	return fmt.Errorf("%w: no attribute named %q", ErrInvalidLabel, name)
}

func (ds *Dataset) ClassAttribute() (Attribute, bool) {
	if !ds.HasClass() {
		return Attribute{}, false
	}
	return ds.Attributes[ds.ClassIndex], true
}

// NumClasses is the size of the declared class domain. It is zero when the
// label is unset and one for a numeric label.
func (ds *Dataset) NumClasses() int {
	attr, ok := ds.ClassAttribute()
	if !ok {
		return 0
	}
	if !attr.IsNominal() {
		return 1
	}
	return len(attr.Values)
}

func (ds *Dataset) ClassNames() []string {
	attr, ok := ds.ClassAttribute()
	if !ok || !attr.IsNominal() {
		return nil
	}
	names := make([]string, len(attr.Values))
	copy(names, attr.Values)
	return names
}

// Label returns the class index of row i, or -1 when the label is missing.
func (ds *Dataset) Label(i int) int {
	v := ds.Rows[i][ds.ClassIndex]
	if v.Missing {
		return -1
	}
	return v.Index
}

func (ds *Dataset) Add(row []Value) error {
	if len(row) != len(ds.Attributes) {
		return fmt.Errorf("row has %d values, dataset has %d attributes", len(row), len(ds.Attributes))
	}
	ds.Rows = append(ds.Rows, row)
	return nil
}

func (ds *Dataset) MissingCount() int {
	count := 0
	for _, row := range ds.Rows {
		for _, v := range row {
			if v.Missing {
				count++
			}
		}
	}
	return count
}

// Subset returns a dataset sharing attributes and cells with ds, holding only
// the given rows in the given order.
func (ds *Dataset) Subset(indices []int) *Dataset {
	sub := &Dataset{
		Relation:   ds.Relation,
		Attributes: ds.Attributes,
		ClassIndex: ds.ClassIndex,
		Rows:       make([][]Value, len(indices)),
	}
	for i, idx := range indices {
		sub.Rows[i] = ds.Rows[idx]
	}
	return sub
}

func (ds *Dataset) Clone() *Dataset {
	clone := NewDataset(ds.Relation, ds.Attributes)
	for i, attr := range ds.Attributes {
		if attr.IsNominal() {
			clone.Attributes[i] = NewNominalAttribute(attr.Name, attr.Values)
		}
	}
	clone.ClassIndex = ds.ClassIndex
	clone.Rows = make([][]Value, len(ds.Rows))
	for i, row := range ds.Rows {
		clone.Rows[i] = make([]Value, len(row))
		copy(clone.Rows[i], row)
	}
	return clone
}

// FormatValue renders a cell the way it would appear in a data file.
func (ds *Dataset) FormatValue(attr int, v Value) string {
	if v.Missing {
		return "?"
	}
	a := ds.Attributes[attr]
	if a.IsNominal() {
		if v.Index >= 0 && v.Index < len(a.Values) {
			return a.Values[v.Index]
		}
		return fmt.Sprintf("#%d", v.Index)
	}
	return v.Number.String()
}
