package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
)

type CSVReader struct {
	filename string
}

func NewCSVReader(filename string) *CSVReader {
	return &CSVReader{filename: filename}
}

// LoadData reads a headed CSV file. Columns whose present cells all parse as
// numbers become numeric attributes; the rest, and always the last column,
// become nominal with the domain in order of first appearance. Empty cells
// and "?" are missing. The class index is left unset.
func (cr *CSVReader) LoadData() (*Dataset, error) {
	file, err := os.Open(cr.filename)
	if err != nil {
		return nil, openError(cr.filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableFile, cr.filename, err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("%w: %s: insufficient data in file", ErrUnreadableFile, cr.filename)
	}

	headers := records[0]
	data := records[1:]
	nCols := len(headers)

	for i, record := range data {
		if len(record) != nCols {
			return nil, fmt.Errorf("%w: %s: row %d has %d fields, header has %d",
				ErrUnreadableFile, cr.filename, i+2, len(record), nCols)
		}
	}

	attributes := make([]Attribute, nCols)
	encoders := make([]*LabelEncoder, nCols)
	for j, name := range headers {
		name = strings.TrimSpace(name)
		if j < nCols-1 && numericColumn(data, j) {
			attributes[j] = NewNumericAttribute(name)
			continue
		}

		present := make([]string, 0, len(data))
		for _, record := range data {
			if cell := strings.TrimSpace(record[j]); !isMissingCell(cell) {
				present = append(present, cell)
			}
		}
		encoders[j] = NewLabelEncoder()
		encoders[j].Fit(present)
		attributes[j] = NewNominalAttribute(name, encoders[j].Classes())
	}

	relation := strings.TrimSuffix(filepath.Base(cr.filename), filepath.Ext(cr.filename))
	ds := NewDataset(relation, attributes)
	ds.Rows = make([][]Value, 0, len(data))

	for _, record := range data {
		row := make([]Value, nCols)
		for j, raw := range record {
			cell := strings.TrimSpace(raw)
			switch {
			case isMissingCell(cell):
				row[j] = MissingValue()
			case encoders[j] != nil:
				row[j] = Cat(encoders[j].ClassToInt[cell])
			default:
				val, _ := decimal.NewFromString(cell)
				row[j] = Num(val)
			}
		}
		ds.Rows = append(ds.Rows, row)
	}

	return ds, nil
}

func numericColumn(records [][]string, col int) bool {
	seen := false
	for _, record := range records {
		cell := strings.TrimSpace(record[col])
		if isMissingCell(cell) {
			continue
		}
		if _, err := decimal.NewFromString(cell); err != nil {
			return false
		}
		seen = true
	}
	return seen
}

func isMissingCell(cell string) bool {
	return cell == "" || cell == "?"
}

// CheckFile reports ErrFileNotFound when filename does not exist and
// ErrUnreadableFile when it cannot be inspected.
func CheckFile(filename string) error {
	if _, err := os.Stat(filename); err != nil {
		return openError(filename, err)
	}
	return nil
}

func openError(filename string, err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrFileNotFound, filename)
	}
	return fmt.Errorf("%w: %s: %v", ErrUnreadableFile, filename, err)
}
