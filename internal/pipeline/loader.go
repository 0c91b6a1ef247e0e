// Package pipeline holds the stages that prepare a dataset before it is
// evaluated: loading it with a resolved class attribute and filling in
// missing values.
package pipeline

import (
	"fmt"

	"github.com/IbaiO/weka-lab/internal/data"
	"github.com/sirupsen/logrus"
)

// DatasetReader parses a dataset file.
type DatasetReader interface {
	ReadDataset(path string) (*data.Dataset, error)
}

type Loader struct {
	Reader DatasetReader
	// ClassAttribute names the label used when the file does not set one.
	// Empty means the last attribute.
	ClassAttribute string
	Logger         logrus.FieldLogger
}

func NewLoader(reader DatasetReader, logger logrus.FieldLogger) *Loader {
	return &Loader{Reader: reader, Logger: logger}
}

// Load reads path and makes sure the returned dataset has a class index. A
// class already chosen by the reader is kept.
func (l *Loader) Load(path string) (*data.Dataset, error) {
	ds, err := l.Reader.ReadDataset(path)
	if err != nil {
		return nil, err
	}
	if ds.NumAttributes() == 0 {
		return nil, fmt.Errorf("%w: %s has no attributes", data.ErrUnreadableFile, path)
	}
	if ds.NumInstances() > 0 {
		if err := data.NewDataValidator().ValidateDataset(ds); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", data.ErrUnreadableFile, path, err)
		}
	}

	if !ds.HasClass() {
		if err := l.assignClass(ds); err != nil {
			return nil, err
		}
	}

	attr, _ := ds.ClassAttribute()
	l.Logger.WithFields(logrus.Fields{
		"relation":   ds.Relation,
		"instances":  ds.NumInstances(),
		"attributes": ds.NumAttributes(),
		"class":      attr.Name,
		"classes":    ds.NumClasses(),
		"missing":    ds.MissingCount(),
	}).Info("dataset loaded")

	return ds, nil
}

func (l *Loader) assignClass(ds *data.Dataset) error {
	if l.ClassAttribute != "" {
		return ds.SetClassByName(l.ClassAttribute)
	}
	return ds.SetClassIndex(ds.NumAttributes() - 1)
}
