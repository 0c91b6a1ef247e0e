package persistence

import (
	"encoding/gob"
	"fmt"
	"os"
	"time"

	"github.com/IbaiO/weka-lab/internal/data"
	"github.com/IbaiO/weka-lab/internal/gridsearch"
)

// ResultBundle is the saved outcome of a grid search.
type ResultBundle struct {
	Best      gridsearch.BestResult
	Metadata  BundleMetadata
	CreatedAt time.Time
}

type BundleMetadata struct {
	Dataset    string
	Relation   string
	Instances  int
	Attributes int
	Classes    []string
	Folds      int
	Seed       int64
	SearchTime time.Duration
}

func NewResultBundle(best gridsearch.BestResult, ds *data.Dataset) *ResultBundle {
	return &ResultBundle{
		Best:      best,
		CreatedAt: time.Now(),
		Metadata: BundleMetadata{
			Relation:   ds.Relation,
			Instances:  ds.NumInstances(),
			Attributes: ds.NumAttributes(),
			Classes:    ds.ClassNames(),
		},
	}
}

func (rb *ResultBundle) Save(filename string) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	if err := gob.NewEncoder(file).Encode(rb); err != nil {
		return fmt.Errorf("failed to encode bundle: %w", err)
	}
	return nil
}

func LoadResultBundle(filename string) (*ResultBundle, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var bundle ResultBundle
	if err := gob.NewDecoder(file).Decode(&bundle); err != nil {
		return nil, fmt.Errorf("failed to decode bundle: %w", err)
	}
	return &bundle, nil
}
