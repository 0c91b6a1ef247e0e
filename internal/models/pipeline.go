package models

import (
	"fmt"

	"github.com/IbaiO/weka-lab/internal/data"
	"github.com/IbaiO/weka-lab/internal/preprocessing"
)

// Classifier is a model that trains and predicts on whole datasets.
type Classifier interface {
	Fit(ds *data.Dataset) error
	// Distributions returns one class distribution per instance of ds.
	Distributions(ds *data.Dataset) ([][]float64, error)
	Name() string
	Clone() Classifier
}

// Pipeline encodes a dataset and hands the feature matrix to a Model.
type Pipeline struct {
	Encoder *preprocessing.Encoder
	Model   Model

	numClasses int
	fitted     bool
}

func NewPipeline(encoder *preprocessing.Encoder, model Model) *Pipeline {
	return &Pipeline{Encoder: encoder, Model: model}
}

func distanceEncoder() *preprocessing.Encoder {
	return preprocessing.NewDistanceEncoder()
}

func rawEncoder() *preprocessing.Encoder {
	return preprocessing.NewEncoder("none")
}

func flaggingEncoder() *preprocessing.Encoder {
	return preprocessing.NewFlaggingEncoder()
}

// Fit trains on the rows of ds whose label is present. The class attribute
// must be nominal.
func (p *Pipeline) Fit(ds *data.Dataset) error {
	attr, ok := ds.ClassAttribute()
	if !ok {
		return fmt.Errorf("%w: %w: class index is not set", ErrModelBuildFailed, data.ErrInvalidLabel)
	}
	if !attr.IsNominal() {
		return fmt.Errorf("%w: %w: class attribute %q is not nominal", ErrModelBuildFailed, data.ErrInvalidLabel, attr.Name)
	}

	var labelled []int
	for i := range ds.Rows {
		if ds.Label(i) >= 0 {
			labelled = append(labelled, i)
		}
	}
	train := ds.Subset(labelled)

	if err := p.Encoder.Fit(train); err != nil {
		return fmt.Errorf("%w: %v", ErrModelBuildFailed, err)
	}
	X, err := p.Encoder.Transform(train)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrModelBuildFailed, err)
	}

	if grouped, ok := p.Model.(interface {
		SetColumnGroups([]preprocessing.ColumnGroup)
	}); ok {
		grouped.SetColumnGroups(p.Encoder.Groups())
	}

	p.numClasses = len(attr.Values)
	if err := p.Model.Fit(X, preprocessing.Labels(train), p.numClasses); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrModelBuildFailed, p.Model.GetName(), err)
	}

	p.fitted = true
	return nil
}

func (p *Pipeline) Distributions(ds *data.Dataset) ([][]float64, error) {
	if !p.fitted {
		return nil, fmt.Errorf("%s must be fitted before prediction", p.Name())
	}
	X, err := p.Encoder.Transform(ds)
	if err != nil {
		return nil, err
	}
	return p.Model.PredictProba(X), nil
}

func (p *Pipeline) Name() string {
	return p.Model.GetName()
}

func (p *Pipeline) NumClasses() int {
	return p.numClasses
}

// Clone returns an unfitted copy with the same configuration.
func (p *Pipeline) Clone() Classifier {
	return NewPipeline(p.Encoder.Clone(), p.Model.Clone())
}
