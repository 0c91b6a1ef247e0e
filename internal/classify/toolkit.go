// Package classify bundles dataset parsing, filtering, model construction and
// cross-validation behind one value that the pipelines receive as their
// classification library.
package classify

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/IbaiO/weka-lab/internal/data"
	"github.com/IbaiO/weka-lab/internal/evaluation"
	"github.com/IbaiO/weka-lab/internal/models"
	"github.com/IbaiO/weka-lab/internal/preprocessing"
)

// Toolkit is the classification library used by the command-line tools.
type Toolkit struct {
	// Workers is the number of folds cross-validated concurrently.
	Workers int
}

func New() *Toolkit {
	return &Toolkit{Workers: 1}
}

// ReadDataset parses an ARFF or CSV file, chosen by extension. The class
// index is left unset unless the format carries one. A missing file is
// reported as such whatever its extension.
func (t *Toolkit) ReadDataset(path string) (*data.Dataset, error) {
	if err := data.CheckFile(path); err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".arff":
		return data.NewARFFReader(path).LoadData()
	case ".csv":
		return data.NewCSVReader(path).LoadData()
	default:
		return nil, fmt.Errorf("%w: %s: unsupported file format", data.ErrUnreadableFile, path)
	}
}

// NewKNN builds an unfitted nearest-neighbour classifier.
func (t *Toolkit) NewKNN(k int, structure models.SearchStructure, weighting models.Weighting) (models.Classifier, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", models.ErrModelBuildFailed, k)
	}

	config := models.DefaultConfig("knn")
	config.K = k
	config.Structure = structure
	config.Weighting = weighting
	return t.build(config)
}

// NewClassifier builds an unfitted classifier by algorithm name with its
// default parameters.
func (t *Toolkit) NewClassifier(name string) (models.Classifier, error) {
	algorithm, err := models.CanonicalAlgorithm(strings.ToLower(name))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrModelBuildFailed, err)
	}
	return t.build(models.DefaultConfig(algorithm))
}

func (t *Toolkit) build(config models.ModelConfig) (models.Classifier, error) {
	clf, err := models.CreateClassifier(config)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrModelBuildFailed, err)
	}
	return clf, nil
}

// NewMissingValueFilter returns an unfitted mean/mode imputation filter.
func (t *Toolkit) NewMissingValueFilter() preprocessing.Filter {
	return preprocessing.NewReplaceMissing()
}

// CrossValidate runs stratified k-fold cross-validation of clf on ds.
func (t *Toolkit) CrossValidate(
	ctx context.Context,
	clf models.Classifier,
	ds *data.Dataset,
	folds int,
	seed int64,
) (*evaluation.Evaluation, error) {
	cv := evaluation.NewCrossValidator(folds, seed)
	cv.MaxWorkers = t.Workers
	return cv.CrossValidate(ctx, clf, ds)
}

// Score cross-validates clf and returns its weighted F-measure.
func (t *Toolkit) Score(
	ctx context.Context,
	clf models.Classifier,
	ds *data.Dataset,
	folds int,
	seed int64,
) (float64, error) {
	eval, err := t.CrossValidate(ctx, clf, ds, folds, seed)
	if err != nil {
		return 0, err
	}
	return eval.WeightedFMeasure(), nil
}
