package pipeline

import (
	"errors"
	"fmt"

	"github.com/IbaiO/weka-lab/internal/data"
	"github.com/IbaiO/weka-lab/internal/preprocessing"
	"github.com/sirupsen/logrus"
)

// FilterFactory creates the missing-value filter applied by the Imputer.
type FilterFactory interface {
	NewMissingValueFilter() preprocessing.Filter
}

type Imputer struct {
	Filters FilterFactory
	Logger  logrus.FieldLogger
}

func NewImputer(filters FilterFactory, logger logrus.FieldLogger) *Imputer {
	return &Imputer{Filters: filters, Logger: logger}
}

// Impute returns a copy of ds with every missing cell replaced. The copy has
// the same shape as ds and a class index; ds itself is not modified.
func (im *Imputer) Impute(ds *data.Dataset) (*data.Dataset, error) {
	if ds == nil {
		return nil, fmt.Errorf("%w: nil dataset", preprocessing.ErrTransformFailed)
	}

	filter := im.Filters.NewMissingValueFilter()
	if err := filter.Fit(ds); err != nil {
		return nil, wrapTransform(err)
	}
	out, err := filter.Transform(ds)
	if err != nil {
		return nil, wrapTransform(err)
	}

	if out.NumInstances() != ds.NumInstances() || out.NumAttributes() != ds.NumAttributes() {
		return nil, fmt.Errorf("%w: filter changed the dataset shape", preprocessing.ErrTransformFailed)
	}
	if !out.HasClass() {
		if err := out.SetClassIndex(out.NumAttributes() - 1); err != nil {
			return nil, wrapTransform(err)
		}
	}

	im.Logger.WithFields(logrus.Fields{
		"replaced":  ds.MissingCount() - out.MissingCount(),
		"instances": out.NumInstances(),
	}).Info("missing values replaced")

	return out, nil
}

func wrapTransform(err error) error {
	if errors.Is(err, preprocessing.ErrTransformFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", preprocessing.ErrTransformFailed, err)
}
