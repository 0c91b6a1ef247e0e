package evaluation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/IbaiO/weka-lab/internal/data"
	"github.com/IbaiO/weka-lab/internal/models"
)

var ErrEvaluationFailed = errors.New("evaluation failed")

type CrossValidator struct {
	NFolds     int
	Stratified bool
	RandomSeed int64
	MaxWorkers int
}

func NewCrossValidator(nFolds int, randomSeed int64) *CrossValidator {
	return &CrossValidator{
		NFolds:     nFolds,
		Stratified: true,
		RandomSeed: randomSeed,
		MaxWorkers: 1,
	}
}

// CrossValidate trains a fresh clone of clf on every training fold and
// records its predictions for the held-out fold. Folds may run concurrently
// but are merged in fold order, so the result does not depend on MaxWorkers.
func (cv *CrossValidator) CrossValidate(ctx context.Context, clf models.Classifier, ds *data.Dataset) (*Evaluation, error) {
	attr, ok := ds.ClassAttribute()
	if !ok || !attr.IsNominal() {
		return nil, fmt.Errorf("%w: %w: nominal class required", ErrEvaluationFailed, data.ErrInvalidLabel)
	}

	labels := make([]int, ds.NumInstances())
	for i := range labels {
		labels[i] = ds.Label(i)
	}

	folds, err := NewKFoldSplitter(cv.NFolds, cv.Stratified, cv.RandomSeed).Split(labels)
	if err != nil {
		return nil, err
	}

	results := make([]*Evaluation, len(folds))
	errs := make([]error, len(folds))

	workers := min(max(1, cv.MaxWorkers), len(folds))
	jobs := make(chan int, len(folds))
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					errs[i] = err
					continue
				}
				results[i], errs[i] = cv.evaluateFold(clf, ds, attr.Values, folds[i], labels)
			}
		}()
	}

	for i := range folds {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	total := NewEvaluation(attr.Values)
	for i, err := range errs {
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: fold %d: %w", ErrEvaluationFailed, i, err)
		}
		total.Merge(results[i])
		total.FoldScores = append(total.FoldScores, results[i].WeightedFMeasure())
	}

	return total, nil
}

func (cv *CrossValidator) evaluateFold(
	clf models.Classifier,
	ds *data.Dataset,
	classNames []string,
	fold Fold,
	labels []int,
) (*Evaluation, error) {
	train := ds.Subset(fold.Train)
	test := ds.Subset(fold.Test)

	foldModel := clf.Clone()
	if err := foldModel.Fit(train); err != nil {
		return nil, err
	}

	dists, err := foldModel.Distributions(test)
	if err != nil {
		return nil, err
	}

	eval := NewEvaluation(classNames)
	trainLabels := make([]int, len(fold.Train))
	for i, idx := range fold.Train {
		trainLabels[i] = labels[idx]
	}
	eval.SetPriors(trainLabels)

	for i, idx := range fold.Test {
		if err := eval.Record(labels[idx], dists[i]); err != nil {
			return nil, err
		}
	}
	return eval, nil
}
