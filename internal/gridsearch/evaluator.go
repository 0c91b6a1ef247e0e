package gridsearch

import (
	"context"
	"math"
	"slices"
	"sync"

	"github.com/IbaiO/weka-lab/internal/data"
	"github.com/IbaiO/weka-lab/internal/models"
	"github.com/sirupsen/logrus"
)

// Library builds and scores nearest-neighbour classifiers.
type Library interface {
	NewKNN(k int, structure models.SearchStructure, weighting models.Weighting) (models.Classifier, error)
	// Score cross-validates clf on ds and returns its weighted F-measure.
	Score(ctx context.Context, clf models.Classifier, ds *data.Dataset, folds int, seed int64) (float64, error)
}

// Progress is told about every configuration once it has been handled.
type Progress interface {
	Add(n int) error
}

// BestResult is the winning configuration and its score.
type BestResult struct {
	Configuration
	Score float64

	Evaluated int
	Skipped   int
}

type Evaluator struct {
	Library Library
	Folds   int
	Seed    int64
	// MaxK caps the largest k tried; zero means the number of instances.
	MaxK     int
	Workers  int
	Progress Progress
	Logger   logrus.FieldLogger
}

func NewEvaluator(library Library, logger logrus.FieldLogger) *Evaluator {
	return &Evaluator{
		Library: library,
		Folds:   10,
		Seed:    1,
		Workers: 1,
		Logger:  logger,
	}
}

// outcome is the result of handling one configuration.
type outcome struct {
	score float64
	ok    bool
	done  bool
}

// Search scores every configuration of the grid on ds and returns the first
// one with the highest score. A configuration that cannot be built, trained
// or evaluated is logged and skipped.
//
// The grid has 9 configurations per k and k runs up to the number of
// instances, each scored by a full cross-validation, so the work grows
// roughly with the cube of the dataset size. Use MaxK to bound it.
//
// If ctx is cancelled the best result found so far is returned with the
// context's error.
func (e *Evaluator) Search(ctx context.Context, ds *data.Dataset) (BestResult, error) {
	maxK := e.maxK(ds)

	e.Logger.WithFields(logrus.Fields{
		"configurations": GridSize(maxK),
		"folds":          e.Folds,
		"workers":        max(1, e.Workers),
	}).Info("starting grid search")

	if e.Workers > 1 {
		return e.searchParallel(ctx, ds, maxK)
	}

	best := BestResult{Configuration: DefaultConfiguration}
	for cfg := range Configurations(maxK) {
		if err := ctx.Err(); err != nil {
			return best, err
		}
		best.consider(cfg, e.evaluate(ctx, ds, cfg))
	}
	e.logBest(best)
	return best, nil
}

// Size is the number of configurations Search tries on ds.
func (e *Evaluator) Size(ds *data.Dataset) int {
	return GridSize(e.maxK(ds))
}

func (e *Evaluator) maxK(ds *data.Dataset) int {
	if e.MaxK > 0 && e.MaxK < ds.NumInstances() {
		return e.MaxK
	}
	return ds.NumInstances()
}

func (e *Evaluator) searchParallel(ctx context.Context, ds *data.Dataset, maxK int) (BestResult, error) {
	grid := slices.Collect(Configurations(maxK))
	outcomes := make([]outcome, len(grid))

	jobs := make(chan int, len(grid))
	var wg sync.WaitGroup
	for w := 0; w < min(e.Workers, len(grid)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					continue
				}
				outcomes[i] = e.evaluate(ctx, ds, grid[i])
			}
		}()
	}

	for i := range grid {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	best := BestResult{Configuration: DefaultConfiguration}
	for i, cfg := range grid {
		best.consider(cfg, outcomes[i])
	}
	if err := ctx.Err(); err != nil {
		return best, err
	}
	e.logBest(best)
	return best, nil
}

// consider replaces the best result only on a strictly greater score, so the
// earliest configuration wins ties.
func (b *BestResult) consider(cfg Configuration, o outcome) {
	if !o.done {
		return
	}
	if !o.ok {
		b.Skipped++
		return
	}
	b.Evaluated++
	if o.score > b.Score {
		b.Configuration = cfg
		b.Score = o.score
	}
}

func (e *Evaluator) evaluate(ctx context.Context, ds *data.Dataset, cfg Configuration) outcome {
	defer e.tick()

	log := e.Logger.WithFields(logrus.Fields{
		"k":         cfg.K,
		"structure": cfg.Structure.String(),
		"weighting": cfg.Weighting.String(),
	})

	clf, err := e.Library.NewKNN(cfg.K, cfg.Structure, cfg.Weighting)
	if err != nil {
		log.WithError(err).Warn("skipping configuration: build failed")
		return outcome{done: true}
	}
	if err := clf.Fit(ds); err != nil {
		log.WithError(err).Warn("skipping configuration: training failed")
		return outcome{done: true}
	}
	if ds.NumClasses() < 2 {
		log.WithField("classes", ds.NumClasses()).Warn("skipping configuration: fewer than 2 classes")
		return outcome{done: true}
	}

	score, err := e.Library.Score(ctx, clf, ds, e.Folds, e.Seed)
	if err != nil {
		if ctx.Err() != nil {
			return outcome{}
		}
		log.WithError(err).Warn("skipping configuration: evaluation failed")
		return outcome{done: true}
	}
	if math.IsNaN(score) {
		log.Warn("skipping configuration: undefined F-measure")
		return outcome{done: true}
	}

	log.WithField("f_measure", score).Debug("configuration scored")
	return outcome{score: score, ok: true, done: true}
}

func (e *Evaluator) tick() {
	if e.Progress == nil {
		return
	}
	if err := e.Progress.Add(1); err != nil {
		e.Logger.WithError(err).Debug("progress update failed")
	}
}

func (e *Evaluator) logBest(best BestResult) {
	e.Logger.WithFields(logrus.Fields{
		"k":         best.K,
		"structure": best.Structure.String(),
		"weighting": best.Weighting.String(),
		"f_measure": best.Score,
		"evaluated": best.Evaluated,
		"skipped":   best.Skipped,
	}).Info("grid search finished")
}
