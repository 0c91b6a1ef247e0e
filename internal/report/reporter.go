// Package report renders cross-validation results and grid-search winners as
// plain text and writes them to disk.
package report

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/IbaiO/weka-lab/internal/data"
	"github.com/IbaiO/weka-lab/internal/evaluation"
	"github.com/IbaiO/weka-lab/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Library builds the reported classifier and cross-validates it.
type Library interface {
	NewClassifier(name string) (models.Classifier, error)
	CrossValidate(ctx context.Context, clf models.Classifier, ds *data.Dataset, folds int, seed int64) (*evaluation.Evaluation, error)
}

type Reporter struct {
	Library    Library
	Classifier string
	Folds      int
	Seed       int64
	Now        func() time.Time
	Logger     logrus.FieldLogger
}

func NewReporter(library Library, logger logrus.FieldLogger) *Reporter {
	return &Reporter{
		Library:    library,
		Classifier: "naive_bayes",
		Folds:      5,
		Seed:       1,
		Now:        time.Now,
		Logger:     logger,
	}
}

// Report cross-validates the configured classifier on ds and renders the
// result. args are echoed into the report.
func (r *Reporter) Report(ctx context.Context, ds *data.Dataset, args []string) (string, error) {
	if err := data.NewDataValidator().ValidateLabels(ds); err != nil {
		return "", err
	}

	clf, err := r.Library.NewClassifier(r.Classifier)
	if err != nil {
		return "", err
	}

	r.Logger.WithFields(logrus.Fields{
		"classifier": clf.Name(),
		"folds":      r.Folds,
		"seed":       r.Seed,
	}).Info("cross-validating")

	eval, err := r.Library.CrossValidate(ctx, clf, ds, r.Folds, r.Seed)
	if err != nil {
		return "", err
	}

	foldMean, foldStd := eval.FoldStats()
	r.Logger.WithFields(logrus.Fields{
		"correct":        eval.PctCorrect(),
		"kappa":          eval.Kappa(),
		"precision":      eval.WeightedPrecision(),
		"fold_f_measure": foldMean,
		"fold_f_std":     foldStd,
	}).Info("cross-validation finished")
	r.Logger.Debug(eval.FormatMetrics())

	return Format(eval, args, r.Now()), nil
}

// Format renders eval in the layout of the cross-validation report.
func Format(eval *evaluation.Evaluation, args []string, when time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Execution Date: %s\n", when.Format(time.UnixDate))
	fmt.Fprintf(&b, "Execution Arguments: %s\n\n", strings.Join(args, ", "))

	b.WriteString("Confusion Matrix:\n")
	for _, row := range eval.ConfusionMatrix {
		for _, v := range row {
			b.WriteString(formatNumber(v))
			b.WriteString("\t")
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("Precision Metrics:\n")
	for i := 0; i < eval.NumClasses; i++ {
		fmt.Fprintf(&b, "Class %d (%s): %s\n", i, eval.ClassNames[i], formatNumber(eval.Precision(i)))
	}
	fmt.Fprintf(&b, "Weighted Avg: %s\n\n", formatNumber(eval.WeightedPrecision()))

	b.WriteString("Evaluation Results:\n")
	results := []struct {
		label string
		value float64
	}{
		{"Correctly Classified Instances", eval.PctCorrect()},
		{"Incorrectly Classified Instances", eval.PctIncorrect()},
		{"Kappa Statistic", eval.Kappa()},
		{"Mean Absolute Error", eval.MeanAbsoluteError()},
		{"Root Mean Squared Error", eval.RootMeanSquaredError()},
		{"Relative Absolute Error", eval.RelativeAbsoluteError()},
		{"Root Relative Squared Error", eval.RootRelativeSquaredError()},
	}
	for _, res := range results {
		fmt.Fprintf(&b, "%s: %s\n", res.label, formatNumber(res.value))
	}

	return b.String()
}

func formatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return decimal.NewFromFloat(v).String()
}
