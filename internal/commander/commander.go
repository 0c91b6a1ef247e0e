package commander

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/IbaiO/weka-lab/internal/classify"
	"github.com/IbaiO/weka-lab/internal/config"
	"github.com/IbaiO/weka-lab/internal/data"
	"github.com/IbaiO/weka-lab/internal/gridsearch"
	"github.com/IbaiO/weka-lab/internal/logging"
	"github.com/IbaiO/weka-lab/internal/persistence"
	"github.com/IbaiO/weka-lab/internal/pipeline"
	"github.com/IbaiO/weka-lab/internal/report"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
)

// Commander runs the command-line pipelines and prints their progress.
type Commander struct {
	Config  *config.Config
	Toolkit *classify.Toolkit
	Logger  logrus.FieldLogger
	Out     io.Writer

	green  func(a ...any) string
	red    func(a ...any) string
	yellow func(a ...any) string
	cyan   func(a ...any) string
}

func NewCommander(cfg *config.Config, logger logrus.FieldLogger, out io.Writer) *Commander {
	return &Commander{
		Config:  cfg,
		Toolkit: classify.New(),
		Logger:  logger,
		Out:     out,
		green:   color.New(color.FgGreen).SprintFunc(),
		red:     color.New(color.FgRed).SprintFunc(),
		yellow:  color.New(color.FgYellow).SprintFunc(),
		cyan:    color.New(color.FgCyan).SprintFunc(),
	}
}

// Setup loads the configuration at configFile, applies a non-empty logLevel
// override and returns a Commander logging to logOut and printing to out.
func Setup(configFile, logLevel string, out, logOut io.Writer) (*Commander, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	logger, err := logging.New(cfg.Logging.Level, logOut)
	if err != nil {
		return nil, err
	}
	return NewCommander(cfg, logger, out), nil
}

// Fail prints err as a console error line.
func (c *Commander) Fail(err error) {
	fmt.Fprintf(c.Out, "%s ERROR: %v\n", c.red("✗"), err)
}

// SearchBest loads and imputes the dataset, runs the nearest-neighbour grid
// search and writes the winning configuration to outputPath.
func (c *Commander) SearchBest(ctx context.Context, datasetPath, outputPath string) error {
	ds, err := c.load(datasetPath)
	if err != nil {
		return err
	}

	ds, err = pipeline.NewImputer(c.Toolkit, c.Logger).Impute(ds)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.Out, "%s Missing values replaced (class index %d, %d classes)\n",
		c.green("✓"), ds.ClassIndex, ds.NumClasses())

	evaluator := gridsearch.NewEvaluator(c.Toolkit, c.Logger)
	evaluator.Folds = c.Config.Search.Folds
	evaluator.Seed = c.Config.Search.Seed
	evaluator.MaxK = c.Config.Search.MaxK
	evaluator.Workers = c.Config.Search.Workers

	size := evaluator.Size(ds)
	fmt.Fprintf(c.Out, "Searching %d configurations with %d-fold cross-validation...\n", size, evaluator.Folds)
	if c.Config.Search.Progress {
		evaluator.Progress = progressbar.NewOptions(size,
			progressbar.OptionSetWriter(c.Out),
			progressbar.OptionSetDescription("grid search"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	start := time.Now()
	best, err := evaluator.Search(ctx, ds)
	elapsed := time.Since(start)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Out, "%s Search finished in %s (%d evaluated, %d skipped)\n",
		c.green("✓"), elapsed.Round(time.Millisecond), best.Evaluated, best.Skipped)
	fmt.Fprintln(c.Out, strings.Repeat("─", 50))
	fmt.Fprintf(c.Out, "Neighbours:          %d\n", best.K)
	fmt.Fprintf(c.Out, "Search structure:    %s\n", best.Structure)
	fmt.Fprintf(c.Out, "Distance weighting:  %s\n", best.Weighting)
	fmt.Fprintf(c.Out, "F-Measure:           %.4f\n", best.Score)
	fmt.Fprintln(c.Out, strings.Repeat("─", 50))
	if best.Evaluated == 0 {
		fmt.Fprintf(c.Out, "%s No configuration could be evaluated, reporting the default\n", c.yellow("⚠"))
	}

	c.writeOrWarn(outputPath, report.WriteResult(outputPath, best))

	if path := c.Config.Output.Bundle; path != "" {
		bundle := persistence.NewResultBundle(best, ds)
		bundle.Metadata.Dataset = datasetPath
		bundle.Metadata.Folds = evaluator.Folds
		bundle.Metadata.Seed = evaluator.Seed
		bundle.Metadata.SearchTime = elapsed
		c.writeOrWarn(path, bundle.Save(path))
	}
	return nil
}

// CrossValidationReport loads the dataset, cross-validates the configured
// classifier and writes the report to outputPath. args are echoed into the
// report.
func (c *Commander) CrossValidationReport(ctx context.Context, datasetPath, outputPath string, args []string) error {
	ds, err := c.load(datasetPath)
	if err != nil {
		return err
	}

	reporter := report.NewReporter(c.Toolkit, c.Logger)
	reporter.Classifier = c.Config.Report.Classifier
	reporter.Folds = c.Config.Report.Folds
	reporter.Seed = c.Config.Report.Seed

	fmt.Fprintf(c.Out, "Running %d-fold cross-validation of %s...\n", reporter.Folds, reporter.Classifier)
	text, err := reporter.Report(ctx, ds, args)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.Out, "%s Cross-validation complete!\n", c.green("✓"))

	c.writeOrWarn(outputPath, report.WriteReport(outputPath, text))
	return nil
}

// ShowResult prints a result bundle saved by an earlier search.
func (c *Commander) ShowResult(bundlePath string) error {
	bundle, err := persistence.LoadResultBundle(bundlePath)
	if err != nil {
		return err
	}

	meta := bundle.Metadata
	fmt.Fprintf(c.Out, "%s Result loaded from %s\n", c.green("✓"), bundlePath)
	fmt.Fprintln(c.Out, strings.Repeat("─", 50))
	fmt.Fprintf(c.Out, "Dataset:             %s (%s)\n", meta.Dataset, c.cyan(meta.Relation))
	fmt.Fprintf(c.Out, "Instances:           %d\n", meta.Instances)
	fmt.Fprintf(c.Out, "Cross-validation:    %d folds, seed %d\n", meta.Folds, meta.Seed)
	fmt.Fprintf(c.Out, "Created:             %s\n", bundle.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(c.Out, "Neighbours:          %d\n", bundle.Best.K)
	fmt.Fprintf(c.Out, "Search structure:    %s\n", bundle.Best.Structure)
	fmt.Fprintf(c.Out, "Distance weighting:  %s\n", bundle.Best.Weighting)
	fmt.Fprintf(c.Out, "F-Measure:           %.4f\n", bundle.Best.Score)
	fmt.Fprintln(c.Out, strings.Repeat("─", 50))
	return nil
}

func (c *Commander) load(path string) (*data.Dataset, error) {
	fmt.Fprintf(c.Out, "Loading data from %s...\n", path)

	loader := pipeline.NewLoader(c.Toolkit, c.Logger)
	loader.ClassAttribute = c.Config.Data.ClassAttribute
	ds, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	c.printDataset(ds)
	return ds, nil
}

func (c *Commander) printDataset(ds *data.Dataset) {
	stats := data.NewDataValidator().GetDatasetStats(ds)
	attr, _ := ds.ClassAttribute()

	fmt.Fprintf(c.Out, "%s Data loaded successfully!\n", c.green("✓"))
	fmt.Fprintln(c.Out, strings.Repeat("─", 50))
	fmt.Fprintf(c.Out, "Relation:      %s\n", ds.Relation)
	fmt.Fprintf(c.Out, "Instances:     %d\n", stats.Instances)
	fmt.Fprintf(c.Out, "Attributes:    %d\n", stats.Attributes)
	fmt.Fprintf(c.Out, "Class:         %s (%s)\n", c.cyan(attr.Name), attr.Kind)
	fmt.Fprintf(c.Out, "Classes:       %d\n", stats.Classes)

	if len(stats.ClassDistribution) > 0 {
		names := make([]string, 0, len(stats.ClassDistribution))
		for name := range stats.ClassDistribution {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Fprint(c.Out, "Distribution:  ")
		for _, name := range names {
			fmt.Fprintf(c.Out, "%s:%d ", name, stats.ClassDistribution[name])
		}
		fmt.Fprintln(c.Out)
	}

	if stats.Missing > 0 {
		fmt.Fprintf(c.Out, "%s %d missing values\n", c.yellow("⚠"), stats.Missing)
	}
	if stats.Classes < 2 {
		fmt.Fprintf(c.Out, "%s Fewer than 2 classes, evaluation is not possible\n", c.yellow("⚠"))
	}
	fmt.Fprintln(c.Out, strings.Repeat("─", 50))
}

// writeOrWarn reports the outcome of writing path without failing the run.
func (c *Commander) writeOrWarn(path string, err error) {
	if err != nil {
		c.Logger.WithError(err).WithField("path", path).Error("write failed")
		fmt.Fprintf(c.Out, "%s Unable to write %s: %v\n", c.red("✗"), path, err)
		return
	}
	fmt.Fprintf(c.Out, "%s Results saved to: %s\n", c.green("✓"), path)
}
