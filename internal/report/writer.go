package report

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/IbaiO/weka-lab/internal/gridsearch"
)

var ErrIO = errors.New("i/o error")

// WriteReport stores text at path, replacing any existing file.
func WriteReport(path, text string) error {
	return writeFile(path, func(w *bufio.Writer) error {
		_, err := w.WriteString(text)
		return err
	})
}

// WriteResult stores the winning grid-search configuration at path.
func WriteResult(path string, best gridsearch.BestResult) error {
	return writeFile(path, func(w *bufio.Writer) error {
		_, err := fmt.Fprintf(w, "Best parameters:\n"+
			"      Neighbours: %d\n"+
			"      Search structure: %s\n"+
			"      Distance weighting: %s\n"+
			"      F-Measure: %s\n",
			best.K, best.Structure, best.Weighting, formatNumber(best.Score))
		return err
	})
}

func writeFile(path string, write func(*bufio.Writer) error) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrIO, cerr)
		}
	}()

	w := bufio.NewWriter(file)
	if err := write(w); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrIO, path, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrIO, path, err)
	}
	return nil
}
