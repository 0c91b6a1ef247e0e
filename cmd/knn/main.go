package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/IbaiO/weka-lab/internal/commander"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	logLevel := flag.String("log-level", "", "Log level (overrides the configuration)")
	show := flag.String("show", "", "Print a result bundle saved by an earlier search and exit")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  knn [options] <dataset.arff|dataset.csv> <output.txt>")
		fmt.Fprintln(os.Stderr, "  knn -show <bundle.gob>")
		fmt.Fprintln(os.Stderr, "\nSearches k, neighbour search structure and distance weighting for the")
		fmt.Fprintln(os.Stderr, "nearest-neighbour classifier with the best weighted F-measure.")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *show == "" && flag.NArg() < 2 {
		flag.Usage()
		os.Exit(1)
	}

	cmd, err := commander.Setup(*configFile, *logLevel, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	if *show != "" {
		if err := cmd.ShowResult(*show); err != nil {
			cmd.Fail(err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.SearchBest(ctx, flag.Arg(0), flag.Arg(1)); err != nil {
		cmd.Fail(err)
		stop()
		os.Exit(1)
	}
}
