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
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  kfcv [options] <dataset.arff|dataset.csv> <output.txt> [args...]")
		fmt.Fprintln(os.Stderr, "\nCross-validates the configured classifier (naive Bayes by default) and")
		fmt.Fprintln(os.Stderr, "writes the evaluation report. All positional arguments are echoed into it.")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 2 {
		flag.Usage()
		os.Exit(1)
	}

	cmd, err := commander.Setup(*configFile, *logLevel, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.CrossValidationReport(ctx, flag.Arg(0), flag.Arg(1), flag.Args()); err != nil {
		cmd.Fail(err)
		stop()
		os.Exit(1)
	}
}
