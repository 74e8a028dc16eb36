package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/containerd/log"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/idelchi/dirsize/internal/dirsize"
)

// configureLogging sends log output to w, at debug level if requested.
func configureLogging(debug bool, w io.Writer) error {
	logrus.SetOutput(w)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	level := "warn"
	if debug {
		level = "debug"
	}

	return log.SetLevel(level)
}

func logic(ctx context.Context, options Options, stdout, stderr io.Writer, terminal bool) error {
	if err := configureLogging(options.Debug, stderr); err != nil {
		return err
	}

	excludes, err := options.excludes()
	if err != nil {
		return err
	}

	root, err := filepath.Abs(options.Path)
	if err != nil {
		return errors.Wrap(err, "resolving absolute path")
	}

	// validate path exists and is a directory
	if statInfo, err := os.Stat(root); err != nil {
		return errors.Wrapf(err, "accessing path %q", options.Path)
	} else if !statInfo.IsDir() {
		return errors.Errorf("path %q is not a directory", options.Path)
	}

	display, err := newDisplay(root)
	if err != nil {
		return err
	}

	enableProgress := options.Output == "table" && !options.Debug && terminal

	con := newConsole(stderr, display, enableProgress)

	cfg := dirsize.Config{
		AbortOnError:       options.Abort,
		CollectDirectories: options.LargeDirs,
		CollectFiles:       options.LargeFiles,
		Concurrency:        options.Concurrency,
		Excludes:           excludes,
		OnProgress:         con.progress,
	}

	if options.Verbose {
		cfg.OnDirectoryStat = con.entry
	}

	if options.ExtraVerbose {
		cfg.OnFileStat = con.entry
	}

	if !options.Abort {
		cfg.OnError = con.error
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(stderr, "\033[?25l")
		defer fmt.Fprint(stderr, "\033[?25h")
	}

	aggregate := dirsize.Aggregate
	if options.Engine == "fastwalk" {
		aggregate = dirsize.Walk
	}

	log.G(ctx).WithFields(log.Fields{
		"path":   root,
		"engine": options.Engine,
	}).Debug("starting")

	result, err := aggregate(ctx, root, cfg)

	// Clear the status line
	con.clear()

	if err != nil {
		return err
	}

	rep := newReport(root, result, options, display)

	switch options.Output {
	case "json":
		return PrintJSON(rep, stdout)
	case "list":
		return PrintList(rep, stdout)
	case "table":
		return PrintTable(rep, stdout)
	default:
		return errors.Errorf("unknown output format: %s", options.Output)
	}
}
