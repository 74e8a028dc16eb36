package dirsize

import (
	"context"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/containerd/log"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// ErrNotOsFs is returned by Walk when configured with a filesystem other than the OS.
var ErrNotOsFs = errors.New("fastwalk engine requires the OS filesystem")

// Walk computes the same Result as Aggregate using fastwalk for parallel
// traversal of the OS filesystem.
//
// Progress is reported every cfg.ProgressInterval and once more when the walk
// completes. OnDirectoryStat fires after the walk, since directory sizes are
// only known once every file was seen. The error policy matches Aggregate.
func Walk(ctx context.Context, root string, cfg Config) (*Result, error) {
	if cfg.Fs != nil {
		if _, ok := cfg.Fs.(*afero.OsFs); !ok {
			return nil, ErrNotOsFs
		}
	}

	start := time.Now()
	root = filepath.Clean(root)
	collector := newCollector(cfg, root)
	collector.addDir(root)

	stopProgress := startProgressReporter(collector, cfg.OnProgress, cfg.ProgressInterval)
	defer stopProgress()

	conf := &fastwalk.Config{
		Follow: false, // Don't follow symlinks
	}

	if cfg.Concurrency > 0 {
		conf.NumWorkers = cfg.Concurrency
	}

	log.G(ctx).WithFields(log.Fields{
		"root":    root,
		"abort":   cfg.AbortOnError,
		"workers": conf.NumWorkers,
	}).Debug("walking directory tree")

	//nolint:varnamelen // d is standard for DirEntry
	walkErr := fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		// fastwalk joins onto the root as given, "./a" for root ".".
		path = filepath.Clean(path)

		if err != nil {
			log.G(ctx).WithError(err).WithField("path", path).Debug("error accessing path")

			return collector.fail(&ListError{Path: path, Err: err})
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if path != root && cfg.excluded(path) {
			log.G(ctx).WithField("path", path).Debug("excluding entry")

			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if d.IsDir() {
			if path != root {
				collector.addDir(path)
			}

			return nil
		}

		info, err := d.Info()
		if err != nil {
			return collector.fail(&StatError{Path: path, Err: err})
		}

		collector.addFile(path, info.Size())

		return nil
	})
	if walkErr != nil {
		if cause := collector.aborted(); cause != nil {
			log.G(ctx).WithError(cause).Debug("walk aborted")

			return nil, &AbortError{Err: cause}
		}

		return nil, errors.Wrapf(walkErr, "walking %s", root)
	}

	stopProgress()
	collector.progress()

	result := collector.finalize()
	result.Elapsed = time.Since(start)

	return result, nil
}
