package dirsize

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/containerd/log"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// dirResult is the outcome of one subtree. It is never shared between
// goroutines: each child produces its own value and the parent merges them.
type dirResult struct {
	size  int64
	files int64 // immediate regular files
	dirs  []Entry
	all   []Entry // files of the whole subtree
}

// merge folds the results of a directory's children into one.
func merge(children []dirResult) dirResult {
	var res dirResult

	for _, child := range children {
		res.size += child.size
		res.files += child.files
		res.dirs = append(res.dirs, child.dirs...)
		res.all = append(res.all, child.all...)
	}

	return res
}

type aggregator struct {
	cfg     Config
	fs      afero.Fs
	lstater afero.Lstater
	sem     *semaphore.Weighted
	state   *runState
}

// ErrNoLstat is returned by Aggregate for a filesystem that cannot read
// metadata without following symbolic links.
var ErrNoLstat = errors.New("filesystem does not support lstat")

// Aggregate computes the size of the directory tree rooted at root.
//
// Every entry of a directory is processed in its own goroutine and a directory
// is finalized once all of its children settled, at which point OnProgress
// receives the cumulative counts.
//
// With cfg.AbortOnError unset, unreadable entries and directories are skipped,
// reported through OnError and Aggregate succeeds. Otherwise the first failure
// cancels the remaining work and is returned wrapped in an *AbortError, with
// no Result.
//
// The root is expected to be a directory. cfg.Fs must implement afero.Lstater,
// otherwise ErrNoLstat is returned.
func Aggregate(ctx context.Context, root string, cfg Config) (*Result, error) {
	start := time.Now()

	fsys := cfg.filesystem()

	lstater, ok := fsys.(afero.Lstater)
	if !ok {
		return nil, ErrNoLstat
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	agg := &aggregator{
		cfg:     cfg,
		fs:      fsys,
		lstater: lstater,
		state:   newRunState(cfg, cancel),
	}
	if cfg.Concurrency > 0 {
		agg.sem = semaphore.NewWeighted(int64(cfg.Concurrency))
	}

	log.G(ctx).WithFields(log.Fields{
		"root":        root,
		"abort":       cfg.AbortOnError,
		"concurrency": cfg.Concurrency,
	}).Debug("aggregating directory tree")

	res, err := agg.aggregateDir(ctx, root)
	if err != nil {
		if cause := agg.state.aborted(); cause != nil {
			log.G(ctx).WithError(cause).Debug("aggregation aborted")

			return nil, &AbortError{Err: cause}
		}

		return nil, errors.Wrapf(err, "aggregating %s", root)
	}

	agg.state.directoryStat(root, res.size)

	dirs, files, errs := agg.state.counts()

	result := &Result{
		Size:       res.size,
		DirCount:   dirs,
		FileCount:  files,
		ErrorCount: errs,
		Elapsed:    time.Since(start),
	}

	if cfg.CollectDirectories {
		result.Directories = append([]Entry{{Path: root, Size: res.size}}, res.dirs...)
	}

	if cfg.CollectFiles {
		result.Files = res.all
		if result.Files == nil {
			result.Files = []Entry{}
		}
	}

	return result, nil
}

// errSkipped marks a read failure that the error policy absorbed.
var errSkipped = errors.New("entry skipped")

// acquire reserves an I/O slot. It fails only when ctx is done.
func (a *aggregator) acquire(ctx context.Context) error {
	if a.sem == nil {
		return ctx.Err()
	}

	if err := a.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	// Acquire may succeed on a done context.
	if err := ctx.Err(); err != nil {
		a.sem.Release(1)

		return err
	}

	return nil
}

func (a *aggregator) release() {
	if a.sem != nil {
		a.sem.Release(1)
	}
}

// unwinding returns the reason the run is being torn down.
func unwinding(ctx context.Context) error {
	return context.Cause(ctx)
}

// failed applies the error policy to a read failure. It runs while the I/O
// slot is still held, so that with a concurrency cap no further call starts
// once the run aborts.
func (a *aggregator) failed(err error) error {
	if err := a.state.fail(err); err != nil {
		return err
	}

	return errSkipped
}

func (a *aggregator) readDirNames(ctx context.Context, dir string) ([]string, error) {
	if err := a.acquire(ctx); err != nil {
		return nil, err
	}
	defer a.release()

	f, err := a.fs.Open(dir)
	if err != nil {
		return nil, a.failed(&ListError{Path: dir, Err: err})
	}
	defer f.Close()

	names, err := f.Readdirnames(-1)
	if err != nil {
		return nil, a.failed(&ListError{Path: dir, Err: err})
	}

	return names, nil
}

func (a *aggregator) lstat(ctx context.Context, path string) (os.FileInfo, error) {
	if err := a.acquire(ctx); err != nil {
		return nil, unwinding(ctx)
	}
	defer a.release()

	info, _, err := a.lstater.LstatIfPossible(path)
	if err != nil {
		return nil, a.failed(&StatError{Path: path, Err: err})
	}

	return info, nil
}

// aggregateDir lists dir and aggregates all of its entries concurrently.
func (a *aggregator) aggregateDir(ctx context.Context, dir string) (dirResult, error) {
	if ctx.Err() != nil {
		return dirResult{}, unwinding(ctx)
	}

	names, err := a.readDirNames(ctx, dir)
	if err != nil {
		var listErr *ListError
		if !errors.Is(err, errSkipped) && !errors.As(err, &listErr) {
			return dirResult{}, unwinding(ctx)
		}

		a.state.visit(0)

		log.G(ctx).WithField("path", dir).Debug("unreadable directory")

		if errors.Is(err, errSkipped) {
			return dirResult{}, nil
		}

		return dirResult{}, err
	}

	children := make([]dirResult, len(names))

	var group errgroup.Group

	for i, name := range names {
		path := filepath.Join(dir, name)
		if a.cfg.excluded(path) {
			log.G(ctx).WithField("path", path).Debug("excluding entry")

			continue
		}

		group.Go(func() error {
			child, err := a.aggregateEntry(ctx, path)
			children[i] = child

			return err
		})
	}

	err = group.Wait()
	res := merge(children)

	a.state.visit(res.files)

	if err != nil {
		return dirResult{}, err
	}

	return res, nil
}

// aggregateEntry stats a single entry and descends into it if it is a directory.
func (a *aggregator) aggregateEntry(ctx context.Context, path string) (dirResult, error) {
	if ctx.Err() != nil {
		return dirResult{}, unwinding(ctx)
	}

	info, err := a.lstat(ctx, path)
	if errors.Is(err, errSkipped) {
		log.G(ctx).WithField("path", path).Debug("skipping unreadable entry")

		return dirResult{}, nil
	}

	if err != nil {
		return dirResult{}, err
	}

	if !info.IsDir() {
		size := info.Size()

		a.state.fileStat(path, size)

		res := dirResult{size: size, files: 1}
		if a.cfg.CollectFiles {
			res.all = []Entry{{Path: path, Size: size}}
		}

		return res, nil
	}

	sub, err := a.aggregateDir(ctx, path)
	if err != nil {
		return dirResult{}, err
	}

	if ctx.Err() != nil {
		return dirResult{}, unwinding(ctx)
	}

	a.state.directoryStat(path, sub.size)

	res := dirResult{size: sub.size}
	if a.cfg.CollectDirectories {
		res.dirs = append([]Entry{{Path: path, Size: sub.size}}, sub.dirs...)
	}

	if a.cfg.CollectFiles {
		res.all = sub.all
	}

	return res, nil
}
