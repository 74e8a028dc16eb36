package dirsize

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// collector aggregates the entries reported by concurrent fastwalk callbacks.
// The mutex also serializes hook invocations.
type collector struct {
	mu         sync.Mutex
	cfg        Config
	root       string
	own        map[string]int64 // directory -> size of its immediate files
	files      []Entry
	dirCount   int64
	fileCount  int64
	errorCount int64
	cause      error
}

func newCollector(cfg Config, root string) *collector {
	return &collector{
		cfg:  cfg,
		root: root,
		own:  make(map[string]int64),
	}
}

// addDir records a visited directory.
func (c *collector) addDir(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.own[path]; !ok {
		c.own[path] = 0
	}

	c.dirCount++
}

// addFile records a file and attributes its size to its parent directory.
func (c *collector) addFile(path string, size int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.own[filepath.Dir(path)] += size
	c.fileCount++

	if c.cfg.CollectFiles {
		c.files = append(c.files, Entry{Path: path, Size: size})
	}

	if c.cfg.OnFileStat != nil {
		c.cfg.OnFileStat(path, size)
	}
}

// fail applies the error policy, mirroring runState.fail.
func (c *collector) fail(err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfg.AbortOnError {
		if c.cause == nil {
			c.cause = err
		}

		return err
	}

	c.errorCount++

	if c.cfg.OnError != nil {
		c.cfg.OnError(err)
	}

	return nil
}

func (c *collector) aborted() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.cause
}

// progress reports the current counts.
func (c *collector) progress() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfg.OnProgress != nil {
		c.cfg.OnProgress(c.dirCount, c.fileCount)
	}
}

// depth returns the number of separators in path.
func depth(path string) int {
	return strings.Count(path, string(filepath.Separator))
}

// finalize rolls the immediate file sizes up to every ancestor and produces
// the Result. OnDirectoryStat fires for each directory, children before parents
// and the root last.
func (c *collector) finalize() *Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	dirs := make([]string, 0, len(c.own))
	for dir := range c.own {
		dirs = append(dirs, dir)
	}

	sort.Slice(dirs, func(i, j int) bool {
		if dirs[i] == c.root || dirs[j] == c.root {
			return dirs[j] == c.root && dirs[i] != c.root
		}

		if di, dj := depth(dirs[i]), depth(dirs[j]); di != dj {
			return di > dj
		}

		return dirs[i] < dirs[j]
	})

	totals := make(map[string]int64, len(c.own))
	for dir, size := range c.own {
		totals[dir] += size
	}

	for _, dir := range dirs {
		if c.cfg.OnDirectoryStat != nil {
			c.cfg.OnDirectoryStat(dir, totals[dir])
		}

		if dir == c.root {
			continue
		}

		totals[filepath.Dir(dir)] += totals[dir]
	}

	result := &Result{
		Size:       totals[c.root],
		DirCount:   c.dirCount,
		FileCount:  c.fileCount,
		ErrorCount: c.errorCount,
	}

	if c.cfg.CollectDirectories {
		result.Directories = make([]Entry, 0, len(dirs))
		result.Directories = append(result.Directories, Entry{Path: c.root, Size: totals[c.root]})

		for _, dir := range dirs {
			if dir != c.root {
				result.Directories = append(result.Directories, Entry{Path: dir, Size: totals[dir]})
			}
		}
	}

	if c.cfg.CollectFiles {
		result.Files = c.files
		if result.Files == nil {
			result.Files = []Entry{}
		}
	}

	return result
}
