package dirsize

import (
	"path/filepath"
	"regexp"
	"time"

	"github.com/spf13/afero"
)

const (
	// DefaultConcurrency is the default number of outstanding filesystem calls.
	DefaultConcurrency = 64
	// DefaultProgressInterval is the default interval for progress updates of Walk.
	DefaultProgressInterval = 500 * time.Millisecond
)

// Config configures a single aggregation run.
//
// Hooks are optional and are never invoked concurrently with each other.
// They must not block for long, since traversal bookkeeping waits on them.
type Config struct {
	// AbortOnError makes the first read failure abort the whole run.
	AbortOnError bool
	// CollectDirectories requests a (path, size) entry for every directory.
	CollectDirectories bool
	// CollectFiles requests a (path, size) entry for every file.
	CollectFiles bool
	// Concurrency caps the number of in-flight listing and lstat calls (0=unlimited).
	Concurrency int
	// Excludes skips entries whose slash-separated path matches any pattern.
	Excludes []*regexp.Regexp
	// Fs is the filesystem to read from. Nil means the OS filesystem.
	// Aggregate requires it to implement afero.Lstater.
	Fs afero.Fs
	// ProgressInterval controls the progress cadence of Walk.
	ProgressInterval time.Duration

	// OnProgress receives the cumulative visited directory and file counts.
	OnProgress func(dirs, files int64)
	// OnDirectoryStat is called once a directory's aggregate size is known.
	OnDirectoryStat func(path string, size int64)
	// OnFileStat is called once a file's size is read.
	OnFileStat func(path string, size int64)
	// OnError is called for every failure absorbed in skip mode.
	OnError func(err error)
}

// filesystem returns the configured filesystem, defaulting to the OS.
func (c Config) filesystem() afero.Fs {
	if c.Fs == nil {
		return afero.NewOsFs()
	}

	return c.Fs
}

// excluded reports whether path matches one of the exclusion patterns.
func (c Config) excluded(path string) bool {
	if len(c.Excludes) == 0 {
		return false
	}

	fPath := filepath.ToSlash(path)

	for _, re := range c.Excludes {
		if re.MatchString(fPath) {
			return true
		}
	}

	return false
}
