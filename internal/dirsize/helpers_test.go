package dirsize

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gotest.tools/v3/assert"
)

var errInjected = errors.New("injected failure")

// faultyFs fails listing or lstat for selected paths. Once a failure was
// injected, every further Open or LstatIfPossible call is counted.
type faultyFs struct {
	afero.Fs
	listErr map[string]error
	statErr map[string]error

	injected     atomic.Bool
	afterFailure atomic.Int64
}

func (f *faultyFs) track() {
	if f.injected.Load() {
		f.afterFailure.Add(1)
	}
}

func (f *faultyFs) Open(name string) (afero.File, error) {
	f.track()

	if err, ok := f.listErr[name]; ok {
		f.injected.Store(true)

		return nil, err
	}

	return f.Fs.Open(name)
}

func (f *faultyFs) LstatIfPossible(name string) (os.FileInfo, bool, error) {
	f.track()

	if err, ok := f.statErr[name]; ok {
		f.injected.Store(true)

		return nil, false, err
	}

	info, err := f.Fs.Stat(name)

	return info, false, err
}

// memTree creates the given files (path -> size) below /data in a memory
// filesystem. Paths ending in "/" create empty directories.
func memTree(t *testing.T, files map[string]int) *faultyFs {
	t.Helper()

	mem := afero.NewMemMapFs()
	assert.NilError(t, mem.MkdirAll("/data", 0o755))

	for name, size := range files {
		path := filepath.Join("/data", name)
		if strings.HasSuffix(name, "/") {
			assert.NilError(t, mem.MkdirAll(path, 0o755))

			continue
		}

		assert.NilError(t, mem.MkdirAll(filepath.Dir(path), 0o755))
		assert.NilError(t, afero.WriteFile(mem, path, []byte(strings.Repeat("x", size)), 0o644))
	}

	return &faultyFs{Fs: mem, listErr: map[string]error{}, statErr: map[string]error{}}
}

// recorder captures hook invocations.
type recorder struct {
	mu       sync.Mutex
	progress [][2]int64
	dirs     []Entry
	files    []Entry
	errs     []error
}

func (r *recorder) hook(cfg Config) Config {
	cfg.OnProgress = func(dirs, files int64) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.progress = append(r.progress, [2]int64{dirs, files})
	}
	cfg.OnDirectoryStat = func(path string, size int64) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.dirs = append(r.dirs, Entry{Path: path, Size: size})
	}
	cfg.OnFileStat = func(path string, size int64) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.files = append(r.files, Entry{Path: path, Size: size})
	}
	cfg.OnError = func(err error) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.errs = append(r.errs, err)
	}

	return cfg
}
