package dirsize

import (
	"sort"
	"time"
)

// Entry is a single path and its size in bytes.
type Entry struct {
	// Path is the file or directory path.
	Path string `json:"path"`
	// Size is the size in bytes.
	Size int64 `json:"size"`
}

// Result holds the outcome of aggregating a tree.
type Result struct {
	// Size is the cumulative size of every regular file in the tree.
	Size int64 `json:"size"`
	// Directories lists every directory including the root, if requested.
	Directories []Entry `json:"directories,omitempty"`
	// Files lists every file, if requested.
	Files []Entry `json:"files,omitempty"`
	// DirCount is the number of directories visited.
	DirCount int64 `json:"dir_count"`
	// FileCount is the number of files visited.
	FileCount int64 `json:"file_count"`
	// ErrorCount is the number of errors absorbed in skip mode.
	ErrorCount int64 `json:"error_count"`
	// Elapsed is the total time taken.
	Elapsed time.Duration `json:"elapsed"`
}

// Largest returns the n largest entries, biggest first.
// Entries of equal size are ordered by path. A non-positive n returns all entries.
// The input slice is not modified.
func Largest(entries []Entry, n int) []Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Size != sorted[j].Size {
			return sorted[i].Size > sorted[j].Size
		}

		return sorted[i].Path < sorted[j].Path
	})

	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}

	return sorted
}
