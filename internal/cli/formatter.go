package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"

	"github.com/idelchi/dirsize/internal/dirsize"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
)

// Report is the presentation form of a result.
type Report struct {
	// Path is the measured directory.
	Path string `json:"path"`
	// Size is the total size in bytes.
	Size int64 `json:"size"`
	// Directories is the number of directories counted.
	Directories int64 `json:"directories"`
	// Files is the number of files counted.
	Files int64 `json:"files"`
	// Errors is the number of skipped entries.
	Errors int64 `json:"errors"`
	// LargestDirectories holds the largest directories, if requested.
	LargestDirectories []dirsize.Entry `json:"largest_directories,omitempty"`
	// LargestFiles holds the largest files, if requested.
	LargestFiles []dirsize.Entry `json:"largest_files,omitempty"`
	// Elapsed is the total time taken.
	Elapsed time.Duration `json:"elapsed"`
}

// newReport trims the result to the requested largest entries with display paths.
func newReport(root string, result *dirsize.Result, options Options, display display) Report {
	rep := Report{
		Path:        display.path(root),
		Size:        result.Size,
		Directories: result.DirCount,
		Files:       result.FileCount,
		Errors:      result.ErrorCount,
		Elapsed:     result.Elapsed,
	}

	relative := func(entries []dirsize.Entry) []dirsize.Entry {
		for i := range entries {
			entries[i].Path = display.path(entries[i].Path)
		}

		return entries
	}

	if options.LargeDirs {
		rep.LargestDirectories = relative(dirsize.Largest(result.Directories, options.LargeDirsCount))
	}

	if options.LargeFiles {
		rep.LargestFiles = relative(dirsize.Largest(result.Files, options.LargeFilesCount))
	}

	return rep
}

// PrintJSON outputs the report in JSON format.
func PrintJSON(rep Report, writer io.Writer) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding JSON output")
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintList outputs one "size<TAB>path" line per listed entry, directories
// first. Without any listing requested, the measured directory is printed.
func PrintList(rep Report, writer io.Writer) error {
	entries := append(append([]dirsize.Entry{}, rep.LargestDirectories...), rep.LargestFiles...)
	if len(entries) == 0 {
		entries = []dirsize.Entry{{Path: rep.Path, Size: rep.Size}}
	}

	for _, e := range entries {
		if _, err := fmt.Fprintf(writer, "%d\t%s\n", e.Size, e.Path); err != nil {
			return err
		}
	}

	return nil
}

// printLargest writes a numbered list of entries.
func printLargest(w io.Writer, title string, entries []dirsize.Entry) {
	fmt.Fprintf(w, "\n%s:\n", title)

	for i, e := range entries {
		fmt.Fprintf(w, "  #%d\t[%s]\t%s\n", i+1, autoSize(e.Size), e.Path)
	}
}

// PrintTable outputs the report in human-readable table format.
func PrintTable(rep Report, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	fmt.Fprintln(w, counted(rep.Directories, rep.Files))

	if rep.LargestDirectories != nil {
		printLargest(w, "Largest directories", rep.LargestDirectories)
	}

	if rep.LargestFiles != nil {
		printLargest(w, "Largest files", rep.LargestFiles)
	}

	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(writer, "\nSummary of '%s':\n", rep.Path)

	rows := [][2]string{
		{"Decimal", "Binary"},
		{formatSize(rep.Size, unitGB), formatSize(rep.Size, unitGiB)},
		{formatSize(rep.Size, unitMB), formatSize(rep.Size, unitMiB)},
		{formatSize(rep.Size, unitKB), formatSize(rep.Size, unitKiB)},
		{formatSize(rep.Size, unitBytes), "--"},
	}

	lhs, rhs := 0, 0
	for _, row := range rows {
		lhs = max(lhs, len(row[0]))
		rhs = max(rhs, len(row[1]))
	}

	fmt.Fprintf(writer, "%-*s | %s\n", lhs, rows[0][0], rows[0][1])
	fmt.Fprintf(writer, "%s | %s\n", strings.Repeat("-", lhs), strings.Repeat("-", rhs))

	for _, row := range rows[1:] {
		fmt.Fprintf(writer, "%-*s | %s\n", lhs, row[0], row[1])
	}

	if rep.Errors > 0 {
		fmt.Fprintf(writer, "\nSkipped:  %d unreadable entries\n", rep.Errors)
	}

	_, err := fmt.Fprintf(writer, "\nElapsed:  %v\n", rep.Elapsed)

	return err
}
