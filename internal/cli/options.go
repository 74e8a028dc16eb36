package cli

import (
	"regexp"
	"slices"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Options holds the command-line configuration.
type Options struct {
	// Path is the directory to measure.
	Path string
	// Abort stops at the first unreadable entry instead of skipping it.
	Abort bool
	// Verbose prints every directory once its size is known.
	Verbose bool
	// ExtraVerbose prints every file once its size is known.
	ExtraVerbose bool
	// LargeDirs lists the largest directories.
	LargeDirs bool
	// LargeDirsCount is the number of directories listed.
	LargeDirsCount int
	// LargeFiles lists the largest files.
	LargeFiles bool
	// LargeFilesCount is the number of files listed.
	LargeFilesCount int
	// Output represents output format (table, json or list).
	Output string
	// Engine selects the traversal engine (recursive or fastwalk).
	Engine string
	// Concurrency caps the number of in-flight filesystem calls.
	Concurrency int
	// Excludes contains regex patterns to exclude.
	Excludes []string
	// Debug indicates whether debug output is enabled.
	Debug bool
	// Integration indicates whether to output integration script.
	Integration bool
}

//nolint:gochecknoglobals // Config constant
var (
	allowedOutputs = []string{"table", "json", "list"}
	allowedEngines = []string{"recursive", "fastwalk"}
)

// optionsFrom reads the options resolved by viper from flags, environment and config file.
func optionsFrom(v *viper.Viper) Options {
	return Options{
		Abort:           v.GetBool("abort"),
		Verbose:         v.GetBool("verbose"),
		ExtraVerbose:    v.GetBool("extra-verbose"),
		LargeDirs:       v.GetBool("large-dirs"),
		LargeDirsCount:  v.GetInt("large-dirs-count"),
		LargeFiles:      v.GetBool("large-files"),
		LargeFilesCount: v.GetInt("large-files-count"),
		Output:          v.GetString("output"),
		Engine:          v.GetString("engine"),
		Concurrency:     v.GetInt("concurrency"),
		Excludes:        v.GetStringSlice("exclude"),
		Debug:           v.GetBool("debug"),
		Integration:     v.GetBool("init"),
	}
}

// validate checks the options for consistency.
func (o Options) validate() error {
	if !slices.Contains(allowedOutputs, o.Output) {
		return errors.Errorf("invalid output format %q: must be one of %v", o.Output, allowedOutputs)
	}

	if !slices.Contains(allowedEngines, o.Engine) {
		return errors.Errorf("invalid engine %q: must be one of %v", o.Engine, allowedEngines)
	}

	if o.LargeDirsCount <= 0 || o.LargeFilesCount <= 0 {
		return errors.New("large-dirs-count and large-files-count must be positive")
	}

	if o.Concurrency < 0 {
		return errors.New("concurrency cannot be negative")
	}

	return nil
}

// excludes compiles the exclusion patterns.
func (o Options) excludes() ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, 0, len(o.Excludes))

	for _, p := range o.Excludes {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, errors.Wrapf(err, "compiling exclusion pattern %q", p)
		}

		res = append(res, re)
	}

	return res, nil
}
