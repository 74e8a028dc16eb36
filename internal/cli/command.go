package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/dirsize/internal/dirsize"
	"github.com/idelchi/dirsize/internal/integration"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// Execute runs the CLI with the process arguments.
func (c CLI) Execute() error {
	return c.Command().Execute()
}

// Command builds the root command. Every flag can also be set through a
// DIRSIZE_<FLAG> environment variable or a YAML config file.
func (c CLI) Command() *cobra.Command {
	var configFile string

	v := viper.New()

	cmd := &cobra.Command{
		Use:   "dirsize [flags] [path]",
		Short: "Compute the total size of a directory tree",
		Long: heredoc.Doc(`
			dirsize computes the total size of a directory tree and optionally reports
			the largest directories and files in it.

			Positional Arguments:
			  path    Directory to measure. Defaults to current directory if not specified.

			Unreadable entries are skipped and reported, unless --abort is given.
			Symbolic links are never followed.

			Flags may also be set through DIRSIZE_<FLAG> environment variables
			(e.g. DIRSIZE_LARGE_DIRS=true) or a YAML config file.

			The '-i' flag prints a zsh integration script. It defines a function
			piping the largest directories to 'fzf' and changing into the selection.
		`),
		Version:       c.version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(v, configFile); err != nil {
				return err
			}

			options := optionsFrom(v)

			if options.Integration {
				rendered, err := integration.Render(cmd.Name(), options.LargeDirsCount)
				if err != nil {
					return errors.Wrap(err, "rendering integration script")
				}

				fmt.Fprintln(cmd.OutOrStdout(), rendered)

				return nil
			}

			if err := options.validate(); err != nil {
				return err
			}

			options.Path = "."
			if len(args) > 0 {
				options.Path = args[0]
			}

			return logic(cmd.Context(), options, cmd.OutOrStdout(), cmd.ErrOrStderr(), isTerminal(cmd.ErrOrStderr()))
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false

	flags.BoolP("abort", "A", false, "Abort on the first unreadable entry instead of skipping it")
	flags.BoolP("verbose", "V", false, "Print every directory once its size is known")
	flags.BoolP("extra-verbose", "E", false, "Print every file once its size is known")
	flags.BoolP("large-dirs", "D", false, "List the largest directories")
	flags.IntP("large-dirs-count", "N", 10, "Number of largest directories to list")
	flags.BoolP("large-files", "F", false, "List the largest files")
	flags.IntP("large-files-count", "M", 10, "Number of largest files to list")
	flags.StringP("output", "o", "table", "Output format: table, json or list")
	flags.String("engine", "recursive", "Traversal engine: recursive or fastwalk")
	flags.IntP("concurrency", "j", dirsize.DefaultConcurrency, "Maximum in-flight filesystem calls (0=unlimited)")
	flags.StringSliceP("exclude", "e", []string{}, "Regex patterns of paths to exclude")
	flags.StringVar(&configFile, "config", "", "Path to a YAML config file")
	flags.Bool("debug", false, "Enable debug output")
	flags.BoolP("init", "i", false, "Output init script for shell usage")
	flags.BoolP("help", "H", false, "Show help")

	//nolint:errcheck // Flags are defined above, binding cannot fail.
	v.BindPFlags(flags)
	v.SetEnvPrefix("DIRSIZE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return cmd
}

// loadConfig reads the explicit config file, or dirsize.yaml from the user
// config directory when present.
func loadConfig(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)

		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "reading config file %q", file)
		}

		return nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return nil //nolint:nilerr // No config directory means no config file.
	}

	v.SetConfigName("dirsize")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(dir, "dirsize"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}

		return errors.Wrap(err, "reading config file")
	}

	return nil
}

// isTerminal reports whether w is a terminal.
func isTerminal(w any) bool {
	f, ok := w.(*os.File)

	return ok && isatty.IsTerminal(f.Fd())
}
