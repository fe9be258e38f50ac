// Package cli provides the command-line interface for dynpal.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jmylchreest/dynpal/internal/version"
)

// EnvPrefix prefixes the environment variables that back every flag.
const EnvPrefix = "DYNPAL_"

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	verbose bool
	quiet   bool
}

// NewRootCmd builds the dynpal command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "dynpal",
		Short: "Adaptive dominant colour extraction",
		Long: `dynpal extracts the dominant colours of an image without being told how many
there are. Pixels are fed one at a time into a dynamic k-means clusterer that opens a
new cluster whenever a colour is further than an adaptive threshold from every
existing centre.

Every flag can also be set through the environment as DYNPAL_<FLAG>, with dashes
replaced by underscores (for example DYNPAL_SEED_THRESHOLD=60).`,
		Version:      version.Short(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return applyEnv(cmd.Flags())
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress non-error output")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.SetVersionTemplate(version.String() + "\n")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newExtractCmd(opts))
	cmd.AddCommand(newCompareCmd(opts))

	return cmd
}

// envName maps a flag name to its environment variable.
func envName(flag string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

// applyEnv sets every flag not given on the command line from its environment
// variable, if present.
func applyEnv(flags *pflag.FlagSet) error {
	var errs []string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Changed || f.Name == "help" {
			return
		}
		v, ok := os.LookupEnv(envName(f.Name))
		if !ok {
			return
		}
		if err := flags.Set(f.Name, v); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", envName(f.Name), err))
		}
	})
	if len(errs) > 0 {
		return fmt.Errorf("invalid environment: %s", strings.Join(errs, "; "))
	}
	return nil
}

// logger builds the root logger. --verbose and --quiet win over DYNPAL_LOG_LEVEL.
func (o *globalOptions) logger(cmd *cobra.Command) hclog.Logger {
	level := hclog.Warn
	if env := hclog.LevelFromString(os.Getenv(EnvPrefix + "LOG_LEVEL")); env != hclog.NoLevel {
		level = env
	}
	switch {
	case o.verbose:
		level = hclog.Debug
	case o.quiet:
		level = hclog.Error
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   "dynpal",
		Output: cmd.ErrOrStderr(),
		Level:  level,
	})
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
