// Package cli implements the sprinklerlayout command-line interface.
//
// The CLI computes sprinkler layouts for a room and its supply pipes,
// compares placement strategies, and manages configuration and project
// files. It is built using cobra and logs via charmbracelet/log.
//
// # Commands
//
//   - layout: Compute one layout, print the report and write exports
//   - compare: Run every strategy and pick the best layout
//   - config: Create or show the configuration file
//   - project: Save room, pipes and settings as a project file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/SprinklerLayout/internal/model"
	"github.com/piwi3910/SprinklerLayout/internal/project"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// rootOptions holds the global flags and the configuration they resolve to.
type rootOptions struct {
	verbose    bool
	configPath string
	config     model.AppConfig
}

// Execute runs the sprinklerlayout CLI and returns an error if any command fails.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "sprinklerlayout",
		Short:         "SprinklerLayout places ceiling sprinklers and connects them to supply pipes",
		Long:          `SprinklerLayout computes sprinkler positions inside a polygonal room, connects every sprinkler to its nearest supply pipe, and scores the result against clearance, spacing and connection-distance constraints.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if opts.verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)
			cmd.SetContext(withLogger(cmd.Context(), logger))

			if opts.configPath == "" {
				opts.configPath = project.DefaultConfigPath()
			}
			cfg, err := project.LoadAppConfig(opts.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			opts.config = cfg
			logger.Debug("Loaded configuration", "path", opts.configPath)
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("sprinklerlayout %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (.json or .toml, default ~/.sprinklerlayout/config.json)")

	root.AddCommand(newLayoutCmd(opts))
	root.AddCommand(newCompareCmd(opts))
	root.AddCommand(newConfigCmd(opts))
	root.AddCommand(newProjectCmd(opts))

	return root
}

// PrintError reports a command failure on stderr.
func PrintError(err error) {
	printError(os.Stderr, "%v", err)
}
