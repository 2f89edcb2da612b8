package cli

import (
	"fmt"
	"os"

	"github.com/opalkit/pkgplan/internal/branding"
	"github.com/opalkit/pkgplan/internal/config"
	"github.com/opalkit/pkgplan/internal/loader"
	"github.com/opalkit/pkgplan/internal/logging"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	logLevel string
	verbose  bool

	logger = logging.Nop()

	// manifestLoader reads manifests for every command.
	manifestLoader loader.Loader = loader.NewFileLoader()
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` reads a package manifest (name, platforms, products and targets),
checks it for consistency and resolves a product for a target platform into the
list of binary artifacts a build tool must fetch and link.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()

		level := logLevel
		if level == "" {
			level = config.LogLevel()
		}
		logger = logging.New(logging.Options{
			Level:   level,
			Output:  cmd.ErrOrStderr(),
			Verbose: verbose,
		}).WithComponent(cmd.Name())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}
