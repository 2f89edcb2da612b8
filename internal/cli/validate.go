package cli

import (
	"errors"
	"fmt"

	"github.com/opalkit/pkgplan/internal/loader"
	"github.com/opalkit/pkgplan/internal/manifest"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Check a manifest for consistency",
	Long: `Parse the manifest at <path> (a file, or a directory holding package.yaml,
package.yml or package.json) and check that names are present and unique and
that every product references declared targets.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]
	log := logger.WithManifest(path)

	vm, err := loader.OpenValid(manifestLoader, path)
	if err != nil {
		var me *manifest.MalformedManifestError
		if errors.As(err, &me) && len(me.Issues) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is malformed:\n", path)
			for _, issue := range me.Issues {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", issue)
			}
		}
		return fmt.Errorf("validating %s: %w", path, err)
	}
	log.Debug().Str("package", vm.Name()).Msg("manifest is valid")

	fmt.Fprintf(cmd.OutOrStdout(), "%s is valid: %s, %s, %s\n",
		vm.Name(),
		plural(len(vm.Products()), "product"),
		plural(len(vm.Targets()), "target"),
		plural(len(vm.Platforms()), "platform"))
	return nil
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
