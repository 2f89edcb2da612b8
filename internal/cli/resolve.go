package cli

import (
	"fmt"

	"github.com/opalkit/pkgplan/internal/config"
	"github.com/opalkit/pkgplan/internal/loader"
	"github.com/opalkit/pkgplan/internal/manifest"
	"github.com/opalkit/pkgplan/internal/resolve"
	"github.com/spf13/cobra"
)

var (
	resolvePlatform string
	resolveAll      bool
	resolveOutput   string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <path> [product]",
	Short: "Resolve a product into a build plan for a platform",
	Long: `Resolve a product of the manifest at <path> for the platform given with
--platform (e.g. ios@14.0), or the default_platform config value.
The product may be omitted when the manifest declares exactly one.
Use --all to resolve every product.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVarP(&resolvePlatform, "platform", "p", "", "Target platform as <kind>@<version> (default from config)")
	resolveCmd.Flags().BoolVar(&resolveAll, "all", false, "Resolve every product in the manifest")
	resolveCmd.Flags().StringVarP(&resolveOutput, "output", "o", "", "Output format: text, json or yaml (default from config)")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	path := args[0]
	log := logger.WithManifest(path)

	platform, err := requestedPlatform()
	if err != nil {
		return err
	}

	outputName := resolveOutput
	if outputName == "" {
		outputName = config.Output()
	}
	format, err := resolve.ParseFormat(outputName)
	if err != nil {
		return err
	}

	vm, err := loader.OpenValid(manifestLoader, path)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	log.Debug().Str("package", vm.Name()).Str("platform", platform.String()).Msg("manifest loaded")

	if resolveAll {
		if len(args) == 2 {
			return fmt.Errorf("--all cannot be combined with a product name")
		}
		plans, err := resolve.ResolveAll(vm, platform)
		if err != nil {
			return err
		}
		log.Debug().Int("products", len(plans)).Msg("resolved all products")
		return resolve.WritePlans(cmd.OutOrStdout(), plans, format)
	}

	product, err := selectProduct(vm, args)
	if err != nil {
		return err
	}
	plan, err := resolve.ResolveProduct(vm, product, platform)
	if err != nil {
		return err
	}
	log.Debug().Str("product", product).Int("targets", len(plan.Targets)).Msg("resolved product")
	return resolve.WritePlan(cmd.OutOrStdout(), plan, format)
}

func requestedPlatform() (manifest.Platform, error) {
	raw := resolvePlatform
	if raw == "" {
		raw = config.DefaultPlatform()
	}
	if raw == "" {
		return manifest.Platform{}, fmt.Errorf("no platform given: pass --platform <kind>@<version> or set %s", config.KeyDefaultPlatform)
	}
	return manifest.ParsePlatform(raw)
}

// selectProduct returns the product named on the command line, or the only
// product of a single-product manifest.
func selectProduct(vm *manifest.ValidManifest, args []string) (string, error) {
	if len(args) == 2 {
		return args[1], nil
	}
	products := vm.Products()
	if len(products) == 1 {
		return products[0].Name, nil
	}
	return "", fmt.Errorf("%s declares %d products: name one or pass --all", vm.Name(), len(products))
}
