package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/opalkit/pkgplan/internal/loader"
	"github.com/opalkit/pkgplan/internal/manifest"
	"github.com/spf13/cobra"
)

var productsJSON bool

var productsCmd = &cobra.Command{
	Use:   "products <path>",
	Short: "List the products a manifest exports",
	Args:  cobra.ExactArgs(1),
	RunE:  runProducts,
}

func init() {
	productsCmd.Flags().BoolVar(&productsJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(productsCmd)
}

// productEntry is a product with its targets' kinds, for display.
type productEntry struct {
	Name    string   `json:"name"`
	Kind    string   `json:"kind"`
	Targets []string `json:"targets"`
	Binary  bool     `json:"binary"` // every target is a binary target
}

func runProducts(cmd *cobra.Command, args []string) error {
	vm, err := loader.OpenValid(manifestLoader, args[0])
	if err != nil {
		return fmt.Errorf("loading %s: %w", args[0], err)
	}

	var entries []productEntry
	for _, p := range vm.Products() {
		entry := productEntry{
			Name:    p.Name,
			Kind:    string(p.Kind),
			Targets: p.Targets,
			Binary:  true,
		}
		for _, ref := range p.Targets {
			if t, ok := vm.Target(ref); ok && t.Kind() != manifest.TargetBinary {
				entry.Binary = false
			}
		}
		entries = append(entries, entry)
	}

	if productsJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tTARGETS")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, e.Kind, strings.Join(e.Targets, ", "))
	}
	return w.Flush()
}
