// Package cli defines the Cobra command tree for the pkgplan CLI. Each file
// registers one top-level command (validate, resolve, products, config,
// version) with the root command. Commands delegate to the loader, manifest
// and resolve packages and only handle flags, output formatting and logging.
package cli
