// Package manifest handles parsing and validation of package manifests.
// A manifest declares a package name, the platforms it supports, the products
// it exports, and the source or binary targets backing those products.
// Parse turns raw YAML or JSON into a PackageManifest; Validate checks its
// internal consistency and returns a ValidManifest, the only form accepted by
// the resolve package.
package manifest
