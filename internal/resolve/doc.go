// Package resolve turns a validated manifest, a product name and a requested
// platform into a ResolvedPlan: the ordered targets a build tool must link,
// with artifact locations passed through for the fetch collaborator.
// Resolution is a pure read over a manifest.ValidManifest and never touches
// the filesystem or network.
package resolve
