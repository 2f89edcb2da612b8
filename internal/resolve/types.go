package resolve

import "github.com/opalkit/pkgplan/internal/manifest"

// Location says where a binary artifact lives.
type Location string

// Location values.
const (
	LocationLocal  Location = "local"  // path relative to the package root
	LocationRemote Location = "remote" // http or https URL
)

// TargetDescriptor is one target of a resolved plan.
type TargetDescriptor struct {
	Name             string              `json:"name" yaml:"name"`
	Kind             manifest.TargetKind `json:"kind" yaml:"kind"`
	ArtifactPath     string              `json:"artifact_path,omitempty" yaml:"artifact_path,omitempty"`
	ArtifactChecksum string              `json:"artifact_checksum,omitempty" yaml:"artifact_checksum,omitempty"`
	Location         Location            `json:"location,omitempty" yaml:"location,omitempty"`
	SourcePath       string              `json:"source_path,omitempty" yaml:"source_path,omitempty"`
}

// ResolvedPlan is the outcome of resolving one product for one platform.
type ResolvedPlan struct {
	Package     string               `json:"package" yaml:"package"`
	Product     string               `json:"product" yaml:"product"`
	ProductKind manifest.ProductKind `json:"product_kind" yaml:"product_kind"`
	Platform    manifest.Platform    `json:"platform" yaml:"platform"`
	Targets     []TargetDescriptor   `json:"targets" yaml:"targets"`
}

// BinaryTargets returns only the descriptors backed by precompiled artifacts.
func (p *ResolvedPlan) BinaryTargets() []TargetDescriptor {
	var out []TargetDescriptor
	for _, t := range p.Targets {
		if t.Kind == manifest.TargetBinary {
			out = append(out, t)
		}
	}
	return out
}
