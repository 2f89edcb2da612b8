package manifest

// PackageManifest is a parsed, not yet validated, package description.
type PackageManifest struct {
	Name         string
	ToolsVersion Version // zero when the manifest does not declare one
	Platforms    []PlatformRequirement
	Products     []Product
	Targets      []Target
}

// ProductKind distinguishes the kind of build output a product exposes.
type ProductKind string

// ProductKind values.
const (
	ProductLibrary    ProductKind = "library"
	ProductExecutable ProductKind = "executable"
)

// Product is a named, externally consumable build output.
type Product struct {
	Name    string      `json:"name" yaml:"name"`
	Kind    ProductKind `json:"kind" yaml:"kind"`
	Targets []string    `json:"targets" yaml:"targets"`
}

// TargetKind is the discriminator of the Target variants.
type TargetKind string

// TargetKind values.
const (
	TargetSource TargetKind = "source"
	TargetBinary TargetKind = "binary"
)

// Target is a named unit of content backing one or more products.
// The set of implementations is closed: SourceTarget and BinaryTarget.
type Target interface {
	TargetName() string
	Kind() TargetKind
	isTarget()
}

// SourceTarget would be compiled from source. Resolution only lists it.
type SourceTarget struct {
	Name string
	Path string // optional source directory
}

// TargetName returns the target's identifier.
func (t SourceTarget) TargetName() string { return t.Name }

// Kind returns TargetSource.
func (t SourceTarget) Kind() TargetKind { return TargetSource }

func (SourceTarget) isTarget() {}

// BinaryTarget is backed by a precompiled, self-contained artifact bundle.
// ArtifactPath is a relative path or a URL. ArtifactChecksum is passed through
// untouched for the fetch collaborator to verify.
type BinaryTarget struct {
	Name             string
	ArtifactPath     string
	ArtifactChecksum string
}

// TargetName returns the target's identifier.
func (t BinaryTarget) TargetName() string { return t.Name }

// Kind returns TargetBinary.
func (t BinaryTarget) Kind() TargetKind { return TargetBinary }

func (BinaryTarget) isTarget() {}

// MinimumBinaryToolsVersion is the lowest tools version that understands
// binary targets.
const MinimumBinaryToolsVersion = "5.3"
