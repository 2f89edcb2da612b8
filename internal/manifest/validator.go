package manifest

import (
	"fmt"
	"strings"
)

// ValidManifest is a manifest that passed Validate. It is immutable and safe
// for concurrent use; accessors return copies.
type ValidManifest struct {
	name         string
	toolsVersion Version
	platforms    []PlatformRequirement
	products     []Product
	targets      []Target
	productIndex map[string]int
	targetIndex  map[string]int
}

// Validate checks the manifest's internal consistency and returns the first
// failure found, in this order: package name, platforms, targets, products,
// tools version. The input is not retained; the result holds its own copy.
func Validate(m *PackageManifest) (*ValidManifest, error) {
	if m == nil {
		return nil, &MalformedManifestError{Err: fmt.Errorf("manifest is nil")}
	}
	if isBlank(m.Name) {
		return nil, &EmptyIdentifierError{Field: "name"}
	}

	vm := &ValidManifest{
		name:         m.Name,
		toolsVersion: m.ToolsVersion,
		productIndex: make(map[string]int, len(m.Products)),
		targetIndex:  make(map[string]int, len(m.Targets)),
	}

	if err := vm.addPlatforms(m.Platforms); err != nil {
		return nil, err
	}
	if err := vm.addTargets(m.Targets); err != nil {
		return nil, err
	}
	if err := vm.addProducts(m.Products); err != nil {
		return nil, err
	}
	if err := vm.checkToolsVersion(); err != nil {
		return nil, err
	}
	return vm, nil
}

func (vm *ValidManifest) addPlatforms(platforms []PlatformRequirement) error {
	seen := make(map[string]bool, len(platforms))
	for i, p := range platforms {
		if isBlank(string(p.Kind)) {
			return &EmptyIdentifierError{Field: fmt.Sprintf("platforms[%d].kind", i)}
		}
		p.Kind = CanonicalPlatformKind(string(p.Kind))
		key := strings.ToLower(string(p.Kind))
		if seen[key] {
			return &DuplicateIdentifierError{Kind: IdentifierPlatform, Name: string(p.Kind)}
		}
		seen[key] = true
		vm.platforms = append(vm.platforms, p)
	}
	return nil
}

func (vm *ValidManifest) addTargets(targets []Target) error {
	for i, raw := range targets {
		t, ok := cloneTarget(raw)
		if !ok {
			return &EmptyIdentifierError{Field: fmt.Sprintf("targets[%d]", i)}
		}
		name := t.TargetName()
		if isBlank(name) {
			return &EmptyIdentifierError{Field: fmt.Sprintf("targets[%d].name", i)}
		}
		if bt, isBinary := t.(BinaryTarget); isBinary && isBlank(bt.ArtifactPath) {
			return &EmptyIdentifierError{Field: fmt.Sprintf("targets[%d].artifact_path", i)}
		}
		if _, dup := vm.targetIndex[name]; dup {
			return &DuplicateIdentifierError{Kind: IdentifierTarget, Name: name}
		}
		vm.targetIndex[name] = len(vm.targets)
		vm.targets = append(vm.targets, t)
	}
	return nil
}

func (vm *ValidManifest) addProducts(products []Product) error {
	for i, p := range products {
		if isBlank(p.Name) {
			return &EmptyIdentifierError{Field: fmt.Sprintf("products[%d].name", i)}
		}
		if _, dup := vm.productIndex[p.Name]; dup {
			return &DuplicateIdentifierError{Kind: IdentifierProduct, Name: p.Name}
		}
		if len(p.Targets) == 0 {
			return &EmptyIdentifierError{Field: fmt.Sprintf("products[%d].targets", i)}
		}
		for j, ref := range p.Targets {
			if isBlank(ref) {
				return &EmptyIdentifierError{Field: fmt.Sprintf("products[%d].targets[%d]", i, j)}
			}
			if _, ok := vm.targetIndex[ref]; !ok {
				return &DanglingTargetReferenceError{Product: p.Name, Target: ref}
			}
		}
		if p.Kind == "" {
			p.Kind = ProductLibrary
		}
		p.Targets = append([]string(nil), p.Targets...)
		vm.productIndex[p.Name] = len(vm.products)
		vm.products = append(vm.products, p)
	}
	return nil
}

func (vm *ValidManifest) checkToolsVersion() error {
	if issue, ok := toolsVersionIssue(vm.toolsVersion, vm.targets); ok {
		return &MalformedManifestError{Issues: []Issue{issue}}
	}
	return nil
}

// toolsVersionIssue reports the first binary target that a declared tools
// version below MinimumBinaryToolsVersion cannot support.
func toolsVersionIssue(toolsVersion Version, targets []Target) (Issue, bool) {
	if toolsVersion.IsZero() {
		return Issue{}, false
	}
	if !toolsVersion.LessThan(MustParseVersion(MinimumBinaryToolsVersion)) {
		return Issue{}, false
	}
	for i, t := range targets {
		if t == nil || t.Kind() != TargetBinary {
			continue
		}
		msg := fmt.Sprintf("binary target %q requires tools version %s or newer, manifest declares %s",
			t.TargetName(), MinimumBinaryToolsVersion, toolsVersion)
		return Issue{Path: fmt.Sprintf("/targets/%d", i), Message: msg}, true
	}
	return Issue{}, false
}

// cloneTarget returns a value copy of t. Pointer variants are dereferenced so
// later changes through the caller's pointer cannot reach the ValidManifest.
func cloneTarget(t Target) (Target, bool) {
	switch v := t.(type) {
	case SourceTarget:
		return v, true
	case BinaryTarget:
		return v, true
	case *SourceTarget:
		if v == nil {
			return nil, false
		}
		return *v, true
	case *BinaryTarget:
		if v == nil {
			return nil, false
		}
		return *v, true
	default:
		return nil, false
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Name returns the package name.
func (vm *ValidManifest) Name() string { return vm.name }

// ToolsVersion returns the declared tools version, zero when absent.
func (vm *ValidManifest) ToolsVersion() Version { return vm.toolsVersion }

// Platforms returns the platform requirements in declaration order.
func (vm *ValidManifest) Platforms() []PlatformRequirement {
	return append([]PlatformRequirement(nil), vm.platforms...)
}

// Products returns the products in declaration order.
func (vm *ValidManifest) Products() []Product {
	out := make([]Product, len(vm.products))
	for i, p := range vm.products {
		out[i] = copyProduct(p)
	}
	return out
}

// Targets returns the targets in declaration order.
func (vm *ValidManifest) Targets() []Target {
	return append([]Target(nil), vm.targets...)
}

// Product looks up a product by name.
func (vm *ValidManifest) Product(name string) (Product, bool) {
	i, ok := vm.productIndex[name]
	if !ok {
		return Product{}, false
	}
	return copyProduct(vm.products[i]), true
}

// Target looks up a target by name.
func (vm *ValidManifest) Target(name string) (Target, bool) {
	i, ok := vm.targetIndex[name]
	if !ok {
		return nil, false
	}
	return vm.targets[i], true
}

// MinimumVersion returns the declared minimum for the platform kind, matched
// case-insensitively. ok is false when the kind is not declared.
func (vm *ValidManifest) MinimumVersion(kind PlatformKind) (Version, bool) {
	for _, p := range vm.platforms {
		if p.Kind.Matches(kind) {
			return p.MinimumVersion, true
		}
	}
	return Version{}, false
}

func copyProduct(p Product) Product {
	p.Targets = append([]string(nil), p.Targets...)
	return p
}
