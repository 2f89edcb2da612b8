package resolve

import (
	"net/url"
	"strings"

	"github.com/opalkit/pkgplan/internal/manifest"
)

// ResolveProduct resolves the named product for the requested platform.
// It fails with *manifest.UnknownProductError when the product is not
// declared, and with *manifest.PlatformUnsupportedError when the manifest
// declares a minimum for the requested kind that the version does not meet.
// A kind the manifest does not mention is always compatible.
func ResolveProduct(vm *manifest.ValidManifest, productName string, requested manifest.Platform) (*ResolvedPlan, error) {
	product, ok := vm.Product(productName)
	if !ok {
		return nil, &manifest.UnknownProductError{Name: productName}
	}

	if err := CheckPlatform(vm, requested); err != nil {
		return nil, err
	}

	plan := &ResolvedPlan{
		Package:     vm.Name(),
		Product:     product.Name,
		ProductKind: product.Kind,
		Platform:    requested,
		Targets:     make([]TargetDescriptor, 0, len(product.Targets)),
	}
	for _, ref := range product.Targets {
		// Validate guarantees every ref resolves.
		target, _ := vm.Target(ref)
		plan.Targets = append(plan.Targets, describe(target))
	}
	return plan, nil
}

// ResolveAll resolves every product in declaration order and stops at the
// first failure.
func ResolveAll(vm *manifest.ValidManifest, requested manifest.Platform) ([]*ResolvedPlan, error) {
	products := vm.Products()
	plans := make([]*ResolvedPlan, 0, len(products))
	for _, p := range products {
		plan, err := ResolveProduct(vm, p.Name, requested)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// CheckPlatform applies the platform gate on its own.
func CheckPlatform(vm *manifest.ValidManifest, requested manifest.Platform) error {
	minimum, declared := vm.MinimumVersion(requested.Kind)
	if !declared {
		return nil
	}
	if requested.Version.LessThan(minimum) {
		return &manifest.PlatformUnsupportedError{Requested: requested, Minimum: minimum}
	}
	return nil
}

func describe(t manifest.Target) TargetDescriptor {
	switch v := t.(type) {
	case manifest.BinaryTarget:
		return TargetDescriptor{
			Name:             v.Name,
			Kind:             manifest.TargetBinary,
			ArtifactPath:     v.ArtifactPath,
			ArtifactChecksum: v.ArtifactChecksum,
			Location:         classify(v.ArtifactPath),
		}
	case manifest.SourceTarget:
		return TargetDescriptor{
			Name:       v.Name,
			Kind:       manifest.TargetSource,
			SourcePath: v.Path,
		}
	default:
		return TargetDescriptor{Name: t.TargetName(), Kind: t.Kind()}
	}
}

// classify reports whether an artifact path is a remote URL. Anything that
// does not parse as an http(s) URL with a host is treated as a local path.
func classify(artifactPath string) Location {
	u, err := url.Parse(artifactPath)
	if err != nil || u.Host == "" {
		return LocationLocal
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return LocationRemote
	default:
		return LocationLocal
	}
}
