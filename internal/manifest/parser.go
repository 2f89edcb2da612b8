package manifest

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// document mirrors the on-disk manifest layout. JSON manifests decode through
// the same path since JSON is valid YAML.
type document struct {
	Name         string             `yaml:"name"`
	ToolsVersion string             `yaml:"tools_version"`
	Platforms    []platformDocument `yaml:"platforms"`
	Products     []productDocument  `yaml:"products"`
	Targets      []targetDocument   `yaml:"targets"`
}

type platformDocument struct {
	Kind           string `yaml:"kind"`
	MinimumVersion string `yaml:"minimum_version"`
}

type productDocument struct {
	Name    string   `yaml:"name"`
	Kind    string   `yaml:"kind"`
	Targets []string `yaml:"targets"`
}

type targetDocument struct {
	Name             string  `yaml:"name"`
	Path             string  `yaml:"path"`
	ArtifactPath     *string `yaml:"artifact_path"`
	ArtifactChecksum string  `yaml:"artifact_checksum"`
}

// Parse decodes a YAML or JSON manifest. Source names the document in error
// messages and may be empty. Structural failures are returned as
// *MalformedManifestError, as is a tools version too old for the declared
// binary targets. Name and reference consistency is left to Validate.
func Parse(data []byte, source string) (*PackageManifest, error) {
	result, err := CheckSchema(data)
	if err != nil {
		return nil, &MalformedManifestError{Source: source, Err: err}
	}
	if !result.Valid {
		return nil, &MalformedManifestError{Source: source, Issues: result.Issues}
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &MalformedManifestError{Source: source, Err: fmt.Errorf("decoding manifest: %w", err)}
	}

	m, issues := doc.toManifest()
	if len(issues) > 0 {
		return nil, &MalformedManifestError{Source: source, Issues: issues}
	}
	return m, nil
}

// ParseFile reads a manifest file and parses it.
func ParseFile(path string) (*PackageManifest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, path)
}

// toManifest converts the decoded document into the manifest model.
// Version strings that passed the schema pattern can still overflow semver,
// so conversion reports issues rather than failing on the first one.
func (d *document) toManifest() (*PackageManifest, []Issue) {
	var issues []Issue

	m := &PackageManifest{Name: d.Name}

	if d.ToolsVersion != "" {
		v, err := ParseVersion(d.ToolsVersion)
		if err != nil {
			issues = append(issues, Issue{Path: "/tools_version", Message: err.Error()})
		}
		m.ToolsVersion = v
	}

	for i, p := range d.Platforms {
		v, err := ParseVersion(p.MinimumVersion)
		if err != nil {
			issues = append(issues, Issue{
				Path:    fmt.Sprintf("/platforms/%d/minimum_version", i),
				Message: err.Error(),
			})
		}
		m.Platforms = append(m.Platforms, PlatformRequirement{
			Kind:           CanonicalPlatformKind(p.Kind),
			MinimumVersion: v,
		})
	}

	for _, p := range d.Products {
		kind := ProductKind(p.Kind)
		if kind == "" {
			kind = ProductLibrary
		}
		m.Products = append(m.Products, Product{
			Name:    p.Name,
			Kind:    kind,
			Targets: append([]string(nil), p.Targets...),
		})
	}

	for _, t := range d.Targets {
		if t.ArtifactPath != nil {
			m.Targets = append(m.Targets, BinaryTarget{
				Name:             t.Name,
				ArtifactPath:     *t.ArtifactPath,
				ArtifactChecksum: t.ArtifactChecksum,
			})
			continue
		}
		m.Targets = append(m.Targets, SourceTarget{Name: t.Name, Path: t.Path})
	}

	if issue, ok := toolsVersionIssue(m.ToolsVersion, m.Targets); ok {
		issues = append(issues, issue)
	}

	return m, issues
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
