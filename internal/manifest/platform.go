package manifest

import (
	"fmt"
	"strings"
)

// PlatformKind names an operating system family such as iOS or macOS.
type PlatformKind string

// Known platform kinds. Kinds outside this list are accepted verbatim.
const (
	PlatformIOS         PlatformKind = "iOS"
	PlatformMacOS       PlatformKind = "macOS"
	PlatformTvOS        PlatformKind = "tvOS"
	PlatformWatchOS     PlatformKind = "watchOS"
	PlatformMacCatalyst PlatformKind = "macCatalyst"
	PlatformVisionOS    PlatformKind = "visionOS"
	PlatformLinux       PlatformKind = "linux"
	PlatformWindows     PlatformKind = "windows"
	PlatformAndroid     PlatformKind = "android"
	PlatformWASI        PlatformKind = "wasi"
)

// KnownPlatforms lists the platform kinds with a canonical spelling.
var KnownPlatforms = []PlatformKind{
	PlatformIOS,
	PlatformMacOS,
	PlatformTvOS,
	PlatformWatchOS,
	PlatformMacCatalyst,
	PlatformVisionOS,
	PlatformLinux,
	PlatformWindows,
	PlatformAndroid,
	PlatformWASI,
}

// CanonicalPlatformKind trims s and maps known kinds to their canonical
// spelling, case-insensitively ("ios" -> "iOS").
func CanonicalPlatformKind(s string) PlatformKind {
	s = strings.TrimSpace(s)
	for _, k := range KnownPlatforms {
		if strings.EqualFold(string(k), s) {
			return k
		}
	}
	return PlatformKind(s)
}

// Matches reports whether two kinds name the same platform.
func (k PlatformKind) Matches(o PlatformKind) bool {
	return strings.EqualFold(strings.TrimSpace(string(k)), strings.TrimSpace(string(o)))
}

// PlatformRequirement declares the minimum supported version of one platform.
type PlatformRequirement struct {
	Kind           PlatformKind `json:"kind" yaml:"kind"`
	MinimumVersion Version      `json:"minimum_version" yaml:"minimum_version"`
}

// String returns e.g. "iOS >= 13.0".
func (r PlatformRequirement) String() string {
	return fmt.Sprintf("%s >= %s", r.Kind, r.MinimumVersion)
}

// Platform is the platform a consumer is building for.
type Platform struct {
	Kind    PlatformKind `json:"kind" yaml:"kind"`
	Version Version      `json:"version" yaml:"version"`
}

// ParsePlatform parses "<kind>@<version>", e.g. "ios@14.0".
func ParsePlatform(s string) (Platform, error) {
	kind, version, ok := strings.Cut(strings.TrimSpace(s), "@")
	if !ok {
		return Platform{}, fmt.Errorf("platform %q must have the form <kind>@<version>", s)
	}
	if strings.TrimSpace(kind) == "" {
		return Platform{}, fmt.Errorf("platform %q has an empty kind", s)
	}
	v, err := ParseVersion(version)
	if err != nil {
		return Platform{}, fmt.Errorf("platform %q: %w", s, err)
	}
	return Platform{Kind: CanonicalPlatformKind(kind), Version: v}, nil
}

// String returns the "<kind>@<version>" form.
func (p Platform) String() string {
	return fmt.Sprintf("%s@%s", p.Kind, p.Version)
}
