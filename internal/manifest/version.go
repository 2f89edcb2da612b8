package manifest

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var zeroSemver = semver.New(0, 0, 0, "", "")

// Version is a platform or tools version. Short forms such as "13", "13.0"
// and "v13" are accepted and compare as their full semver equivalents.
// The zero Version compares equal to 0.0.0.
type Version struct {
	raw string
	v   *semver.Version
}

// ParseVersion parses a version string, tolerating a leading "v" and missing
// minor or patch components.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, fmt.Errorf("version is empty")
	}
	v, err := semver.NewVersion(s)
	if err != nil {
		return Version{}, fmt.Errorf("parsing version %q: %w", s, err)
	}
	return Version{raw: s, v: v}, nil
}

// MustParseVersion is like ParseVersion but panics on error.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// IsZero reports whether v was never set.
func (v Version) IsZero() bool { return v.v == nil }

// Compare returns -1, 0 or 1 when v is lower than, equal to or higher than o.
func (v Version) Compare(o Version) int {
	return v.semver().Compare(o.semver())
}

// LessThan reports whether v is strictly lower than o.
func (v Version) LessThan(o Version) bool { return v.Compare(o) < 0 }

// String returns the version as it was written.
func (v Version) String() string {
	if v.raw != "" {
		return v.raw
	}
	return v.semver().String()
}

// MarshalText renders the version as written, for JSON and YAML output.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText parses a rendered version back, so plans round-trip.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v Version) semver() *semver.Version {
	if v.v == nil {
		return zeroSemver
	}
	return v.v
}
