package manifest

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors, one per failure kind. Every detailed error below matches
// its sentinel with errors.Is and can be unpacked with errors.As.
var (
	// ErrEmptyIdentifier is returned when a required name field is blank.
	ErrEmptyIdentifier = errors.New("empty identifier")

	// ErrDuplicateIdentifier is returned when two products, targets or
	// platform declarations share a name.
	ErrDuplicateIdentifier = errors.New("duplicate identifier")

	// ErrDanglingTargetReference is returned when a product names a target
	// the manifest does not declare.
	ErrDanglingTargetReference = errors.New("dangling target reference")

	// ErrUnknownProduct is returned when resolution asks for a product the
	// manifest does not declare.
	ErrUnknownProduct = errors.New("unknown product")

	// ErrPlatformUnsupported is returned when the requested platform version
	// is below the declared minimum for that platform.
	ErrPlatformUnsupported = errors.New("platform unsupported")

	// ErrMalformedManifest is returned when the manifest document cannot be
	// parsed into the manifest model.
	ErrMalformedManifest = errors.New("malformed manifest")
)

// EmptyIdentifierError names the blank field, e.g. "products[0].name".
type EmptyIdentifierError struct {
	Field string
}

func (e *EmptyIdentifierError) Error() string {
	return fmt.Sprintf("empty identifier: %s must not be blank", e.Field)
}

// Is implements error matching for errors.Is() checks.
func (e *EmptyIdentifierError) Is(target error) bool {
	return target == ErrEmptyIdentifier
}

// IdentifierKind says which namespace a duplicate was found in.
type IdentifierKind string

// IdentifierKind values.
const (
	IdentifierProduct  IdentifierKind = "product"
	IdentifierTarget   IdentifierKind = "target"
	IdentifierPlatform IdentifierKind = "platform"
)

// DuplicateIdentifierError indicates two declarations share a name.
type DuplicateIdentifierError struct {
	Kind IdentifierKind
	Name string
}

func (e *DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("duplicate identifier: %s %q is declared more than once", e.Kind, e.Name)
}

// Is implements error matching for errors.Is() checks.
func (e *DuplicateIdentifierError) Is(target error) bool {
	return target == ErrDuplicateIdentifier
}

// DanglingTargetReferenceError indicates a product references a missing target.
type DanglingTargetReferenceError struct {
	Product string
	Target  string
}

func (e *DanglingTargetReferenceError) Error() string {
	return fmt.Sprintf("dangling target reference: product %q references undeclared target %q", e.Product, e.Target)
}

// Is implements error matching for errors.Is() checks.
func (e *DanglingTargetReferenceError) Is(target error) bool {
	return target == ErrDanglingTargetReference
}

// UnknownProductError indicates the requested product is not declared.
type UnknownProductError struct {
	Name string
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("unknown product: %q", e.Name)
}

// Is implements error matching for errors.Is() checks.
func (e *UnknownProductError) Is(target error) bool {
	return target == ErrUnknownProduct
}

// PlatformUnsupportedError carries the requested platform and the declared
// minimum it failed to meet.
type PlatformUnsupportedError struct {
	Requested Platform
	Minimum   Version
}

func (e *PlatformUnsupportedError) Error() string {
	return fmt.Sprintf("platform unsupported: %s requested, %s >= %s required",
		e.Requested, e.Requested.Kind, e.Minimum)
}

// Is implements error matching for errors.Is() checks.
func (e *PlatformUnsupportedError) Is(target error) bool {
	return target == ErrPlatformUnsupported
}

// Issue is a single structural problem found in a manifest document.
type Issue struct {
	Path    string // instance location, e.g. "/targets/0/name"
	Message string
	Keyword string // failing schema keyword, empty for decode errors
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// MalformedManifestError indicates a structural failure surfaced before
// validation ran. Err is set for syntax errors; Issues for schema violations.
type MalformedManifestError struct {
	Source string
	Issues []Issue
	Err    error
}

func (e *MalformedManifestError) Error() string {
	var b strings.Builder
	b.WriteString("malformed manifest")
	if e.Source != "" {
		b.WriteString(" ")
		b.WriteString(e.Source)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	for i, issue := range e.Issues {
		if i == 0 && e.Err == nil {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(issue.String())
	}
	return b.String()
}

// Is implements error matching for errors.Is() checks.
func (e *MalformedManifestError) Is(target error) bool {
	return target == ErrMalformedManifest
}

func (e *MalformedManifestError) Unwrap() error {
	return e.Err
}
