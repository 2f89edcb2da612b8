package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/package.schema.json
var schemaBytes []byte

const schemaURL = "package.schema.json"

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// SchemaResult contains the outcome of a structural check.
type SchemaResult struct {
	Valid  bool
	Issues []Issue
}

// getSchema compiles the embedded JSON schema once and returns it.
func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// CheckSchema checks raw YAML or JSON bytes against the manifest schema.
// The error return is for syntax or schema compilation failures.
// Structural issues are returned in the SchemaResult.
func CheckSchema(data []byte) (*SchemaResult, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	// Round-trip through JSON so the validator sees json.Number values.
	raw = normalizeYAML(raw)
	jsonData, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return &SchemaResult{Valid: true}, nil
	}

	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}

	return &SchemaResult{
		Valid:  false,
		Issues: extractIssues(validationErr),
	}, nil
}

// extractIssues walks the ValidationError tree and returns leaf-level issues
// sorted by path, keyword and message. The validator reports causes in map
// order, so sorting keeps the result stable across runs.
func extractIssues(ve *jsonschema.ValidationError) []Issue {
	var issues []Issue
	collectIssues(ve, &issues)

	if len(issues) == 0 {
		return []Issue{{Message: ve.Error()}}
	}
	issues = deduplicateIssues(issues)
	slices.SortFunc(issues, compareIssues)
	return issues
}

func compareIssues(a, b Issue) int {
	return cmp.Or(
		cmp.Compare(a.Path, b.Path),
		cmp.Compare(a.Keyword, b.Keyword),
		cmp.Compare(a.Message, b.Message),
	)
}

func collectIssues(ve *jsonschema.ValidationError, issues *[]Issue) {
	if len(ve.Causes) > 0 {
		if lastKeyword(ve) == "anyOf" {
			collectAnyOf(ve, issues)
			return
		}
		for _, cause := range ve.Causes {
			collectIssues(cause, issues)
		}
		return
	}

	keyword := lastKeyword(ve)

	// Container keywords only say that a branch failed.
	switch keyword {
	case "", "anyOf", "allOf", "oneOf", "$ref":
		return
	}

	*issues = append(*issues, newIssue(ve, keyword))
}

// collectAnyOf reports the branches whose type matched the value. Branches
// rejected only for their type say nothing useful. When every branch was
// rejected that way, the anyOf failure is reported once.
func collectAnyOf(ve *jsonschema.ValidationError, issues *[]Issue) {
	matched := false
	for _, cause := range ve.Causes {
		if isTypeMismatch(cause) {
			continue
		}
		matched = true
		collectIssues(cause, issues)
	}
	if !matched {
		*issues = append(*issues, newIssue(ve, "anyOf"))
	}
}

// isTypeMismatch reports whether a branch failed only on its type keyword.
func isTypeMismatch(ve *jsonschema.ValidationError) bool {
	if len(ve.Causes) == 0 {
		return lastKeyword(ve) == "type"
	}
	for _, cause := range ve.Causes {
		if !isTypeMismatch(cause) {
			return false
		}
	}
	return true
}

func lastKeyword(ve *jsonschema.ValidationError) string {
	if ve.ErrorKind == nil {
		return ""
	}
	kwPath := ve.ErrorKind.KeywordPath()
	if len(kwPath) == 0 {
		return ""
	}
	return kwPath[len(kwPath)-1]
}

func newIssue(ve *jsonschema.ValidationError, keyword string) Issue {
	path := ""
	if len(ve.InstanceLocation) > 0 {
		path = "/" + strings.Join(ve.InstanceLocation, "/")
	}
	msg := ""
	if ve.ErrorKind != nil {
		msg = ve.ErrorKind.LocalizedString(printer)
	}
	return Issue{Path: path, Message: msg, Keyword: keyword}
}

func deduplicateIssues(issues []Issue) []Issue {
	seen := make(map[Issue]bool, len(issues))
	var result []Issue
	for _, issue := range issues {
		if !seen[issue] {
			seen[issue] = true
			result = append(result, issue)
		}
	}
	return result
}

// normalizeYAML converts YAML-decoded values to JSON-compatible types.
// Maps with non-string keys are re-keyed with their printed form.
func normalizeYAML(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, v := range val {
			m[k] = normalizeYAML(v)
		}
		return m
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, v := range val {
			m[fmt.Sprint(k)] = normalizeYAML(v)
		}
		return m
	case []any:
		a := make([]any, len(val))
		for i, v := range val {
			a[i] = normalizeYAML(v)
		}
		return a
	default:
		return val
	}
}
