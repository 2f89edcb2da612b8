package resolve

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/opalkit/pkgplan/internal/manifest"
	"go.yaml.in/yaml/v3"
)

// Format selects how plans are rendered.
type Format string

// Format values.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "text", "json", "yaml" or "yml", case-insensitively.
// An empty string selects FormatText.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

// WritePlan renders a single plan.
func WritePlan(w io.Writer, plan *ResolvedPlan, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, plan)
	case FormatYAML:
		return writeYAML(w, plan)
	default:
		PrintPlan(w, plan)
		return nil
	}
}

// WritePlans renders several plans. Structured formats always emit a list.
func WritePlans(w io.Writer, plans []*ResolvedPlan, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, plans)
	case FormatYAML:
		return writeYAML(w, plans)
	default:
		for i, plan := range plans {
			if i > 0 {
				fmt.Fprintln(w)
			}
			PrintPlan(w, plan)
		}
		return nil
	}
}

// PrintPlan prints a plan as a tree with box-drawing characters.
func PrintPlan(w io.Writer, plan *ResolvedPlan) {
	fmt.Fprintf(w, "  %s (%s) for %s\n", plan.Product, plan.ProductKind, plan.Platform)
	for i, t := range plan.Targets {
		connector := "├── "
		if i == len(plan.Targets)-1 {
			connector = "└── "
		}
		fmt.Fprintf(w, "  %s%s\n", connector, targetLabel(t))
	}
}

func targetLabel(t TargetDescriptor) string {
	switch t.Kind {
	case manifest.TargetBinary:
		label := fmt.Sprintf("binary: %s -> %s (%s", t.Name, t.ArtifactPath, t.Location)
		if t.ArtifactChecksum != "" {
			label += ", checksum " + shortChecksum(t.ArtifactChecksum)
		}
		return label + ")"
	default:
		if t.SourcePath != "" {
			return fmt.Sprintf("%s: %s (%s)", t.Kind, t.Name, t.SourcePath)
		}
		return fmt.Sprintf("%s: %s", t.Kind, t.Name)
	}
}

func shortChecksum(sum string) string {
	const n = 12
	if len(sum) <= n {
		return sum
	}
	return sum[:n]
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling plan: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("marshaling plan: %w", err)
	}
	return enc.Close()
}
