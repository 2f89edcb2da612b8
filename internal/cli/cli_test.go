package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opalkit/pkgplan/internal/manifest"
	"github.com/spf13/viper"
)

const opalYAML = `name: OpalSDK
platforms:
  - kind: ios
    minimum_version: "13.0"
products:
  - name: OpalSDK
    targets: [OpalSDK]
targets:
  - name: OpalSDK
    artifact_path: OpalSDK.xcframework
`

const lumenYAML = `name: Lumen
platforms:
  - kind: ios
    minimum_version: "15"
products:
  - name: LumenCore
    targets: [LumenCore, LumenShims]
  - name: lumen-cli
    kind: executable
    targets: [LumenCLI]
targets:
  - name: LumenCore
    artifact_path: https://downloads.example.com/LumenCore.zip
    artifact_checksum: 3c5f6b0d1e2a9f8c7b6a
  - name: LumenShims
    path: Sources/Shims
  - name: LumenCLI
`

// resetFlags restores command flag variables shared across test runs.
func resetFlags() {
	logLevel = ""
	verbose = false
	resolvePlatform = ""
	resolveAll = false
	resolveOutput = ""
	productsJSON = false
	versionShort = false
	versionJSON = false
}

// executeCommand runs the root command with args in an isolated home.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	t.Setenv("PKGPLAN_HOME", t.TempDir())
	viper.Reset()
	resetFlags()
	t.Cleanup(viper.Reset)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "package.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}
	return dir
}

func TestValidateCommand(t *testing.T) {
	dir := writeManifest(t, opalYAML)
	out, err := executeCommand(t, "validate", dir)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	want := "OpalSDK is valid: 1 product, 1 target, 1 platform\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestValidateCommand_Dangling(t *testing.T) {
	dir := writeManifest(t, strings.Replace(opalYAML, "targets: [OpalSDK]", "targets: [OpalSDK, Missing]", 1))
	_, err := executeCommand(t, "validate", dir)
	if !errors.Is(err, manifest.ErrDanglingTargetReference) {
		t.Fatalf("error = %v, want ErrDanglingTargetReference", err)
	}
	if !strings.Contains(err.Error(), "Missing") {
		t.Errorf("error %q does not name the missing target", err)
	}
}

func TestValidateCommand_Malformed(t *testing.T) {
	dir := writeManifest(t, "products: []\ntargets: []\n")
	out, err := executeCommand(t, "validate", dir)
	if !errors.Is(err, manifest.ErrMalformedManifest) {
		t.Fatalf("error = %v, want ErrMalformedManifest", err)
	}
	if !strings.Contains(out, "is malformed") {
		t.Errorf("output %q does not list issues", out)
	}
}

func TestResolveCommand_Text(t *testing.T) {
	dir := writeManifest(t, opalYAML)
	out, err := executeCommand(t, "resolve", dir, "--platform", "ios@14.0")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := "  OpalSDK (library) for iOS@14.0\n" +
		"  └── binary: OpalSDK -> OpalSDK.xcframework (local)\n"
	if out != want {
		t.Errorf("output:\n%s\nwant:\n%s", out, want)
	}
}

func TestResolveCommand_BelowMinimum(t *testing.T) {
	dir := writeManifest(t, opalYAML)
	_, err := executeCommand(t, "resolve", dir, "OpalSDK", "--platform", "ios@12.0")
	var pe *manifest.PlatformUnsupportedError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *PlatformUnsupportedError", err)
	}
	if pe.Minimum.String() != "13.0" {
		t.Errorf("Minimum = %s, want 13.0", pe.Minimum)
	}
}

func TestResolveCommand_UnknownProduct(t *testing.T) {
	dir := writeManifest(t, opalYAML)
	_, err := executeCommand(t, "resolve", dir, "NoSuchProduct", "--platform", "ios@14")
	if !errors.Is(err, manifest.ErrUnknownProduct) {
		t.Fatalf("error = %v, want ErrUnknownProduct", err)
	}
}

func TestResolveCommand_JSON(t *testing.T) {
	dir := writeManifest(t, lumenYAML)
	out, err := executeCommand(t, "resolve", dir, "LumenCore", "-p", "ios@16", "-o", "json")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	var plan struct {
		Product string `json:"product"`
		Targets []struct {
			Name     string `json:"name"`
			Kind     string `json:"kind"`
			Location string `json:"location"`
		} `json:"targets"`
	}
	if err := json.Unmarshal([]byte(out), &plan); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if plan.Product != "LumenCore" || len(plan.Targets) != 2 {
		t.Fatalf("plan = %+v", plan)
	}
	if plan.Targets[0].Kind != "binary" || plan.Targets[0].Location != "remote" {
		t.Errorf("Targets[0] = %+v, want remote binary", plan.Targets[0])
	}
}

func TestResolveCommand_All(t *testing.T) {
	dir := writeManifest(t, lumenYAML)
	out, err := executeCommand(t, "resolve", dir, "--all", "--platform", "ios@16", "--output", "json")
	if err != nil {
		t.Fatalf("resolve --all: %v", err)
	}
	var plans []map[string]any
	if err := json.Unmarshal([]byte(out), &plans); err != nil {
		t.Fatalf("output is not a JSON list: %v\n%s", err, out)
	}
	if len(plans) != 2 {
		t.Errorf("got %d plans, want 2", len(plans))
	}
}

func TestResolveCommand_ProductRequired(t *testing.T) {
	dir := writeManifest(t, lumenYAML)
	_, err := executeCommand(t, "resolve", dir, "--platform", "ios@16")
	if err == nil || !strings.Contains(err.Error(), "2 products") {
		t.Fatalf("error = %v, want a request to name a product", err)
	}
}

func TestResolveCommand_PlatformFromConfig(t *testing.T) {
	dir := writeManifest(t, opalYAML)
	t.Setenv("PKGPLAN_DEFAULT_PLATFORM", "ios@12")
	_, err := executeCommand(t, "resolve", dir)
	if !errors.Is(err, manifest.ErrPlatformUnsupported) {
		t.Fatalf("error = %v, want ErrPlatformUnsupported from the configured platform", err)
	}
}

func TestResolveCommand_NoPlatform(t *testing.T) {
	dir := writeManifest(t, opalYAML)
	t.Setenv("PKGPLAN_DEFAULT_PLATFORM", "")
	_, err := executeCommand(t, "resolve", dir)
	if err == nil || !strings.Contains(err.Error(), "no platform given") {
		t.Fatalf("error = %v, want missing platform error", err)
	}
}

func TestProductsCommand(t *testing.T) {
	dir := writeManifest(t, lumenYAML)
	out, err := executeCommand(t, "products", dir)
	if err != nil {
		t.Fatalf("products: %v", err)
	}
	for _, want := range []string{"NAME", "LumenCore", "LumenCore, LumenShims", "lumen-cli", "executable"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestProductsCommand_JSON(t *testing.T) {
	dir := writeManifest(t, opalYAML)
	out, err := executeCommand(t, "products", dir, "--json")
	if err != nil {
		t.Fatalf("products --json: %v", err)
	}
	var entries []productEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(entries) != 1 || !entries[0].Binary || entries[0].Kind != "library" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestConfigCommands(t *testing.T) {
	home := t.TempDir()
	t.Setenv("PKGPLAN_HOME", home)
	viper.Reset()
	resetFlags()
	t.Cleanup(viper.Reset)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)

	rootCmd.SetArgs([]string{"config", "set", "default_platform", "macos@13"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("config set: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, "config.yaml")); err != nil {
		t.Errorf("config file not written: %v", err)
	}

	out.Reset()
	rootCmd.SetArgs([]string{"config", "get", "default_platform"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("config get: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "macos@13" {
		t.Errorf("config get = %q, want %q", got, "macos@13")
	}

	rootCmd.SetArgs([]string{"config", "set", "colour", "blue"})
	if err := rootCmd.Execute(); err == nil {
		t.Error("config set accepted an unknown key")
	}

	rootCmd.SetArgs([]string{"config", "set", "output", "xml"})
	if err := rootCmd.Execute(); err == nil {
		t.Error("config set accepted an unknown output format")
	}
}

func TestVersionCommand(t *testing.T) {
	buildVersion, buildCommit, buildDate = "1.2.3", "abc123", "2026-01-01"
	t.Cleanup(func() { buildVersion, buildCommit, buildDate = "", "", "" })

	out, err := executeCommand(t, "version", "--short")
	if err != nil {
		t.Fatalf("version --short: %v", err)
	}
	if out != "1.2.3\n" {
		t.Errorf("version --short = %q", out)
	}

	out, err = executeCommand(t, "version", "--json")
	if err != nil {
		t.Fatalf("version --json: %v", err)
	}
	var info map[string]string
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("version --json output: %v", err)
	}
	if info["commit"] != "abc123" {
		t.Errorf("commit = %q", info["commit"])
	}
}

func TestPlural(t *testing.T) {
	if got := plural(1, "target"); got != "1 target" {
		t.Errorf("plural(1) = %q", got)
	}
	if got := plural(0, "product"); got != "0 products" {
		t.Errorf("plural(0) = %q", got)
	}
}
