//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir    string // PKGPLAN_HOME, holds config.yaml
	ProjectDir string // a mock package checkout
}

// setupTestEnv creates isolated temp directories and points PKGPLAN_HOME at
// one of them. The env var is restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:    t.TempDir(),
		ProjectDir: t.TempDir(),
	}
	t.Setenv("PKGPLAN_HOME", env.HomeDir)
	return env
}

// setupPackage writes a package with a binary SDK, a source shim target and
// a command-line executable into dir.
func setupPackage(t *testing.T, dir string) string {
	t.Helper()

	writeFile(t, filepath.Join(dir, "package.yaml"), `name: Lumen
tools_version: "5.9"
platforms:
  - kind: ios
    minimum_version: 15
  - kind: macOS
    minimum_version: v12.3
products:
  - name: LumenCore
    targets: [LumenCore, LumenShims]
  - name: lumen-cli
    kind: executable
    targets: [LumenCLI]
targets:
  - name: LumenCore
    artifact_path: https://downloads.example.com/LumenCore-2.1.0.xcframework.zip
    artifact_checksum: 9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08
  - name: LumenShims
    path: Sources/Shims
  - name: LumenCLI
`)
	writeFile(t, filepath.Join(dir, "Sources", "Shims", "shim.c"), "int lumen_shim(void) { return 0; }\n")
	return dir
}

// writeFile creates a file with the given content, creating parent dirs.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if path does not exist as a file.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected file %s to exist: %v", path, err)
	}
	if info.IsDir() {
		t.Fatalf("expected %s to be a file, got directory", path)
	}
}
