package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func setupHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("PKGPLAN_HOME", dir)
	viper.Reset()
	t.Cleanup(viper.Reset)
	return dir
}

func TestDir_EnvOverride(t *testing.T) {
	dir := setupHome(t)
	if Dir() != dir {
		t.Errorf("Dir() = %q, want %q", Dir(), dir)
	}
	if FilePath() != filepath.Join(dir, "config.yaml") {
		t.Errorf("FilePath() = %q", FilePath())
	}
}

func TestLoad_Defaults(t *testing.T) {
	setupHome(t)
	Load()
	if Output() != "text" {
		t.Errorf("Output() = %q, want %q", Output(), "text")
	}
	if LogLevel() != "warn" {
		t.Errorf("LogLevel() = %q, want %q", LogLevel(), "warn")
	}
	if DefaultPlatform() != "" {
		t.Errorf("DefaultPlatform() = %q, want empty", DefaultPlatform())
	}
}

func TestSet_PersistsAndReloads(t *testing.T) {
	dir := setupHome(t)
	Load()
	if err := Set(KeyDefaultPlatform, "ios@15.0"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("reading config file: %v", err)
	}
	if !strings.Contains(string(data), "ios@15.0") {
		t.Errorf("config file does not contain the value:\n%s", data)
	}

	viper.Reset()
	Load()
	if DefaultPlatform() != "ios@15.0" {
		t.Errorf("DefaultPlatform() after reload = %q, want %q", DefaultPlatform(), "ios@15.0")
	}
}

func TestSet_UnknownKey(t *testing.T) {
	setupHome(t)
	Load()
	if err := Set("mirror_url", "x"); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	setupHome(t)
	t.Setenv("PKGPLAN_OUTPUT", "json")
	Load()
	if Output() != "json" {
		t.Errorf("Output() = %q, want %q", Output(), "json")
	}
}

func TestSet_RejectsInvalidValues(t *testing.T) {
	dir := setupHome(t)
	Load()

	tests := []struct {
		key   string
		value string
	}{
		{KeyOutput, "xml"},
		{KeyDefaultPlatform, "foo"},
		{KeyDefaultPlatform, "ios@latest"},
		{KeyLogLevel, "chatty"},
	}
	for _, tt := range tests {
		if err := Set(tt.key, tt.value); err == nil {
			t.Errorf("Set(%s, %q) succeeded, want error", tt.key, tt.value)
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); !os.IsNotExist(err) {
		t.Errorf("config file written for rejected values: %v", err)
	}
	if Output() != "text" {
		t.Errorf("Output() = %q after rejected set, want %q", Output(), "text")
	}
}

func TestSet_WritesOnlyFileValues(t *testing.T) {
	dir := setupHome(t)
	t.Setenv("PKGPLAN_LOG_LEVEL", "debug")
	Load()

	if err := Set(KeyOutput, "json"); err != nil {
		t.Fatalf("Set output: %v", err)
	}
	if err := Set(KeyDefaultPlatform, "macos@13"); err != nil {
		t.Fatalf("Set default_platform: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("reading config file: %v", err)
	}
	content := string(data)
	for _, want := range []string{"output: json", "default_platform: macos@13"} {
		if !strings.Contains(content, want) {
			t.Errorf("config file missing %q:\n%s", want, content)
		}
	}
	if strings.Contains(content, "log_level") {
		t.Errorf("environment value leaked into config file:\n%s", content)
	}
	if Output() != "json" {
		t.Errorf("Output() = %q, want %q", Output(), "json")
	}
}
