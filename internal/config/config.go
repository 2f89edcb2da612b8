package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/opalkit/pkgplan/internal/branding"
	"github.com/opalkit/pkgplan/internal/manifest"
	"github.com/opalkit/pkgplan/internal/resolve"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Known configuration keys.
const (
	KeyDefaultPlatform = "default_platform"
	KeyOutput          = "output"
	KeyLogLevel        = "log_level"
)

// Keys lists every key accepted by Set.
var Keys = []string{KeyDefaultPlatform, KeyOutput, KeyLogLevel}

// Dir returns the config directory: $PKGPLAN_HOME when set, else ~/.pkgplan/.
func Dir() string {
	if dir := os.Getenv(branding.EnvVar("home")); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyOutput, "text")
	viper.SetDefault(KeyLogLevel, "warn")

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// DefaultPlatform returns the platform used when --platform is not given.
func DefaultPlatform() string { return Get(KeyDefaultPlatform) }

// Output returns the default output format.
func Output() string { return Get(KeyOutput) }

// LogLevel returns the configured log level.
func LogLevel() string { return Get(KeyLogLevel) }

// Set checks value for key, writes it to the config file and applies it to
// the loaded configuration. Only values already in the file and the new one
// are written; defaults and environment overrides stay out of the file.
func Set(key, value string) error {
	check, ok := checks[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (known keys: %v)", key, Keys)
	}
	if err := check(value); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	configFile := FilePath()

	file := viper.New()
	file.SetConfigFile(configFile)
	file.SetConfigType(fileType)
	if _, err := os.Stat(configFile); err == nil {
		if err := file.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}
	file.Set(key, value)

	if err := file.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	viper.Set(key, value)
	return nil
}

// checks validates a value per key before it is stored.
var checks = map[string]func(string) error{
	KeyDefaultPlatform: func(v string) error {
		_, err := manifest.ParsePlatform(v)
		return err
	},
	KeyOutput: func(v string) error {
		_, err := resolve.ParseFormat(v)
		return err
	},
	KeyLogLevel: func(v string) error {
		if !slices.Contains(logLevels, strings.ToLower(strings.TrimSpace(v))) {
			return fmt.Errorf("unknown log level %q (want one of %v)", v, logLevels)
		}
		return nil
	},
}

var logLevels = []string{"debug", "info", "warn", "warning", "error"}
