package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/opalkit/pkgplan/internal/manifest"
)

// DefaultMaxBytes caps manifest size. Real manifests are a few hundred bytes.
const DefaultMaxBytes int64 = 1 << 20

// ManifestNames is the lookup order used when a directory is given.
var ManifestNames = []string{"package.yaml", "package.yml", "package.json"}

// ErrNotFound is returned when a directory holds none of ManifestNames.
var ErrNotFound = errors.New("manifest not found")

// Loader fetches raw manifest bytes.
type Loader interface {
	Load(path string) ([]byte, error)
}

// FileLoader loads manifests from the local filesystem.
type FileLoader struct {
	MaxBytes int64
}

// NewFileLoader returns a FileLoader with DefaultMaxBytes.
func NewFileLoader() *FileLoader {
	return &FileLoader{MaxBytes: DefaultMaxBytes}
}

// SizeLimitError is returned when a manifest exceeds the loader's cap.
type SizeLimitError struct {
	Path  string
	Limit int64
}

func (e *SizeLimitError) Error() string {
	return fmt.Sprintf("manifest %s exceeds %d bytes", e.Path, e.Limit)
}

// Locate returns the manifest file for path. A file path is returned as is;
// for a directory the first existing entry of ManifestNames is used.
func (l *FileLoader) Locate(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if !info.IsDir() {
		return path, nil
	}
	for _, name := range ManifestNames {
		p := filepath.Join(path, name)
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("no manifest in %s: %w", path, ErrNotFound)
}

// Load reads the manifest at path, which may be a file or a directory.
func (l *FileLoader) Load(path string) ([]byte, error) {
	file, err := l.Locate(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", file, err)
	}
	defer f.Close()

	limit := l.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}
	if int64(len(data)) > limit {
		return nil, &SizeLimitError{Path: file, Limit: limit}
	}
	return data, nil
}

// Open loads and parses the manifest at path. The result is not validated.
func Open(l Loader, path string) (*manifest.PackageManifest, error) {
	data, err := l.Load(path)
	if err != nil {
		return nil, err
	}
	return manifest.Parse(data, path)
}

// OpenValid loads, parses and validates the manifest at path.
func OpenValid(l Loader, path string) (*manifest.ValidManifest, error) {
	m, err := Open(l, path)
	if err != nil {
		return nil, err
	}
	return manifest.Validate(m)
}
