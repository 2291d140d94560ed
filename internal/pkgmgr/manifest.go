package pkgmgr

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// ManifestName is the package manifest filename.
const ManifestName = "trif.yaml"

// Manifest describes a package.
type Manifest struct {
	Name         string            `yaml:"name"`
	Version      string            `yaml:"version"`
	Description  string            `yaml:"description,omitempty"`
	Entry        string            `yaml:"entry"`
	Dependencies map[string]string `yaml:"dependencies,omitempty"`
}

// LoadManifest reads and decodes the manifest in dir.
func LoadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, err
	}
	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ManifestName, err)
	}
	if manifest.Name == "" || manifest.Version == "" {
		return nil, fmt.Errorf("%s: name and version are required", ManifestName)
	}
	return &manifest, nil
}

// Save writes the manifest into dir.
func (m *Manifest) Save(dir string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, ManifestName), data, 0o644)
}
