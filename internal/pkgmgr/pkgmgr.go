// Package pkgmgr is a local filesystem package manager. Published packages
// live in a registry directory, installed packages in a separate install
// root, both laid out as <root>/<name>/<version>/.
package pkgmgr

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/xyproto/env/v2"
)

const sampleProgram = `// main.trif
fn main() {
    print("Hello from package")
}
`

// Manager publishes, installs, and queries packages.
type Manager struct {
	registryRoot string
	installRoot  string
	log          *slog.Logger
}

// New returns a manager using the default roots, overridable through the
// TRIF_REGISTRY and TRIF_PACKAGES environment variables.
func New(log *slog.Logger) *Manager {
	registry := env.ExpandUser(env.Str("TRIF_REGISTRY", "~/.trif/registry"))
	packages := env.ExpandUser(env.Str("TRIF_PACKAGES", "~/.trif/packages"))
	return NewAt(registry, packages, log)
}

// NewAt returns a manager with explicit roots.
func NewAt(registryRoot, installRoot string, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{registryRoot: registryRoot, installRoot: installRoot, log: log}
}

// Init scaffolds a new package at path: a manifest named after the
// directory and a sample entry module.
func (m *Manager) Init(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return err
	}
	manifest := &Manifest{
		Name:        filepath.Base(abs),
		Version:     "0.1.0",
		Description: "A new Trif package",
		Entry:       "main.trif",
	}
	if err := manifest.Save(abs); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(abs, "main.trif"), []byte(sampleProgram), 0o644); err != nil {
		return err
	}
	m.log.Info("initialised package", "path", abs, "name", manifest.Name)
	return nil
}

// Publish copies the package's source modules and manifest into the
// registry under its name and version.
func (m *Manager) Publish(path string) (*Manifest, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	manifest, err := LoadManifest(abs)
	if err != nil {
		return nil, err
	}
	dest := filepath.Join(m.registryRoot, manifest.Name, manifest.Version)
	if err := copyPackage(abs, dest); err != nil {
		return nil, err
	}
	m.log.Info("published package", "name", manifest.Name, "version", manifest.Version)
	return manifest, nil
}

// Install copies a published package into the install root. The spec is
// either "name" (latest version) or "name@version".
func (m *Manager) Install(spec string) (*Manifest, error) {
	name, version, _ := strings.Cut(spec, "@")
	if version == "" {
		latest, err := m.latestVersion(name)
		if err != nil {
			return nil, err
		}
		version = latest
	}
	source := filepath.Join(m.registryRoot, name, version)
	manifest, err := LoadManifest(source)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("package %s@%s not found in registry", name, version)
		}
		return nil, err
	}
	dest := filepath.Join(m.installRoot, name, version)
	if err := copyPackage(source, dest); err != nil {
		return nil, err
	}
	m.log.Info("installed package", "name", name, "version", version)
	return manifest, nil
}

// ListInstalled returns installed package names mapped to their versions,
// both sorted.
func (m *Manager) ListInstalled() (map[string][]string, error) {
	packages := map[string][]string{}
	entries, err := os.ReadDir(m.installRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return packages, nil
		}
		return nil, err
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		versions, err := m.versionsUnder(filepath.Join(m.installRoot, entry.Name()))
		if err != nil {
			return nil, err
		}
		packages[entry.Name()] = versions
	}
	return packages, nil
}

// SearchResult is one registry package matched by a query.
type SearchResult struct {
	Name    string
	Version string
}

// Search fuzzy-matches query against registry package names, best match
// first. An empty query lists the whole registry alphabetically. Each
// result carries the package's latest version.
func (m *Manager) Search(query string) ([]SearchResult, error) {
	entries, err := os.ReadDir(m.registryRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	if query != "" {
		matches := fuzzy.Find(query, names)
		matched := make([]string, len(matches))
		for i, match := range matches {
			matched[i] = match.Str
		}
		names = matched
	}

	results := make([]SearchResult, 0, len(names))
	for _, name := range names {
		version, err := m.latestVersion(name)
		if err != nil {
			continue
		}
		results = append(results, SearchResult{Name: name, Version: version})
	}
	return results, nil
}

func (m *Manager) latestVersion(name string) (string, error) {
	versions, err := m.versionsUnder(filepath.Join(m.registryRoot, name))
	if err != nil || len(versions) == 0 {
		return "", fmt.Errorf("no versions available for %s", name)
	}
	return versions[len(versions)-1], nil
}

func (m *Manager) versionsUnder(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var versions []string
	for _, entry := range entries {
		if entry.IsDir() {
			versions = append(versions, entry.Name())
		}
	}
	sort.Strings(versions)
	return versions, nil
}

// copyPackage copies the manifest and every .trif module from src into dst.
func copyPackage(src, dst string) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if name != ManifestName && !strings.HasSuffix(name, ".trif") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(src, name))
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dst, name), data, 0o644); err != nil {
			return err
		}
	}
	return nil
}
