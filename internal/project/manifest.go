package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// ManifestName is the project descriptor file.
	ManifestName = "package.json"
	// ModulesDir is where installed dependencies live.
	ModulesDir = "zephyr_modules"
	// LockName records pinned versions and checksums of installed dependencies.
	LockName = "zephyr-lock.json"
)

// Manifest describes a project: its entry point, scripts, and dependencies.
type Manifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Description     string            `json:"description,omitempty"`
	Main            string            `json:"main,omitempty"`
	Author          string            `json:"author,omitempty"`
	License         string            `json:"license,omitempty"`
	Scripts         map[string]string `json:"scripts,omitempty"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
}

// Default returns a fresh manifest for a project named name.
func Default(name string) *Manifest {
	return &Manifest{
		Name:    name,
		Version: "1.0.0",
		Main:    "index.zp",
		Scripts: map[string]string{
			"start": "zephyr run index.zp",
		},
		Dependencies: map[string]string{},
	}
}

// Load reads the manifest from dir.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ManifestName, err)
	}
	return &m, nil
}

// Save writes the manifest to dir with stable two-space indentation.
func (m *Manifest) Save(dir string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(filepath.Join(dir, ManifestName), data, 0o644)
}

// Lockfile pins the source and checksum of every installed dependency.
type Lockfile struct {
	Dependencies map[string]LockedDependency `json:"dependencies"`
}

// LockedDependency records how a dependency was materialized on disk.
type LockedDependency struct {
	Version  string `json:"version"`
	Source   string `json:"source"`
	Checksum string `json:"checksum"`
}

func loadLockfile(dir string) *Lockfile {
	lock := &Lockfile{Dependencies: map[string]LockedDependency{}}
	data, err := os.ReadFile(filepath.Join(dir, LockName))
	if err != nil {
		return lock
	}
	if err := json.Unmarshal(data, lock); err != nil {
		return &Lockfile{Dependencies: map[string]LockedDependency{}}
	}
	if lock.Dependencies == nil {
		lock.Dependencies = map[string]LockedDependency{}
	}
	return lock
}

func (l *Lockfile) save(dir string) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(filepath.Join(dir, LockName), data, 0o644)
}
