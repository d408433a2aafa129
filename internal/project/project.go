// Package project implements manifest handling, dependency installation,
// script running, and module path resolution for zephyr projects.
package project

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Init creates a package.json in dir, named after the directory.
// It fails if one already exists.
func Init(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestName)
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%s already exists", ManifestName)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	m := Default(filepath.Base(abs))
	if err := m.Save(dir); err != nil {
		return nil, err
	}
	slog.Info("created manifest", "name", m.Name, "path", path)
	return m, nil
}

// Install adds pkg to the manifest's dependencies (when non-empty) and
// materializes every dependency under zephyr_modules/. Dependencies with a
// git+URL#ref spec are cloned and pinned; anything else is assumed to be
// provided out of band and only recorded in the manifest.
//
// pkg may carry its own spec as name@spec; a bare name defaults to ^1.0.0.
func Install(dir, pkg string) error {
	m, err := Load(dir)
	if err != nil {
		m = Default(filepath.Base(dir))
	}
	if m.Dependencies == nil {
		m.Dependencies = map[string]string{}
	}

	if pkg != "" {
		name, spec := splitPackageArg(pkg)
		m.Dependencies[name] = spec
		slog.Info("added dependency", "name", name, "spec", spec)
	}

	modulesDir := filepath.Join(dir, ModulesDir)
	if err := os.MkdirAll(modulesDir, 0o755); err != nil {
		return err
	}

	lock := loadLockfile(dir)
	for name, spec := range m.Dependencies {
		if !isGitSpec(spec) {
			continue
		}
		slog.Info("installing dependency", "name", name, "spec", spec)
		locked, err := fetchGit(modulesDir, name, spec)
		if err != nil {
			return fmt.Errorf("install %s: %w", name, err)
		}
		lock.Dependencies[name] = *locked
		slog.Info("installed dependency", "name", name, "version", locked.Version, "checksum", locked.Checksum[:12])
	}

	if err := lock.save(dir); err != nil {
		return err
	}
	return m.Save(dir)
}

// splitPackageArg splits a name@spec install argument. The separator is the
// last '@' that is not part of a git+ URL.
func splitPackageArg(pkg string) (name, spec string) {
	if idx := strings.Index(pkg, "@git+"); idx > 0 {
		return pkg[:idx], pkg[idx+1:]
	}
	if idx := strings.LastIndex(pkg, "@"); idx > 0 {
		return pkg[:idx], pkg[idx+1:]
	}
	return pkg, "^1.0.0"
}

// RunScript executes the named manifest script through the shell, with the
// project directory as working directory.
func RunScript(dir, name string, stdout, stderr io.Writer) error {
	m, err := Load(dir)
	if err != nil {
		return err
	}
	command, ok := m.Scripts[name]
	if !ok {
		return fmt.Errorf("script '%s' not found in %s", name, ManifestName)
	}
	slog.Info("running script", "name", name, "command", command)
	cmd := exec.Command("sh", "-c", command)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.Stdin = os.Stdin
	return cmd.Run()
}
