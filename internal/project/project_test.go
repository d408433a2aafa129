package project

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m := Default("demo")
	m.Description = "a test project"
	m.Dependencies["util"] = "^1.0.0"

	if err := m.Save(dir); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Name != "demo" || loaded.Version != "1.0.0" {
		t.Errorf("unexpected manifest: %+v", loaded)
	}
	if loaded.Dependencies["util"] != "^1.0.0" {
		t.Errorf("dependency not preserved: %+v", loaded.Dependencies)
	}
	if loaded.Scripts["start"] != "zephyr run index.zp" {
		t.Errorf("scripts not preserved: %+v", loaded.Scripts)
	}
}

func TestLoadMissingManifest(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("expected error for missing manifest")
	}
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	m, err := Init(dir)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if m.Name != filepath.Base(dir) {
		t.Errorf("expected project named after directory, got %q", m.Name)
	}
	if _, err := os.Stat(filepath.Join(dir, ManifestName)); err != nil {
		t.Errorf("manifest not written: %v", err)
	}

	if _, err := Init(dir); err == nil {
		t.Error("expected error re-initializing an existing project")
	}
}

func TestInstallAddsDependency(t *testing.T) {
	dir := t.TempDir()
	if _, err := Init(dir); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := Install(dir, "leftpad"); err != nil {
		t.Fatalf("install: %v", err)
	}

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if m.Dependencies["leftpad"] != "^1.0.0" {
		t.Errorf("expected default spec ^1.0.0, got %q", m.Dependencies["leftpad"])
	}
	info, err := os.Stat(filepath.Join(dir, ModulesDir))
	if err != nil || !info.IsDir() {
		t.Errorf("expected %s directory to exist", ModulesDir)
	}
}

func TestInstallWithExplicitSpec(t *testing.T) {
	dir := t.TempDir()
	if _, err := Init(dir); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := Install(dir, "util@^2.1.0"); err != nil {
		t.Fatalf("install: %v", err)
	}
	m, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if m.Dependencies["util"] != "^2.1.0" {
		t.Errorf("expected ^2.1.0, got %q", m.Dependencies["util"])
	}
}

func TestSplitPackageArg(t *testing.T) {
	tests := []struct {
		arg  string
		name string
		spec string
	}{
		{"leftpad", "leftpad", "^1.0.0"},
		{"util@^2.0.0", "util", "^2.0.0"},
		{"tools@git+https://example.com/tools.git#v1.2.0", "tools", "git+https://example.com/tools.git#v1.2.0"},
	}
	for _, tt := range tests {
		name, spec := splitPackageArg(tt.arg)
		if name != tt.name || spec != tt.spec {
			t.Errorf("splitPackageArg(%q) = (%q, %q), expected (%q, %q)",
				tt.arg, name, spec, tt.name, tt.spec)
		}
	}
}

func TestSplitGitSpec(t *testing.T) {
	url, ref := splitGitSpec("git+https://example.com/r.git#v1.0.0")
	if url != "https://example.com/r.git" || ref != "v1.0.0" {
		t.Errorf("got (%q, %q)", url, ref)
	}
	url, ref = splitGitSpec("git+https://example.com/r.git")
	if url != "https://example.com/r.git" || ref != "" {
		t.Errorf("got (%q, %q)", url, ref)
	}
}

func TestRunScript(t *testing.T) {
	dir := t.TempDir()
	m := Default("demo")
	m.Scripts["greet"] = "echo hello from script"
	if err := m.Save(dir); err != nil {
		t.Fatalf("save: %v", err)
	}

	var out, errOut bytes.Buffer
	if err := RunScript(dir, "greet", &out, &errOut); err != nil {
		t.Fatalf("run script: %v", err)
	}
	if !strings.Contains(out.String(), "hello from script") {
		t.Errorf("unexpected script output: %q", out.String())
	}
}

func TestRunScriptUnknown(t *testing.T) {
	dir := t.TempDir()
	if err := Default("demo").Save(dir); err != nil {
		t.Fatalf("save: %v", err)
	}
	var out bytes.Buffer
	err := RunScript(dir, "nope", &out, &out)
	if err == nil || !strings.Contains(err.Error(), "script 'nope' not found") {
		t.Errorf("expected unknown-script error, got %v", err)
	}
}

func TestResolveModuleBuiltin(t *testing.T) {
	for _, name := range []string{"console", "fs", "http", "path", "env"} {
		res, err := ResolveModule(t.TempDir(), name)
		if err != nil {
			t.Fatalf("resolve %s: %v", name, err)
		}
		if res.Kind != KindBuiltin {
			t.Errorf("expected %s to resolve as builtin", name)
		}
	}
}

func TestResolveModuleRelativeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "helpers.zp")
	if err := os.WriteFile(path, []byte("1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	res, err := ResolveModule(dir, "helpers")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Kind != KindFile || res.Path != path {
		t.Errorf("unexpected resolution: %+v", res)
	}

	// explicit extension also resolves
	res, err = ResolveModule(dir, "helpers.zp")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Path != path {
		t.Errorf("unexpected resolution: %+v", res)
	}
}

func TestResolveModuleInstalled(t *testing.T) {
	dir := t.TempDir()
	pkgDir := filepath.Join(dir, ModulesDir, "mathlib")
	if err := os.MkdirAll(pkgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	// index.zp fallback
	indexPath := filepath.Join(pkgDir, "index.zp")
	if err := os.WriteFile(indexPath, []byte("1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	res, err := ResolveModule(dir, "mathlib")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Path != indexPath {
		t.Errorf("expected index.zp, got %+v", res)
	}

	// a manifest main takes precedence
	m := Default("mathlib")
	m.Main = "lib.zp"
	if err := m.Save(pkgDir); err != nil {
		t.Fatalf("save: %v", err)
	}
	mainPath := filepath.Join(pkgDir, "lib.zp")
	if err := os.WriteFile(mainPath, []byte("1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	res, err = ResolveModule(dir, "mathlib")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Path != mainPath {
		t.Errorf("expected manifest main, got %+v", res)
	}
}

func TestResolveModuleMissing(t *testing.T) {
	_, err := ResolveModule(t.TempDir(), "ghost")
	if err == nil || !strings.Contains(err.Error(), "module not found: 'ghost'") {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestDirChecksumStable(t *testing.T) {
	writeTree := func(t *testing.T) string {
		t.Helper()
		dir := t.TempDir()
		if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "a.zp"), []byte("let x = 1\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "sub", "b.zp"), []byte("let y = 2\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		return dir
	}

	sum1, err := dirChecksum(writeTree(t))
	if err != nil {
		t.Fatalf("checksum: %v", err)
	}
	sum2, err := dirChecksum(writeTree(t))
	if err != nil {
		t.Fatalf("checksum: %v", err)
	}
	if sum1 != sum2 {
		t.Errorf("identical trees should checksum equal: %s vs %s", sum1, sum2)
	}

	changed := writeTree(t)
	if err := os.WriteFile(filepath.Join(changed, "a.zp"), []byte("let x = 9\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	sum3, err := dirChecksum(changed)
	if err != nil {
		t.Fatalf("checksum: %v", err)
	}
	if sum3 == sum1 {
		t.Error("modified tree should change the checksum")
	}
}
