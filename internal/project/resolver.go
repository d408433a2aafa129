package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolutionKind says how a module spec resolved.
type ResolutionKind int

const (
	// KindBuiltin marks a module the runtime provides itself.
	KindBuiltin ResolutionKind = iota
	// KindFile marks a module backed by a source file on disk.
	KindFile
)

// Resolution is the result of resolving a require() spec.
type Resolution struct {
	Kind ResolutionKind
	// Path is the source file to evaluate, set for KindFile.
	Path string
}

var builtinNames = map[string]bool{
	"console": true,
	"fs":      true,
	"http":    true,
	"path":    true,
	"env":     true,
}

// ResolveModule resolves spec relative to the project directory. Builtin
// names resolve to the runtime's own modules; everything else is searched
// under zephyr_modules/ and then as a file path relative to dir.
func ResolveModule(dir, spec string) (Resolution, error) {
	if builtinNames[spec] {
		return Resolution{Kind: KindBuiltin}, nil
	}

	for _, candidate := range moduleCandidates(dir, spec) {
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		return Resolution{Kind: KindFile, Path: candidate}, nil
	}
	return Resolution{}, fmt.Errorf("module not found: '%s'", spec)
}

// moduleCandidates lists the file paths tried for a non-builtin spec,
// in resolution order.
func moduleCandidates(dir, spec string) []string {
	var candidates []string

	pkgDir := filepath.Join(dir, ModulesDir, spec)
	if m, err := Load(pkgDir); err == nil && m.Main != "" {
		candidates = append(candidates, filepath.Join(pkgDir, m.Main))
	}
	candidates = append(candidates,
		filepath.Join(pkgDir, "index.zp"),
		filepath.Join(dir, ModulesDir, spec+".zp"),
	)

	if strings.HasSuffix(spec, ".zp") {
		candidates = append(candidates, filepath.Join(dir, spec))
	} else {
		candidates = append(candidates, filepath.Join(dir, spec+".zp"))
	}
	return candidates
}
