package project

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// isGitSpec reports whether a dependency spec names a git source,
// in the form git+URL or git+URL#ref.
func isGitSpec(spec string) bool {
	return strings.HasPrefix(spec, "git+")
}

// splitGitSpec splits "git+URL#ref" into the clone URL and the ref.
// A missing ref means HEAD.
func splitGitSpec(spec string) (url, ref string) {
	rest := strings.TrimPrefix(spec, "git+")
	if idx := strings.LastIndex(rest, "#"); idx >= 0 {
		return rest[:idx], rest[idx+1:]
	}
	return rest, ""
}

// fetchGit materializes a git dependency under modulesDir/name: clone,
// resolve the ref to a commit, check it out, strip the .git directory, and
// checksum the resulting tree. An existing checkout is reused as-is.
func fetchGit(modulesDir, name, spec string) (*LockedDependency, error) {
	url, ref := splitGitSpec(spec)
	target := filepath.Join(modulesDir, name)

	if _, err := os.Stat(target); err == nil {
		checksum, err := dirChecksum(target)
		if err != nil {
			return nil, err
		}
		return &LockedDependency{
			Version:  refOrDefault(ref),
			Source:   spec,
			Checksum: checksum,
		}, nil
	}

	tmpDir, err := os.MkdirTemp(modulesDir, ".fetch-*")
	if err != nil {
		return nil, err
	}
	// PlainClone wants a path it creates itself.
	if err := os.RemoveAll(tmpDir); err != nil {
		return nil, err
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{URL: url})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("git clone %s: %w", url, err)
	}

	hash, err := resolveRef(repo, ref)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("git checkout %s: %w", ref, err)
	}

	// Installed modules are plain source trees, not repositories.
	if err := os.RemoveAll(filepath.Join(tmpDir, ".git")); err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, err
	}
	if err := os.Rename(tmpDir, target); err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, err
	}

	checksum, err := dirChecksum(target)
	if err != nil {
		return nil, err
	}
	return &LockedDependency{
		Version:  pinnedVersion(ref, hash.String()),
		Source:   fmt.Sprintf("git+%s@%s", url, hash),
		Checksum: checksum,
	}, nil
}

// resolveRef resolves ref against the repository, trying it first verbatim,
// then as a tag, then as a branch. An empty ref resolves HEAD.
func resolveRef(repo *git.Repository, ref string) (*plumbing.Hash, error) {
	if ref == "" {
		return repo.ResolveRevision(plumbing.Revision("HEAD"))
	}
	candidates := []plumbing.Revision{
		plumbing.Revision(ref),
		plumbing.Revision("refs/tags/" + ref),
		plumbing.Revision("refs/heads/" + ref),
	}
	var lastErr error
	for _, rev := range candidates {
		hash, err := repo.ResolveRevision(rev)
		if err == nil {
			return hash, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("resolve ref %s: %w", ref, lastErr)
}

func refOrDefault(ref string) string {
	if ref == "" {
		return "HEAD"
	}
	return ref
}

func pinnedVersion(ref, commit string) string {
	if ref == "" || ref == commit {
		return commit
	}
	return fmt.Sprintf("%s@%s", ref, commit)
}

// dirChecksum hashes every regular file in the tree, keyed by its relative
// path, so two checkouts with identical content always agree.
func dirChecksum(root string) (string, error) {
	h := sha256.New()
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		h.Write([]byte(filepath.ToSlash(rel)))
		h.Write(data)
		return nil
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
