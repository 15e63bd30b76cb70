package stubs

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Checkout is one materialised stub distribution in the cache.
type Checkout struct {
	Dir      string
	Version  string
	Commit   string
	Checksum string
}

// Fetcher materialises manifest-pinned stub sources under a cache directory.
type Fetcher struct {
	cacheDir string
}

func NewFetcher(cacheDir string) *Fetcher {
	if cacheDir == "" {
		return nil
	}
	return &Fetcher{cacheDir: cacheDir}
}

// Fetch ensures the manifest's pinned revision exists in the cache and
// returns its checkout. An exact-rev checkout already present in the cache is
// reused without touching the network. When the manifest records a checksum,
// the checkout must match it.
func (f *Fetcher) Fetch(m *Manifest) (*Checkout, error) {
	if f == nil {
		return nil, errors.New("stubs: fetcher unavailable")
	}
	if m == nil {
		return nil, errors.New("stubs: nil manifest")
	}
	url := strings.TrimSpace(m.Source.Git)
	if url == "" {
		return nil, fmt.Errorf("stubs: source %q: git URL required", m.Source.Name)
	}

	baseDir := filepath.Join(f.cacheDir, "stubs", sanitizeSegment(m.Source.Name))
	version, commit, err := f.ensureCheckout(baseDir, url, m.Source)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(baseDir, pathSegment(version))
	checksum, err := dirChecksum(dir)
	if err != nil {
		return nil, fmt.Errorf("stubs: checksum %s: %w", dir, err)
	}
	if m.Checksum != "" && m.Checksum != checksum {
		return nil, fmt.Errorf("stubs: %s: checksum mismatch: manifest %s, cache %s", m.Source.Name, m.Checksum, checksum)
	}

	return &Checkout{Dir: dir, Version: version, Commit: commit, Checksum: checksum}, nil
}

func (f *Fetcher) ensureCheckout(baseDir, url string, src Source) (string, string, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", "", err
	}

	revision, descriptor, err := revisionFor(src)
	if err != nil {
		return "", "", err
	}

	explicitRev := strings.TrimSpace(src.Rev)
	if explicitRev != "" {
		existing := filepath.Join(baseDir, pathSegment(explicitRev))
		if _, err := os.Stat(existing); err == nil {
			return explicitRev, explicitRev, nil
		}
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return "", "", err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", "", err
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{
		URL:   url,
		Depth: 0,
	})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("stubs: git clone %s: %w", url, err)
	}

	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("stubs: resolve revision %s: %w", revision, err)
	}

	version := pinnedVersion(descriptor, hash.String())
	targetDir := filepath.Join(baseDir, pathSegment(version))
	if _, err := os.Stat(targetDir); err == nil {
		_ = os.RemoveAll(tmpDir)
		return version, hash.String(), nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{
		Hash:  *hash,
		Force: true,
	}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("stubs: git checkout %s: %w", revision, err)
	}

	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}
	return version, hash.String(), nil
}

// revisionFor maps the manifest pin to a git revision: rev wins over tag,
// tag over branch.
func revisionFor(src Source) (plumbing.Revision, string, error) {
	if rev := strings.TrimSpace(src.Rev); rev != "" {
		return plumbing.Revision(rev), rev, nil
	}
	if tag := strings.TrimSpace(src.Tag); tag != "" {
		return plumbing.Revision("refs/tags/" + tag), tag, nil
	}
	if branch := strings.TrimSpace(src.Branch); branch != "" {
		return plumbing.Revision("refs/heads/" + branch), branch, nil
	}
	return "", "", fmt.Errorf("stubs: source pin requires rev, tag, or branch")
}

func pinnedVersion(descriptor, commit string) string {
	commit = strings.TrimSpace(commit)
	descriptor = strings.TrimSpace(descriptor)
	if commit == "" {
		return descriptor
	}
	if descriptor == "" || descriptor == commit {
		return commit
	}
	return fmt.Sprintf("%s@%s", descriptor, commit)
}

func pathSegment(segment string) string {
	s := sanitizeSegment(segment)
	if s == "" {
		return "head"
	}
	return s
}

// dirChecksum hashes every file's name and content under path.
func dirChecksum(path string) (string, error) {
	h := sha256.New()
	err := filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		h.Write([]byte(filepath.Base(p)))
		h.Write(data)
		return nil
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
