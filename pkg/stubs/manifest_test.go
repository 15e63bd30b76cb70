package stubs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stubs.yaml")

	m := NewManifest("typeshed", "https://example.com/typeshed.git", "abc123")
	m.Checksum = "deadbeef"
	if err := WriteManifest(m, path); err != nil {
		t.Fatalf("WriteManifest error: %v", err)
	}

	loaded, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest error: %v", err)
	}
	if loaded.Source != m.Source {
		t.Fatalf("source mismatch: %+v vs %+v", loaded.Source, m.Source)
	}
	if loaded.Checksum != "deadbeef" {
		t.Fatalf("checksum mismatch: %q", loaded.Checksum)
	}
	if loaded.Fetched == "" {
		t.Fatal("expected fetched timestamp to be stamped")
	}
}

func TestManifestRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stubs.yaml")
	data := "source:\n  name: typeshed\n  git: https://example.com/t.git\n  rev: abc\nmirror: nope\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadManifest(path); err == nil {
		t.Fatal("expected unknown field to be rejected")
	}
}

func TestManifestRequiresGitURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stubs.yaml")
	if err := os.WriteFile(path, []byte("source:\n  name: typeshed\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadManifest(path); err == nil {
		t.Fatal("expected missing git URL to be rejected")
	}
}

func TestManifestDefaultsName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stubs.yaml")
	if err := os.WriteFile(path, []byte("source:\n  git: https://example.com/t.git\n  rev: abc\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest error: %v", err)
	}
	if m.Source.Name != "typeshed" {
		t.Fatalf("expected default source name, got %q", m.Source.Name)
	}
}

func TestRevisionSelection(t *testing.T) {
	rev, desc, err := revisionFor(Source{Rev: "abc", Tag: "v1", Branch: "main"})
	if err != nil || string(rev) != "abc" || desc != "abc" {
		t.Fatalf("rev should win: %q %q %v", rev, desc, err)
	}
	rev, desc, err = revisionFor(Source{Tag: "v1", Branch: "main"})
	if err != nil || string(rev) != "refs/tags/v1" || desc != "v1" {
		t.Fatalf("tag should win over branch: %q %q %v", rev, desc, err)
	}
	rev, desc, err = revisionFor(Source{Branch: "main"})
	if err != nil || string(rev) != "refs/heads/main" || desc != "main" {
		t.Fatalf("branch fallback: %q %q %v", rev, desc, err)
	}
	if _, _, err = revisionFor(Source{}); err == nil {
		t.Fatal("expected unpinned source to be rejected")
	}
}

func TestPinnedVersion(t *testing.T) {
	if got := pinnedVersion("v1", "abc"); got != "v1@abc" {
		t.Fatalf("got %q", got)
	}
	if got := pinnedVersion("abc", "abc"); got != "abc" {
		t.Fatalf("got %q", got)
	}
	if got := pinnedVersion("", "abc"); got != "abc" {
		t.Fatalf("got %q", got)
	}
}

func TestDirChecksumTracksContent(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "builtins.pyi"), []byte("class object: ..."), 0o644); err != nil {
		t.Fatal(err)
	}

	first, err := dirChecksum(dir)
	if err != nil {
		t.Fatalf("dirChecksum error: %v", err)
	}
	again, err := dirChecksum(dir)
	if err != nil {
		t.Fatalf("dirChecksum error: %v", err)
	}
	if first != again {
		t.Fatal("checksum not stable")
	}

	if err := os.WriteFile(filepath.Join(dir, "builtins.pyi"), []byte("class object: pass"), 0o644); err != nil {
		t.Fatal(err)
	}
	changed, err := dirChecksum(dir)
	if err != nil {
		t.Fatalf("dirChecksum error: %v", err)
	}
	if changed == first {
		t.Fatal("checksum did not track content change")
	}
}

func TestFetchReusesPinnedCheckout(t *testing.T) {
	cache := t.TempDir()
	checkout := filepath.Join(cache, "stubs", "typeshed", "abc123")
	if err := os.MkdirAll(checkout, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(checkout, "builtins.pyi"), []byte("class object: ..."), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewManifest("typeshed", "https://example.com/typeshed.git", "abc123")
	f := NewFetcher(cache)
	got, err := f.Fetch(m)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if got.Dir != checkout {
		t.Fatalf("unexpected checkout dir: %q", got.Dir)
	}
	if got.Commit != "abc123" || got.Version != "abc123" {
		t.Fatalf("unexpected pin: %+v", got)
	}
	if got.Checksum == "" {
		t.Fatal("expected a checksum")
	}

	m.Checksum = strings.Repeat("0", 64)
	if _, err := f.Fetch(m); err == nil {
		t.Fatal("expected checksum mismatch to fail")
	}
}

func TestFetcherRequiresCacheDir(t *testing.T) {
	if NewFetcher("") != nil {
		t.Fatal("expected nil fetcher without cache dir")
	}
	var f *Fetcher
	if _, err := f.Fetch(NewManifest("typeshed", "https://example.com/t.git", "abc")); err == nil {
		t.Fatal("expected nil fetcher to error")
	}
}
