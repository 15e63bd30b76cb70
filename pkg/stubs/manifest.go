// Package stubs manages the pinned stub distribution: a manifest naming the
// typeshed source at an exact revision, and a fetcher that materialises it
// into a local cache.
package stubs

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Manifest models the stubs.yaml contents.
type Manifest struct {
	Path     string
	Source   Source
	Checksum string
	Fetched  string
}

// Source pins the stub repository. Exactly one of Rev, Tag or Branch selects
// the revision; Rev wins over Tag, Tag over Branch.
type Source struct {
	Name   string
	Git    string
	Rev    string
	Tag    string
	Branch string
}

// NewManifest constructs a manifest for the given repository pinned at rev.
func NewManifest(name, url, rev string) *Manifest {
	return &Manifest{
		Source: Source{
			Name: sanitizeSegment(name),
			Git:  strings.TrimSpace(url),
			Rev:  strings.TrimSpace(rev),
		},
	}
}

// LoadManifest parses stubs.yaml from disk.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var raw manifestDisk
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("manifest: parse %s: %w", abs, err)
	}

	m := raw.toManifest()
	m.Path = abs
	m.normalize()
	if m.Source.Git == "" {
		return nil, fmt.Errorf("manifest: %s: source git URL required", abs)
	}
	return m, nil
}

// WriteManifest serialises the manifest back to disk, refreshing metadata.
func WriteManifest(m *Manifest, path string) error {
	if m == nil {
		return fmt.Errorf("manifest: nil manifest")
	}
	if path == "" {
		if m.Path == "" {
			return fmt.Errorf("manifest: missing path")
		}
		path = m.Path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("manifest: resolve %s: %w", path, err)
	}

	if m.Fetched == "" {
		m.Fetched = time.Now().UTC().Format(time.RFC3339)
	}
	m.Path = abs
	m.normalize()

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m.toDisk()); err != nil {
		return fmt.Errorf("manifest: marshal %s: %w", abs, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("manifest: encoder close: %w", err)
	}
	if err := os.WriteFile(abs, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("manifest: write %s: %w", abs, err)
	}
	return nil
}

func (m *Manifest) normalize() {
	if m == nil {
		return
	}
	m.Source.Name = sanitizeSegment(m.Source.Name)
	m.Source.Git = strings.TrimSpace(m.Source.Git)
	m.Source.Rev = strings.TrimSpace(m.Source.Rev)
	m.Source.Tag = strings.TrimSpace(m.Source.Tag)
	m.Source.Branch = strings.TrimSpace(m.Source.Branch)
	m.Checksum = strings.TrimSpace(m.Checksum)
	m.Fetched = strings.TrimSpace(m.Fetched)
	if m.Source.Name == "" {
		m.Source.Name = "typeshed"
	}
}

func (m *Manifest) toDisk() manifestDisk {
	return manifestDisk{
		Source: sourceDisk{
			Name:   m.Source.Name,
			Git:    m.Source.Git,
			Rev:    m.Source.Rev,
			Tag:    m.Source.Tag,
			Branch: m.Source.Branch,
		},
		Checksum: m.Checksum,
		Fetched:  m.Fetched,
	}
}

type manifestDisk struct {
	Source   sourceDisk `yaml:"source"`
	Checksum string     `yaml:"checksum,omitempty"`
	Fetched  string     `yaml:"fetched,omitempty"`
}

type sourceDisk struct {
	Name   string `yaml:"name"`
	Git    string `yaml:"git"`
	Rev    string `yaml:"rev,omitempty"`
	Tag    string `yaml:"tag,omitempty"`
	Branch string `yaml:"branch,omitempty"`
}

func (d manifestDisk) toManifest() *Manifest {
	return &Manifest{
		Source: Source{
			Name:   d.Source.Name,
			Git:    d.Source.Git,
			Rev:    d.Source.Rev,
			Tag:    d.Source.Tag,
			Branch: d.Source.Branch,
		},
		Checksum: d.Checksum,
		Fetched:  d.Fetched,
	}
}

func sanitizeSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
