package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// Snapshot is one recorded version of a generated schema module.
type Snapshot struct {
	Name     string `yaml:"name" json:"name"`
	Version  string `yaml:"version" json:"version"`
	File     string `yaml:"file" json:"file"`
	Dialect  string `yaml:"dialect,omitempty" json:"dialect,omitempty"`
	Models   int    `yaml:"models" json:"models"`
	Checksum string `yaml:"checksum,omitempty" json:"checksum,omitempty"`
}

// Manifest tracks the lifecycle of schema snapshots.
type Manifest struct {
	CurrentVersion  string     `yaml:"current_version" json:"current_version"`
	PreviousVersion string     `yaml:"previous_version" json:"previous_version"`
	Snapshots       []Snapshot `yaml:"snapshots" json:"snapshots"`
}

// Load reads a manifest from the provided path. If the file does not exist,
// an empty manifest is returned.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}

	return &m, nil
}

// Save writes the manifest to the provided path, creating parent directories as needed.
func (m *Manifest) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}

// CanonicalVersion accepts "1.2.3" or "v1.2.3" and returns the v-prefixed
// semantic version.
func CanonicalVersion(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", fmt.Errorf("invalid snapshot version %q (want semantic version)", v)
	}
	return semver.Canonical(v), nil
}

// AddSnapshot records a snapshot, updating version pointers and de-duplicating
// existing entries that share the same name and version. Versions must not
// go backwards.
func (m *Manifest) AddSnapshot(s Snapshot) error {
	v, err := CanonicalVersion(s.Version)
	if err != nil {
		return err
	}
	s.Version = v
	if m.CurrentVersion != "" && semver.Compare(v, m.CurrentVersion) < 0 {
		return fmt.Errorf("snapshot version %s is older than current %s", v, m.CurrentVersion)
	}

	for i := range m.Snapshots {
		if m.Snapshots[i].Name == s.Name && m.Snapshots[i].Version == s.Version {
			m.Snapshots[i] = s
			return nil
		}
	}

	if m.CurrentVersion != "" && m.CurrentVersion != v {
		m.PreviousVersion = m.CurrentVersion
	}
	m.CurrentVersion = v
	m.Snapshots = append(m.Snapshots, s)
	return nil
}

// SnapshotFile returns the path associated with the provided version, if present.
func (m *Manifest) SnapshotFile(version string) string {
	if s := m.Snapshot(version); s != nil {
		return s.File
	}
	return ""
}

// Snapshot returns the entry for version, if present.
func (m *Manifest) Snapshot(version string) *Snapshot {
	for i := range m.Snapshots {
		if m.Snapshots[i].Version == version {
			return &m.Snapshots[i]
		}
	}
	return nil
}

// Checksum is the hex sha256 of a rendered module.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
