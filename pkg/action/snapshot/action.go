package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cmmoran/zodanno/pkg/action/generate"
	"github.com/cmmoran/zodanno/pkg/manifest"
	"github.com/cmmoran/zodanno/pkg/parser"
)

// Generate writes the current schema module, keeps a versioned copy next to
// the manifest and records it.
func Generate(ctx context.Context, opts *parser.Options, manifestPath, snapshotName, snapshotVersion string) (string, error) {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return "", err
	}
	version, err := manifest.CanonicalVersion(snapshotVersion)
	if err != nil {
		return "", err
	}

	out, err := generate.Generate(ctx, opts)
	if err != nil {
		return "", err
	}

	file := filepath.Join(filepath.Dir(manifestPath), "snapshots", version, filepath.Base(out.Path))
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return "", fmt.Errorf("create snapshot directory: %w", err)
	}
	if err := os.WriteFile(file, out.Module, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	err = m.AddSnapshot(manifest.Snapshot{
		Name:     snapshotName,
		Version:  version,
		File:     file,
		Dialect:  string(out.Result.Dialect),
		Models:   len(out.Result.Models),
		Checksum: manifest.Checksum(out.Module),
	})
	if err != nil {
		return "", err
	}
	if err := m.Save(manifestPath); err != nil {
		return "", err
	}

	return file, nil
}

// List returns all snapshots recorded in the manifest.
func List(manifestPath string) (*manifest.Manifest, error) {
	return manifest.Load(manifestPath)
}

// DiffCurrentWithPrevious loads the manifest, locates the current and previous
// snapshot files, and returns a textual diff of their contents.
func DiffCurrentWithPrevious(manifestPath string) (string, error) {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return "", err
	}

	if m.CurrentVersion == "" || m.PreviousVersion == "" {
		return "", fmt.Errorf("no current/previous snapshots recorded")
	}

	currentPath := m.SnapshotFile(m.CurrentVersion)
	previousPath := m.SnapshotFile(m.PreviousVersion)

	if currentPath == "" || previousPath == "" {
		return "", fmt.Errorf("snapshot files not found in manifest")
	}

	current, err := os.ReadFile(currentPath)
	if err != nil {
		return "", fmt.Errorf("read current snapshot: %w", err)
	}

	previous, err := os.ReadFile(previousPath)
	if err != nil {
		return "", fmt.Errorf("read previous snapshot: %w", err)
	}

	return generate.Diff(previous, current), nil
}
