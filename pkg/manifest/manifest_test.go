package manifest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalVersion(ttt *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "1.2.3", want: "v1.2.3"},
		{in: "v2", want: "v2.0.0"},
		{in: " v1.0.0-rc.1 ", want: "v1.0.0-rc.1"},
		{in: "latest", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		ttt.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := CanonicalVersion(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestAddSnapshot(t *testing.T) {
	m := &Manifest{}
	require.NoError(t, m.AddSnapshot(Snapshot{Name: "api", Version: "1.0.0", File: "a.ts"}))
	require.Equal(t, "v1.0.0", m.CurrentVersion)
	require.Empty(t, m.PreviousVersion)

	require.NoError(t, m.AddSnapshot(Snapshot{Name: "api", Version: "1.1.0", File: "b.ts"}))
	require.Equal(t, "v1.1.0", m.CurrentVersion)
	require.Equal(t, "v1.0.0", m.PreviousVersion)

	// re-recording the current version replaces it in place
	require.NoError(t, m.AddSnapshot(Snapshot{Name: "api", Version: "v1.1.0", File: "c.ts"}))
	require.Len(t, m.Snapshots, 2)
	require.Equal(t, "c.ts", m.SnapshotFile("v1.1.0"))
	require.Equal(t, "v1.0.0", m.PreviousVersion)

	require.ErrorContains(t, m.AddSnapshot(Snapshot{Name: "api", Version: "0.9.0"}), "older than current")
	require.Empty(t, m.SnapshotFile("v9.9.9"))
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "manifest.yaml")
	empty, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, &Manifest{}, empty)

	m := &Manifest{}
	require.NoError(t, m.AddSnapshot(Snapshot{Name: "api", Version: "1.0.0", File: "a.ts", Dialect: "modern", Models: 2, Checksum: Checksum([]byte("x"))}))
	require.NoError(t, m.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, m, got)
	require.Equal(t, "2d711642b726b04401627ca9fbac32f5c8530fb1903cc4db02258717921a4881", got.Snapshots[0].Checksum)
}
