// SPDX-License-Identifier: MPL-2.0

package jar

import (
	"archive/zip"
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jarmin/internal/testutil/jartest"
	"jarmin/pkg/manifest"
)

// stored captures what must survive a raw copy unchanged.
type stored struct {
	Name     string
	Method   uint16
	CRC32    uint32
	Size     uint64
	Modified int64
	Comment  string
	Raw      string
}

func snapshot(entries []jartest.ReadEntry) []stored {
	out := make([]stored, 0, len(entries))
	for _, e := range entries {
		out = append(out, stored{
			Name:     e.Header.Name,
			Method:   e.Header.Method,
			CRC32:    e.Header.CRC32,
			Size:     e.Header.UncompressedSize64,
			Modified: e.Header.Modified.Unix(),
			Comment:  e.Header.Comment,
			Raw:      string(e.Raw),
		})
	}
	return out
}

func withoutManifest(entries []jartest.ReadEntry) []jartest.ReadEntry {
	var out []jartest.ReadEntry
	for _, e := range entries {
		if !manifest.IsPath(e.Header.Name) {
			out = append(out, e)
		}
	}
	return out
}

func manifestEntries(entries []jartest.ReadEntry) []jartest.ReadEntry {
	var out []jartest.ReadEntry
	for _, e := range entries {
		if manifest.IsPath(e.Header.Name) {
			out = append(out, e)
		}
	}
	return out
}

func newTestRepackager(fs afero.Fs) *Repackager {
	r := NewRepackager(fs)
	r.now = func() time.Time { return time.Date(2020, time.January, 2, 3, 4, 5, 0, time.UTC) }
	return r
}

func TestRepackage_AppendsManifestWhenAbsent(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	jartest.Write(t, fs, "in.jar",
		jartest.Dir("com/"),
		jartest.Dir("com/example/"),
		jartest.File("com/example/Tool.class", "\xca\xfe\xba\xbe tool"),
		jartest.Stored("res/data.bin", "opaque bytes"),
	)

	require.NoError(t, newTestRepackager(fs).Repackage("in.jar", "out.jar", "com.example.Tool"))

	in := jartest.Read(t, fs, "in.jar")
	out := jartest.Read(t, fs, "out.jar")

	require.Len(t, out, len(in)+1)
	assert.Equal(t, snapshot(in), snapshot(out[:len(in)]))

	last := out[len(out)-1]
	assert.Equal(t, manifest.Path, last.Header.Name)
	assert.Equal(t, "Manifest-Version: 1.0\nMain-Class: com.example.Tool\n\n", string(last.Data))
}

func TestRepackage_ReplacesManifestInPlace(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	jartest.Write(t, fs, "in.jar",
		jartest.Dir("META-INF/"),
		jartest.File("meta-inf/manifest.mf", "Manifest-Version: 1.0\nMain-Class: old.Main\nCreated-By: test\n\n"),
		jartest.File("old/Main.class", "old"),
		jartest.File("com/example/Tool.class", "tool"),
	)

	require.NoError(t, newTestRepackager(fs).Repackage("in.jar", "out.jar", "com.example.Tool"))

	out := jartest.Read(t, fs, "out.jar")
	require.Len(t, out, 4)

	assert.Equal(t, manifest.Path, out[1].Header.Name, "manifest keeps its position and gets the canonical name")
	assert.Equal(t, string(manifest.Build("com.example.Tool")), string(out[1].Data))
	assert.Equal(t, jartest.ModTime.Unix(), out[1].Header.Modified.Unix())

	in := jartest.Read(t, fs, "in.jar")
	assert.Equal(t, snapshot(withoutManifest(in)), snapshot(withoutManifest(out)))
}

func TestRepackage_StoredManifestStaysStored(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	jartest.Write(t, fs, "in.jar", jartest.Stored(manifest.Path, "Manifest-Version: 1.0\n\n"))

	require.NoError(t, newTestRepackager(fs).Repackage("in.jar", "out.jar", "Tool"))

	out := jartest.Read(t, fs, "out.jar")
	require.Len(t, out, 1)
	assert.Equal(t, uint16(zip.Store), out[0].Header.Method)
	assert.Equal(t, "Manifest-Version: 1.0\nMain-Class: Tool\n\n", string(out[0].Data))
}

func TestRepackage_DropsDuplicateManifestVariants(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	jartest.Write(t, fs, "in.jar",
		jartest.File("META-INF/MANIFEST.MF", "Main-Class: first.Main\n"),
		jartest.File("a.txt", "a"),
		jartest.File("Meta-Inf/Manifest.mf", "Main-Class: second.Main\n"),
		jartest.File("b.txt", "b"),
	)

	require.NoError(t, newTestRepackager(fs).Repackage("in.jar", "out.jar", "com.example.Tool"))

	assert.Equal(t, []string{manifest.Path, "a.txt", "b.txt"}, jartest.Names(t, fs, "out.jar"))
}

func TestRepackage_EmptyArchive(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	jartest.Write(t, fs, "in.jar")

	require.NoError(t, newTestRepackager(fs).Repackage("in.jar", "out.jar", "com.example.Tool"))

	out := jartest.Read(t, fs, "out.jar")
	require.Len(t, out, 1)
	assert.Equal(t, manifest.Path, out[0].Header.Name)
}

func TestRepackage_Idempotent(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	jartest.Write(t, fs, "in.jar",
		jartest.File("com/example/Tool.class", "tool"),
		jartest.File("com/example/Util.class", "util"),
	)

	r := newTestRepackager(fs)
	require.NoError(t, r.Repackage("in.jar", "once.jar", "com.example.Tool"))
	require.NoError(t, r.Repackage("once.jar", "twice.jar", "com.example.Tool"))

	once := jartest.Read(t, fs, "once.jar")
	twice := jartest.Read(t, fs, "twice.jar")

	assert.Equal(t, snapshot(withoutManifest(once)), snapshot(withoutManifest(twice)))

	m1, m2 := manifestEntries(once), manifestEntries(twice)
	require.Len(t, m1, 1)
	require.Len(t, m2, 1)
	assert.Equal(t, string(m1[0].Data), string(m2[0].Data))

	onceBytes, err := afero.ReadFile(fs, "once.jar")
	require.NoError(t, err)
	twiceBytes, err := afero.ReadFile(fs, "twice.jar")
	require.NoError(t, err)
	assert.Equal(t, onceBytes, twiceBytes, "second pass reproduces the archive byte for byte")
}

func TestRepackage_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		setup    func(t *testing.T) (afero.Fs, string, string)
		wantErr  error
		wantKind Kind
	}{
		{
			name: "source does not exist",
			setup: func(t *testing.T) (afero.Fs, string, string) {
				return afero.NewMemMapFs(), "missing.jar", "out.jar"
			},
			wantErr:  ErrInvalidArchive,
			wantKind: KindInvalidArchive,
		},
		{
			name: "source is not a zip",
			setup: func(t *testing.T) (afero.Fs, string, string) {
				fs := afero.NewMemMapFs()
				require.NoError(t, afero.WriteFile(fs, "in.jar", []byte("definitely not a zip"), 0o644))
				return fs, "in.jar", "out.jar"
			},
			wantErr:  ErrInvalidArchive,
			wantKind: KindInvalidArchive,
		},
		{
			name: "source is a directory",
			setup: func(t *testing.T) (afero.Fs, string, string) {
				fs := afero.NewMemMapFs()
				require.NoError(t, fs.MkdirAll("in.jar", 0o755))
				return fs, "in.jar", "out.jar"
			},
			wantErr:  ErrInvalidArchive,
			wantKind: KindInvalidArchive,
		},
		{
			name: "destination is not writable",
			setup: func(t *testing.T) (afero.Fs, string, string) {
				fs := afero.NewMemMapFs()
				jartest.Write(t, fs, "in.jar", jartest.File("a.txt", "a"))
				return afero.NewReadOnlyFs(fs), "in.jar", "out.jar"
			},
			wantErr:  ErrOutputWrite,
			wantKind: KindOutputWrite,
		},
		{
			name: "destination is the source",
			setup: func(t *testing.T) (afero.Fs, string, string) {
				fs := afero.NewMemMapFs()
				jartest.Write(t, fs, "in.jar", jartest.File("a.txt", "a"))
				return fs, "in.jar", "./in.jar"
			},
			wantErr:  ErrOutputWrite,
			wantKind: KindOutputWrite,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs, src, dst := tt.setup(t)
			err := NewRepackager(fs).Repackage(src, dst, "com.example.Tool")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var archiveErr *ArchiveError
			require.True(t, errors.As(err, &archiveErr))
			assert.Equal(t, tt.wantKind, archiveErr.Kind)
		})
	}
}
