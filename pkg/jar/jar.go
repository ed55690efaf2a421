// SPDX-License-Identifier: MPL-2.0

// Package jar reads and repackages JAR archives.
//
// A JAR is a ZIP container. The only entry this package ever interprets is
// the manifest (see package manifest); every other entry is treated as an
// opaque payload and copied without being decompressed.
package jar

import (
	"archive/zip"
	"fmt"
	"io"
	"time"

	"github.com/spf13/afero"

	"jarmin/pkg/manifest"
)

type (
	// Entry describes a single archive entry as stored in the central directory.
	Entry struct {
		Name             string
		Method           uint16
		CRC32            uint32
		CompressedSize   uint64
		UncompressedSize uint64
		Modified         time.Time
	}

	// archive is an open source archive. Close must be called to release
	// the underlying file.
	archive struct {
		*zip.Reader
		file afero.File
	}
)

// IsManifest reports whether the entry is the manifest entry.
func (e Entry) IsManifest() bool {
	return manifest.IsPath(e.Name)
}

// MethodName returns a human-readable name for the compression method.
func (e Entry) MethodName() string {
	switch e.Method {
	case zip.Store:
		return "stored"
	case zip.Deflate:
		return "deflated"
	default:
		return fmt.Sprintf("method-%d", e.Method)
	}
}

// openArchive opens path on fs as a ZIP archive.
func openArchive(fs afero.Fs, path string) (*archive, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, invalidArchive(path, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, invalidArchive(path, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, invalidArchive(path, fmt.Errorf("is a directory"))
	}

	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		_ = f.Close()
		return nil, invalidArchive(path, err)
	}

	return &archive{Reader: zr, file: f}, nil
}

func (a *archive) Close() error {
	return a.file.Close()
}

// Entries lists the entries of the archive at path in stored order.
func Entries(fs afero.Fs, path string) ([]Entry, error) {
	a, err := openArchive(fs, path)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	entries := make([]Entry, 0, len(a.File))
	for _, f := range a.File {
		entries = append(entries, Entry{
			Name:             f.Name,
			Method:           f.Method,
			CRC32:            f.CRC32,
			CompressedSize:   f.CompressedSize64,
			UncompressedSize: f.UncompressedSize64,
			Modified:         f.Modified,
		})
	}
	return entries, nil
}

// ReadManifest returns the raw bytes of the first manifest entry in the
// archive at path. Entry names are matched case-insensitively.
func ReadManifest(fs afero.Fs, path string) ([]byte, error) {
	a, err := openArchive(fs, path)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	for _, f := range a.File {
		if !manifest.IsPath(f.Name) {
			continue
		}
		data, err := readEntry(f)
		if err != nil {
			return nil, invalidArchive(path, fmt.Errorf("failed to read %s: %w", f.Name, err))
		}
		return data, nil
	}

	return nil, fmt.Errorf("%s: %w", path, ErrMissingManifest)
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}
