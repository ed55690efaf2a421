// SPDX-License-Identifier: MPL-2.0

package jartest

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/spf13/afero"
)

type (
	// Entry is a single archive entry to write.
	Entry struct {
		Name   string
		Data   []byte
		Method uint16
	}

	// ReadEntry is an entry read back from an archive, including its raw
	// (still compressed) bytes.
	ReadEntry struct {
		Header zip.FileHeader
		Data   []byte
		Raw    []byte
	}
)

// ModTime is the fixed modification time given to every written entry.
var ModTime = time.Date(2018, time.June, 1, 12, 0, 0, 0, time.UTC)

// File returns a deflated entry.
func File(name, data string) Entry {
	return Entry{Name: name, Data: []byte(data), Method: zip.Deflate}
}

// Stored returns an uncompressed entry.
func Stored(name, data string) Entry {
	return Entry{Name: name, Data: []byte(data), Method: zip.Store}
}

// Dir returns a directory entry.
func Dir(name string) Entry {
	return Entry{Name: name, Method: zip.Store}
}

// Write creates a ZIP archive at path containing entries in order.
func Write(t testing.TB, fs afero.Fs, path string, entries ...Entry) {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.Name,
			Method:   e.Method,
			Modified: ModTime,
			Comment:  "jartest",
		})
		if err != nil {
			t.Fatalf("failed to create entry %s: %v", e.Name, err)
		}
		if _, err := w.Write(e.Data); err != nil {
			t.Fatalf("failed to write entry %s: %v", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close archive: %v", err)
	}

	if err := afero.WriteFile(fs, path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write archive %s: %v", path, err)
	}
}

// Read returns every entry of the archive at path in stored order.
func Read(t testing.TB, fs afero.Fs, path string) []ReadEntry {
	t.Helper()

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("failed to read archive %s: %v", path, err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("failed to open archive %s: %v", path, err)
	}

	entries := make([]ReadEntry, 0, len(zr.File))
	for _, f := range zr.File {
		entries = append(entries, ReadEntry{
			Header: f.FileHeader,
			Data:   mustReadAll(t, f.Open),
			Raw:    mustReadAll(t, rawOpener(f)),
		})
	}
	return entries
}

// Names returns the entry names of the archive at path in stored order.
func Names(t testing.TB, fs afero.Fs, path string) []string {
	t.Helper()

	entries := Read(t, fs, path)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Header.Name)
	}
	return names
}

func rawOpener(f *zip.File) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		r, err := f.OpenRaw()
		if err != nil {
			return nil, err
		}
		return io.NopCloser(r), nil
	}
}

func mustReadAll(t testing.TB, open func() (io.ReadCloser, error)) []byte {
	t.Helper()

	rc, err := open()
	if err != nil {
		t.Fatalf("failed to open entry: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("failed to read entry: %v", err)
	}
	return data
}
