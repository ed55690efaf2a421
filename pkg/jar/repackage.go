// SPDX-License-Identifier: MPL-2.0

package jar

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"jarmin/pkg/manifest"
)

// Repackager writes copies of JAR archives with a replaced manifest.
type Repackager struct {
	fs  afero.Fs
	now func() time.Time
}

// NewRepackager creates a Repackager operating on fs.
func NewRepackager(fs afero.Fs) *Repackager {
	return &Repackager{fs: fs, now: time.Now}
}

// Repackage writes dst as a copy of src whose manifest declares mainClass.
//
// Entries are copied in stored order with their headers and compressed
// bytes untouched. The first entry whose name matches the manifest path
// (ignoring case) is replaced in place by a fresh manifest stored under the
// canonical path; any further case variants are dropped. If src has no
// manifest the new one is appended as the last entry. A replaced manifest
// keeps the modification time of the entry it replaces, so repackaging an
// already repackaged archive with the same main class reproduces it.
//
// dst is left in an undefined state when an error is returned.
func (r *Repackager) Repackage(src, dst string, mainClass manifest.MainClass) (err error) {
	if filepath.Clean(src) == filepath.Clean(dst) {
		return outputWrite(dst, errors.New("destination must differ from source"))
	}

	in, err := openArchive(r.fs, src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := r.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return outputWrite(dst, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = outputWrite(dst, cerr)
		}
	}()

	zw := zip.NewWriter(out)
	content := manifest.Build(mainClass)
	placed := false

	for _, f := range in.File {
		if manifest.IsPath(f.Name) {
			if placed {
				continue
			}
			if err := writeManifest(zw, content, manifestMethod(f.Method), f.Modified); err != nil {
				return outputWrite(dst, err)
			}
			placed = true
			continue
		}

		if err := copyRaw(zw, f, src, dst); err != nil {
			return err
		}
	}

	if !placed {
		if err := writeManifest(zw, content, zip.Deflate, r.now()); err != nil {
			return outputWrite(dst, err)
		}
	}

	if err := zw.Close(); err != nil {
		return outputWrite(dst, err)
	}
	return nil
}

func writeManifest(zw *zip.Writer, content []byte, method uint16, modified time.Time) error {
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     manifest.Path,
		Method:   method,
		Modified: modified,
	})
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", manifest.Path, err)
	}
	if _, err := w.Write(content); err != nil {
		return fmt.Errorf("failed to write %s: %w", manifest.Path, err)
	}
	return nil
}

// copyRaw copies f into zw without recompressing it. Read failures are
// attributed to the source archive and write failures to the destination.
func copyRaw(zw *zip.Writer, f *zip.File, src, dst string) error {
	raw, err := f.OpenRaw()
	if err != nil {
		return invalidArchive(src, fmt.Errorf("failed to open %s: %w", f.Name, err))
	}

	fh := f.FileHeader
	w, err := zw.CreateRaw(&fh)
	if err != nil {
		return outputWrite(dst, fmt.Errorf("failed to create %s: %w", f.Name, err))
	}

	sr := &sourceReader{r: raw}
	if _, err := io.Copy(w, sr); err != nil {
		if sr.err != nil {
			return invalidArchive(src, fmt.Errorf("failed to read %s: %w", f.Name, sr.err))
		}
		return outputWrite(dst, fmt.Errorf("failed to write %s: %w", f.Name, err))
	}
	return nil
}

// manifestMethod keeps the method of a replaced manifest when the writer
// can produce it, falling back to deflate.
func manifestMethod(method uint16) uint16 {
	if method == zip.Store {
		return zip.Store
	}
	return zip.Deflate
}

// sourceReader records read errors so copyRaw can tell them apart from
// write errors returned by io.Copy.
type sourceReader struct {
	r   io.Reader
	err error
}

func (s *sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF {
		s.err = err
	}
	return n, err
}
