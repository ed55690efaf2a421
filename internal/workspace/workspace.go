// SPDX-License-Identifier: MPL-2.0

// Package workspace manages the scratch directory of a single run.
package workspace

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// Workspace is a temporary directory that is removed on Close.
type Workspace struct {
	fs   afero.Fs
	dir  string
	once sync.Once
	err  error
}

// New creates a fresh temporary directory on fs.
func New(fs afero.Fs, prefix string) (*Workspace, error) {
	dir, err := afero.TempDir(fs, "", prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	return &Workspace{fs: fs, dir: dir}, nil
}

// Dir returns the workspace directory.
func (w *Workspace) Dir() string {
	return w.dir
}

// Path returns name joined under the workspace directory.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.dir, name)
}

// Close removes the workspace and everything in it. Only the first call
// does any work; later calls return the same result.
func (w *Workspace) Close() error {
	w.once.Do(func() {
		if err := w.fs.RemoveAll(w.dir); err != nil {
			w.err = fmt.Errorf("failed to remove workspace %s: %w", w.dir, err)
		}
	})
	return w.err
}
