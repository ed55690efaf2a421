// SPDX-License-Identifier: MPL-2.0

// Package keeprule renders the ProGuard-style keep rule that limits the
// optimizer to the program entry point.
package keeprule

import (
	"fmt"
	"os"

	"github.com/spf13/afero"

	"jarmin/pkg/manifest"
)

// Generate returns the single-line keep rule preserving the public static
// main method of mainClass. The line is newline terminated.
func Generate(mainClass manifest.MainClass) string {
	return fmt.Sprintf("-keep public class %s { public static void main(...); }\n", mainClass)
}

// WriteFile writes the keep rule for mainClass to path on fs.
func WriteFile(fs afero.Fs, path string, mainClass manifest.MainClass) (err error) {
	f, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create keep rules %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close keep rules %s: %w", path, cerr)
		}
	}()

	if _, err := f.WriteString(Generate(mainClass)); err != nil {
		return fmt.Errorf("failed to write keep rules %s: %w", path, err)
	}
	return nil
}
