// SPDX-License-Identifier: MPL-2.0

// Package outpath derives the default location of the optimized archive.
package outpath

import (
	"path/filepath"
	"strings"

	"jarmin/pkg/manifest"
)

const (
	// Suffix is inserted before the extension of derived output names.
	Suffix = "-min"
	// Ext is the extension of outputs named after a main class.
	Ext = ".jar"
)

// Resolve returns the output archive path.
//
//   - An explicit output is returned unchanged.
//   - Without an explicit main class the output sits next to input, with
//     Suffix inserted before its extension (build/libs/r8.jar becomes
//     build/libs/r8-min.jar). A base name's leading dots do not start an
//     extension.
//   - With an explicit main class the output is <libsDir>/<SimpleName>-min.jar.
func Resolve(input, explicitOutput string, explicitMainClass manifest.MainClass, libsDir string) string {
	if explicitOutput != "" {
		return explicitOutput
	}

	if explicitMainClass == "" {
		ext := extension(input)
		return strings.TrimSuffix(input, ext) + Suffix + ext
	}

	return filepath.Join(libsDir, explicitMainClass.SimpleName()+Suffix+Ext)
}

// extension is filepath.Ext except that leading dots of the base name do
// not start an extension, so ".jar" has none and becomes ".jar-min".
func extension(path string) string {
	if !strings.Contains(strings.TrimLeft(filepath.Base(path), "."), ".") {
		return ""
	}
	return filepath.Ext(path)
}
