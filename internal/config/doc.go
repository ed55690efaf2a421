// SPDX-License-Identifier: MPL-2.0

// Package config handles jarmin configuration using Viper with CUE as the file format.
//
// Settings come from, in increasing order of precedence: built-in defaults,
// a CUE file (jarmin.cue in the working directory, or config.cue in the
// user config directory, or the file named by --config) and JARMIN_*
// environment variables. Files are validated against the embedded #Config
// schema before they are merged.
//
// Relative paths in the configuration are resolved against repo_root.
package config
