// SPDX-License-Identifier: MPL-2.0

// Package jartest builds small JAR archives for tests.
//
// Archives are written to an afero filesystem so tests can run against
// afero.NewMemMapFs() without touching disk.
package jartest
