// SPDX-License-Identifier: MPL-2.0

// Package testutil holds small test helpers that testing.T does not
// provide: Unsetenv for removing a variable for the rest of a test and
// MustClose for closers whose error must fail the test.
// Subpackage jartest builds and inspects JAR fixtures.
package testutil
