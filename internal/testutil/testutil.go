// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"io"
	"os"
	"testing"
)

// Unsetenv removes key from the environment for the rest of the test and
// restores its previous value, if any, during cleanup. testing.T only offers
// Setenv, which cannot express "unset". Like t.Setenv, it must not be used
// in parallel tests.
func Unsetenv(t testing.TB, key string) {
	t.Helper()
	// t.Setenv records the original value and panics under t.Parallel.
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("failed to unset env %s: %v", key, err)
	}
}

// MustClose closes c and fails the test if that returns an error.
func MustClose(t testing.TB, c io.Closer) {
	t.Helper()
	if err := c.Close(); err != nil {
		t.Fatalf("failed to close: %v", err)
	}
}
