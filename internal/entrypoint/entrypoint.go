// SPDX-License-Identifier: MPL-2.0

// Package entrypoint decides which class the optimized program starts from.
//
// The entry point is either supplied by the user, in which case it must be
// injected into the input archive's manifest, or discovered from the
// Main-Class attribute of the manifest already in the archive. The two cases
// are kept apart as the Source of a Resolution so that callers never need to
// re-check whether a flag was set.
package entrypoint

import (
	"errors"

	"github.com/spf13/afero"

	"jarmin/internal/issue"
	"jarmin/pkg/jar"
	"jarmin/pkg/manifest"
)

const (
	// SourceDiscovered means the main class was read from the archive manifest.
	SourceDiscovered Source = iota + 1
	// SourceSupplied means the main class was given explicitly and must be
	// injected into a repackaged copy of the archive.
	SourceSupplied
)

type (
	// Source records where a Resolution's main class came from.
	Source int

	// Resolution is the resolved entry point of a run.
	Resolution struct {
		MainClass manifest.MainClass
		Source    Source
	}
)

// String returns a short name for the source.
func (s Source) String() string {
	switch s {
	case SourceDiscovered:
		return "discovered"
	case SourceSupplied:
		return "supplied"
	default:
		return "unknown"
	}
}

// Discovered returns a Resolution for a main class read from a manifest.
func Discovered(mc manifest.MainClass) Resolution {
	return Resolution{MainClass: mc, Source: SourceDiscovered}
}

// Supplied returns a Resolution for an explicitly given main class.
func Supplied(mc manifest.MainClass) Resolution {
	return Resolution{MainClass: mc, Source: SourceSupplied}
}

// NeedsInjection reports whether the archive must be repackaged with a
// manifest declaring the main class.
func (r Resolution) NeedsInjection() bool {
	return r.Source == SourceSupplied
}

// Resolve returns explicit unchanged when it is set. Otherwise it reads the
// manifest of the archive at path on fs and returns its first Main-Class.
//
// Failures are *issue.ActionableError values that still wrap
// jar.ErrMissingManifest, manifest.ErrMissingMainClass or jar.ErrInvalidArchive.
func Resolve(fs afero.Fs, explicit manifest.MainClass, path string) (Resolution, error) {
	if explicit != "" {
		return Supplied(explicit), nil
	}

	data, err := jar.ReadManifest(fs, path)
	if err != nil {
		ctx := issue.NewErrorContext().
			WithOperation("discover main class").
			WithResource(path).
			Wrap(err)
		if errors.Is(err, jar.ErrMissingManifest) {
			return Resolution{}, ctx.
				WithIssue(issue.MissingManifestId).
				WithSuggestion("No --mainclass specified and no manifest in input JAR").
				WithSuggestion("Pass --mainclass <class> to inject a manifest").
				BuildError()
		}
		return Resolution{}, ctx.
			WithIssue(issue.InvalidArchiveId).
			WithSuggestion("Check the --input-jar path").
			BuildError()
	}

	mc, err := manifest.ParseMainClass(data)
	if err != nil {
		return Resolution{}, issue.NewErrorContext().
			WithOperation("discover main class").
			WithResource(path).
			WithIssue(issue.MissingMainClassId).
			WithSuggestion("No --mainclass specified and no Main-Class in input JAR manifest").
			WithSuggestion("Add a Main-Class attribute to the manifest or pass --mainclass <class>").
			Wrap(err).
			BuildError()
	}

	return Discovered(mc), nil
}
