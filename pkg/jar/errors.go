// SPDX-License-Identifier: MPL-2.0

package jar

import (
	"errors"
	"fmt"
)

const (
	// KindInvalidArchive means the source archive could not be opened or decoded.
	KindInvalidArchive Kind = iota + 1
	// KindOutputWrite means the destination archive could not be created or written.
	KindOutputWrite
)

var (
	// ErrInvalidArchive is wrapped by every ArchiveError of KindInvalidArchive.
	ErrInvalidArchive = errors.New("invalid archive")
	// ErrOutputWrite is wrapped by every ArchiveError of KindOutputWrite.
	ErrOutputWrite = errors.New("cannot write output archive")
	// ErrMissingManifest is returned when an archive has no manifest entry.
	ErrMissingManifest = errors.New("archive has no META-INF/MANIFEST.MF entry")
)

type (
	// Kind classifies an ArchiveError.
	Kind int

	// ArchiveError reports a failure reading a source archive or writing a
	// destination archive. It wraps both the sentinel for its Kind and the
	// underlying cause, so errors.Is works against either.
	ArchiveError struct {
		Kind Kind
		Path string
		Err  error
	}
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidArchive:
		return "invalid archive"
	case KindOutputWrite:
		return "output write failure"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error implements the error interface.
func (e *ArchiveError) Error() string {
	switch e.Kind {
	case KindInvalidArchive:
		return fmt.Sprintf("invalid archive %s: %v", e.Path, e.Err)
	case KindOutputWrite:
		return fmt.Sprintf("cannot write archive %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("archive %s: %v", e.Path, e.Err)
	}
}

// Unwrap returns the kind sentinel and the underlying cause.
func (e *ArchiveError) Unwrap() []error {
	errs := make([]error, 0, 2)
	switch e.Kind {
	case KindInvalidArchive:
		errs = append(errs, ErrInvalidArchive)
	case KindOutputWrite:
		errs = append(errs, ErrOutputWrite)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func invalidArchive(path string, err error) error {
	return &ArchiveError{Kind: KindInvalidArchive, Path: path, Err: err}
}

func outputWrite(path string, err error) error {
	return &ArchiveError{Kind: KindOutputWrite, Path: path, Err: err}
}
