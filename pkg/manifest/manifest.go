// SPDX-License-Identifier: MPL-2.0

// Package manifest builds and reads JAR manifest records.
//
// A manifest lives at META-INF/MANIFEST.MF and is a block of "Key: value"
// lines terminated by a blank line. jarmin only ever writes two attributes:
//
//	Manifest-Version: 1.0
//	Main-Class: com.example.Tool
//
// Discovery of an existing Main-Class takes the first match of the
// attribute pattern anywhere in the manifest text, so a malformed manifest
// still yields an entry point as long as the attribute is present.
package manifest

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	// Path is the canonical archive entry name of the manifest.
	Path = "META-INF/MANIFEST.MF"

	// VersionAttr is the manifest version attribute name.
	VersionAttr = "Manifest-Version"
	// MainClassAttr is the entry point attribute name.
	MainClassAttr = "Main-Class"

	// Version is the only manifest version jarmin writes.
	Version = "1.0"
)

var (
	// ErrMissingMainClass is returned when a manifest has no Main-Class attribute.
	ErrMissingMainClass = errors.New("manifest has no Main-Class attribute")

	// ErrInvalidMainClass is the sentinel error wrapped by InvalidMainClassError.
	ErrInvalidMainClass = errors.New("invalid main class")

	mainClassPattern = regexp.MustCompile(`Main-Class:\s*(\S+)`)

	// Java binary names: dot-separated identifiers. The classes mirror
	// Character.isJavaIdentifierStart (letters, letter numbers, currency
	// symbols, connecting punctuation) and isJavaIdentifierPart (adds decimal
	// digits, combining marks and format characters).
	mainClassGrammar = regexp.MustCompile(`^` + javaIdent + `(\.` + javaIdent + `)*$`)
)

const (
	javaIdentStart = `\p{L}\p{Nl}\p{Sc}\p{Pc}`
	javaIdent      = `[` + javaIdentStart + `][` + javaIdentStart + `\p{Nd}\p{Mn}\p{Mc}\p{Cf}]*`
)

type (
	// MainClass is the fully-qualified name of the class whose
	// public static void main(String[]) starts the program.
	MainClass string

	// InvalidMainClassError is returned when a MainClass does not follow
	// the dotted identifier grammar.
	InvalidMainClassError struct {
		Value MainClass
	}
)

// IsPath reports whether an archive entry name is the manifest entry.
// The comparison ignores case; entries are always written back under Path.
func IsPath(name string) bool {
	return strings.ToUpper(name) == Path
}

// Build renders the manifest for mainClass.
func Build(mainClass MainClass) []byte {
	return fmt.Appendf(nil, "%s: %s\n%s: %s\n\n", VersionAttr, Version, MainClassAttr, mainClass)
}

// ParseMainClass returns the first Main-Class value found in data.
func ParseMainClass(data []byte) (MainClass, error) {
	m := mainClassPattern.FindSubmatch(data)
	if m == nil {
		return "", ErrMissingMainClass
	}
	return MainClass(m[1]), nil
}

// String returns the class name.
func (m MainClass) String() string { return string(m) }

// SimpleName returns the last dot-separated segment of the class name.
func (m MainClass) SimpleName() string {
	s := string(m)
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// Validate returns an error if the class name is not a dotted Java identifier.
func (m MainClass) Validate() error {
	if !mainClassGrammar.MatchString(string(m)) {
		return &InvalidMainClassError{Value: m}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidMainClassError) Error() string {
	return fmt.Sprintf("invalid main class %q: must be a dot-separated Java identifier (e.g., 'com.example.Tool')", string(e.Value))
}

// Unwrap returns ErrInvalidMainClass for errors.Is() compatibility.
func (e *InvalidMainClassError) Unwrap() error { return ErrInvalidMainClass }
