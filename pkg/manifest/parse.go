// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
)

type (
	// Attribute is a single "Key: value" pair from the manifest main section.
	Attribute struct {
		Key   string
		Value string
	}

	// Manifest is the decoded main section of a manifest, in file order.
	Manifest struct {
		Attributes []Attribute
	}
)

// Parse decodes the main section of a manifest. Continuation lines (a
// leading single space) are joined onto the previous value. Parsing stops
// at the first blank line; per-entry sections are not decoded.
func Parse(data []byte) (*Manifest, error) {
	m := &Manifest{}

	scanner := bufio.NewScanner(bytes.NewReader(normalizeNewlines(data)))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			break
		}

		if strings.HasPrefix(line, " ") {
			if len(m.Attributes) == 0 {
				return nil, fmt.Errorf("line %d: continuation line without a preceding attribute", lineNo)
			}
			m.Attributes[len(m.Attributes)-1].Value += line[1:]
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok || key == "" {
			return nil, fmt.Errorf("line %d: expected 'Key: value', got %q", lineNo, line)
		}
		m.Attributes = append(m.Attributes, Attribute{
			Key:   key,
			Value: strings.TrimPrefix(value, " "),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	return m, nil
}

// Get returns the value of the first attribute named key. Attribute names
// are matched case-insensitively.
func (m *Manifest) Get(key string) (string, bool) {
	for _, attr := range m.Attributes {
		if strings.EqualFold(attr.Key, key) {
			return attr.Value, true
		}
	}
	return "", false
}

// MainClass returns the Main-Class attribute, or ErrMissingMainClass.
func (m *Manifest) MainClass() (MainClass, error) {
	v, ok := m.Get(MainClassAttr)
	if !ok || strings.TrimSpace(v) == "" {
		return "", ErrMissingMainClass
	}
	return MainClass(strings.TrimSpace(v)), nil
}

func normalizeNewlines(data []byte) []byte {
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	return bytes.ReplaceAll(data, []byte("\r"), []byte("\n"))
}
