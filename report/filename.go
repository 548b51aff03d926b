/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package report

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// AllowedExtensions lists the accepted upload extensions, lower-cased and
// without the dot.
var AllowedExtensions = []string{"csv"}

var asciiOnly = transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
	return r > unicode.MaxASCII
})))

// AllowedFile reports whether filename has an accepted extension.
func AllowedFile(filename string) bool {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return false
	}

	ext := strings.ToLower(filename[idx+1:])
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}

	return false
}

// SecureFilename reduces a client supplied filename to a safe ASCII name
// that cannot escape the upload directory. It may return an empty string.
func SecureFilename(filename string) string {
	ascii, _, err := transform.String(asciiOnly, filename)
	if err != nil {
		return ""
	}

	ascii = strings.NewReplacer("/", " ", "\\", " ").Replace(ascii)
	ascii = strings.Join(strings.Fields(ascii), "_")

	var b strings.Builder

	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '_' || r == '.' || r == '-':
			b.WriteRune(r)
		}
	}

	name := strings.Trim(b.String(), "._")
	if name == "" || filepath.Base(name) != name {
		return ""
	}

	return name
}
