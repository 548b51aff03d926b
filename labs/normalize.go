/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package labs

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize maps a free-text test label to its canonical biomarker name.
//
// An exact alias match wins. Otherwise the first alias, in declaration order,
// contained in the label is used. Labels matching no alias are title-cased.
func (t *Tables) Normalize(label string) string {
	name := strings.ToLower(strings.TrimSpace(label))

	if canonical, ok := t.exactAlias[name]; ok {
		return canonical
	}

	for _, a := range t.aliases {
		if strings.Contains(name, a.key) {
			return a.name
		}
	}

	// cases.Caser is stateful, so one is created per call.
	return cases.Title(language.Und).String(name)
}
