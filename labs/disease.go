/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package labs

import "strings"

// DiseaseFinding is a risk flagged by a matching disease rule.
type DiseaseFinding struct {
	Disease string
	Advice  string
}

// MatchDiseases returns a finding for every rule whose conditions are all
// present in records. Findings follow rule declaration order.
func (t *Tables) MatchDiseases(records []EvaluatedRecord) []DiseaseFinding {
	present := make(map[string]struct{}, len(records))
	for _, rec := range records {
		present[conditionKey(rec.Test, rec.Status)] = struct{}{}
	}

	var findings []DiseaseFinding

	for _, rule := range t.rules {
		if !rule.matches(present) {
			continue
		}

		findings = append(findings, DiseaseFinding{
			Disease: rule.Disease,
			Advice:  rule.Advice,
		})
	}

	return findings
}

func (r DiseaseRule) matches(present map[string]struct{}) bool {
	for _, c := range r.Conditions {
		if _, ok := present[conditionKey(c.Test, c.Status)]; !ok {
			return false
		}
	}

	return true
}

func conditionKey(test string, status Status) string {
	return strings.ToLower(strings.TrimSpace(test)) + "\x00" + string(status)
}
