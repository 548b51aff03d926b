/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package labs

// Analysis is the outcome of evaluating one uploaded report.
type Analysis struct {
	Records  []EvaluatedRecord
	Findings []DiseaseFinding
}

// StatusCount is the number of records with a given status.
type StatusCount struct {
	Status Status
	Count  int
}

// Analyze evaluates every record and matches disease rules against the
// result. It has no side effects, so repeated calls return equal analyses.
func (t *Tables) Analyze(records []Record) Analysis {
	evaluated := t.EvaluateAll(records)

	return Analysis{
		Records:  evaluated,
		Findings: t.MatchDiseases(evaluated),
	}
}

// StatusCounts returns per-status totals in display order, omitting
// statuses with no records.
func (a Analysis) StatusCounts() []StatusCount {
	totals := make(map[Status]int, len(Statuses))
	for _, rec := range a.Records {
		totals[rec.Status]++
	}

	var out []StatusCount

	for _, status := range Statuses {
		if n := totals[status]; n > 0 {
			out = append(out, StatusCount{Status: status, Count: n})
		}
	}

	return out
}

// HasAbnormal reports whether any record is outside its normal range.
func (a Analysis) HasAbnormal() bool {
	for _, rec := range a.Records {
		if rec.Status.IsAbnormal() {
			return true
		}
	}

	return false
}
