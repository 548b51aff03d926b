/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package labs

import (
	"math"
	"strconv"
	"strings"
)

// Record is one raw row of an uploaded report.
type Record struct {
	Test  string
	Value string
	Unit  string
}

// EvaluatedRecord is a classified row. Reference is nil when the biomarker
// has no reference range.
type EvaluatedRecord struct {
	Test           string
	Value          string
	Unit           string
	Status         Status
	Recommendation string
	Reference      *ReferenceRange
}

// NumericValue returns the value as a float when it is a plain number.
func (r EvaluatedRecord) NumericValue() (float64, bool) {
	if strings.Contains(r.Value, "/") {
		return 0, false
	}

	return parseMeasurement(r.Value)
}

// Evaluate normalizes the test name of rec and classifies its value. Values
// containing a slash are read as systolic/diastolic blood pressure.
func (t *Tables) Evaluate(rec Record) EvaluatedRecord {
	out := EvaluatedRecord{
		Test:   t.Normalize(rec.Test),
		Value:  strings.TrimSpace(rec.Value),
		Unit:   strings.TrimSpace(rec.Unit),
		Status: StatusUnknown,
	}

	if r, ok := t.Range(out.Test); ok {
		out.Reference = &r
	}

	if strings.Contains(out.Value, "/") {
		systolic, diastolic, ok := parseBloodPressure(out.Value)
		if !ok {
			return out
		}

		out.Status = classifyBloodPressure(systolic, diastolic)

		// Readings only carry the generic advice; Normal shares the low text.
		if out.Status == StatusElevated || out.Status == StatusHigh {
			out.Recommendation = t.highAdvice
		} else {
			out.Recommendation = t.lowAdvice
		}

		return out
	}

	value, ok := parseMeasurement(out.Value)
	if !ok {
		return out
	}

	if out.Reference == nil || !out.Reference.HasBounds() {
		out.Recommendation = t.unknownText
		return out
	}

	switch ref := out.Reference; {
	case ref.Min != nil && value < *ref.Min:
		out.Status = StatusLow
		out.Recommendation = t.lowRecommendation(out.Test)
	case ref.Max != nil && value > *ref.Max:
		out.Status = StatusHigh
		out.Recommendation = t.highRecommendation(out.Test)
	default:
		out.Status = StatusNormal
		out.Recommendation = t.normalText
	}

	return out
}

// EvaluateAll evaluates every record, preserving input order.
func (t *Tables) EvaluateAll(records []Record) []EvaluatedRecord {
	out := make([]EvaluatedRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, t.Evaluate(rec))
	}

	return out
}

func parseMeasurement(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}

	return v, true
}

func parseBloodPressure(s string) (int, int, bool) {
	systolicText, diastolicText, ok := strings.Cut(s, "/")
	if !ok || strings.Contains(diastolicText, "/") {
		return 0, 0, false
	}

	systolic, err := strconv.Atoi(strings.TrimSpace(systolicText))
	if err != nil {
		return 0, 0, false
	}

	diastolic, err := strconv.Atoi(strings.TrimSpace(diastolicText))
	if err != nil {
		return 0, 0, false
	}

	return systolic, diastolic, true
}

func classifyBloodPressure(systolic, diastolic int) Status {
	switch {
	case diastolic < 60 || systolic < 90:
		return StatusLow
	case systolic <= 120 && diastolic <= 80:
		return StatusNormal
	case systolic <= 139 || diastolic <= 89:
		return StatusElevated
	default:
		return StatusHigh
	}
}
