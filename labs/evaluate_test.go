// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package labs

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDefaultTables(t *testing.T) *Tables {
	t.Helper()

	tables, err := DefaultTables()
	require.NoError(t, err)

	return tables
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func TestEvaluateBoundsAreInclusive(t *testing.T) {
	t.Parallel()

	tables := mustDefaultTables(t)

	for _, ref := range tables.Ranges() {
		if ref.Min == nil || ref.Max == nil {
			continue
		}

		t.Run(ref.Name, func(t *testing.T) {
			t.Parallel()

			atMin := tables.Evaluate(Record{Test: ref.Name, Value: formatValue(*ref.Min)})
			assert.Equal(t, StatusNormal, atMin.Status, "value at minimum")
			assert.Equal(t, "Within normal range.", atMin.Recommendation)

			atMax := tables.Evaluate(Record{Test: ref.Name, Value: formatValue(*ref.Max)})
			assert.Equal(t, StatusNormal, atMax.Status, "value at maximum")

			above := tables.Evaluate(Record{Test: ref.Name, Value: formatValue(*ref.Max + 0.01)})
			assert.Equal(t, StatusHigh, above.Status, "value above maximum")
			assert.NotEmpty(t, above.Recommendation)
		})
	}
}

func TestEvaluateBelowMinimum(t *testing.T) {
	t.Parallel()

	tables := mustDefaultTables(t)

	hb := tables.Evaluate(Record{Test: "Hb", Value: "10.2", Unit: "g/dL"})
	assert.Equal(t, "Hemoglobin", hb.Test)
	assert.Equal(t, StatusLow, hb.Status)
	assert.Contains(t, hb.Recommendation, "iron-rich foods")
	assert.Equal(t, "g/dL", hb.Unit)

	hdl := tables.Evaluate(Record{Test: "HDL", Value: "35"})
	assert.Equal(t, StatusLow, hdl.Status)
	assert.Equal(t, "Value below normal. Consider medical follow-up.", hdl.Recommendation)
}

func TestEvaluateAboveMaximumUsesSpecificAdvice(t *testing.T) {
	t.Parallel()

	tables := mustDefaultTables(t)

	got := tables.Evaluate(Record{Test: "Blood Glucose", Value: "180"})
	assert.Equal(t, "Glucose", got.Test)
	assert.Equal(t, StatusHigh, got.Status)
	assert.Contains(t, got.Recommendation, "diabetes evaluation")

	wbc := tables.Evaluate(Record{Test: "WBC", Value: "12.5"})
	assert.Equal(t, StatusHigh, wbc.Status)
	assert.Equal(t, "Value above normal. Consider medical follow-up.", wbc.Recommendation)
}

func TestEvaluateBloodPressure(t *testing.T) {
	t.Parallel()

	tables := mustDefaultTables(t)

	tests := []struct {
		value string
		want  Status
		rec   string
	}{
		{value: "119/79", want: StatusNormal, rec: "Value below normal. Consider medical follow-up."},
		{value: "120/80", want: StatusNormal, rec: "Value below normal. Consider medical follow-up."},
		{value: "140/90", want: StatusHigh, rec: "Value above normal. Consider medical follow-up."},
		{value: "125/85", want: StatusElevated, rec: "Value above normal. Consider medical follow-up."},
		{value: "121/70", want: StatusElevated, rec: "Value above normal. Consider medical follow-up."},
		{value: "85/55", want: StatusLow, rec: "Value below normal. Consider medical follow-up."},
		{value: "110/59", want: StatusLow, rec: "Value below normal. Consider medical follow-up."},
		{value: " 150 / 95 ", want: StatusHigh, rec: "Value above normal. Consider medical follow-up."},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()

			got := tables.Evaluate(Record{Test: "BP", Value: tt.value, Unit: "mmHg"})
			assert.Equal(t, "Blood Pressure", got.Test)
			assert.Equal(t, tt.want, got.Status)
			assert.Equal(t, tt.rec, got.Recommendation)
		})
	}
}

func TestEvaluateMalformedBloodPressureIsUnknown(t *testing.T) {
	t.Parallel()

	tables := mustDefaultTables(t)

	for _, value := range []string{"120/", "/80", "abc/80", "120/80/70", "120.5/80"} {
		got := tables.Evaluate(Record{Test: "Blood Pressure", Value: value})
		assert.Equal(t, StatusUnknown, got.Status, value)
		assert.Empty(t, got.Recommendation, value)
	}
}

func TestEvaluateUnknownBiomarker(t *testing.T) {
	t.Parallel()

	tables := mustDefaultTables(t)

	for _, value := range []string{"1", "0", "-4.2", "99999"} {
		got := tables.Evaluate(Record{Test: "ferritin", Value: value})
		assert.Equal(t, "Ferritin", got.Test)
		assert.Equal(t, StatusUnknown, got.Status)
		assert.Equal(t, "No reference range available for this test.", got.Recommendation)
		assert.Nil(t, got.Reference)
	}
}

func TestEvaluateNumericBloodPressureHasNoRange(t *testing.T) {
	t.Parallel()

	tables := mustDefaultTables(t)

	got := tables.Evaluate(Record{Test: "Blood Pressure", Value: "120"})
	assert.Equal(t, StatusUnknown, got.Status)
	assert.Equal(t, "No reference range available for this test.", got.Recommendation)
}

func TestEvaluateNonNumericValue(t *testing.T) {
	t.Parallel()

	tables := mustDefaultTables(t)

	for _, value := range []string{"", "high", "12,5", "NaN", "Inf", "n/a "} {
		got := tables.Evaluate(Record{Test: "Hemoglobin", Value: value})
		assert.Equal(t, StatusUnknown, got.Status, "value %q", value)
	}

	got := tables.Evaluate(Record{Test: "Hemoglobin", Value: "positive"})
	assert.Empty(t, got.Recommendation)
}

func TestEvaluateAttachesReferenceRange(t *testing.T) {
	t.Parallel()

	tables := mustDefaultTables(t)

	got := tables.Evaluate(Record{Test: "platelets count", Value: "300"})
	require.NotNil(t, got.Reference)
	assert.Equal(t, "Platelets", got.Reference.Name)
	assert.Equal(t, "150-450 x10^3/µL", got.Reference.Display())

	value, ok := got.NumericValue()
	assert.True(t, ok)
	assert.InDelta(t, 300.0, value, 1e-9)
}

func TestEvaluateAllPreservesOrder(t *testing.T) {
	t.Parallel()

	tables := mustDefaultTables(t)

	got := tables.EvaluateAll([]Record{
		{Test: "LDL", Value: "130"},
		{Test: "Vit D", Value: "15"},
		{Test: "Triglycerides", Value: "90"},
	})

	require.Len(t, got, 3)
	assert.Equal(t, []string{"LDL", "Vitamin D", "Triglycerides"}, []string{got[0].Test, got[1].Test, got[2].Test})
	assert.Equal(t, []Status{StatusHigh, StatusLow, StatusNormal}, []Status{got[0].Status, got[1].Status, got[2].Status})
}

func TestClassifyBloodPressureBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		systolic, diastolic int
		want                Status
	}{
		{90, 60, StatusNormal},
		{89, 70, StatusLow},
		{100, 59, StatusLow},
		{120, 81, StatusElevated},
		{139, 95, StatusElevated},
		{145, 89, StatusElevated},
		{140, 90, StatusHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyBloodPressure(tt.systolic, tt.diastolic), "%d/%d", tt.systolic, tt.diastolic)
	}
}
