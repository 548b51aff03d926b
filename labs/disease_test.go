// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package labs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchDiseasesPolycythemia(t *testing.T) {
	t.Parallel()

	tables := mustDefaultTables(t)

	findings := tables.MatchDiseases([]EvaluatedRecord{
		{Test: "Hemoglobin", Status: StatusHigh},
		{Test: "Cholesterol", Status: StatusLow},
	})

	require.Len(t, findings, 1)
	assert.Equal(t, "Possible Polycythemia or metabolic disorder", findings[0].Disease)
	assert.Contains(t, findings[0].Advice, "hematologist")
}

func TestMatchDiseasesRequiresEveryCondition(t *testing.T) {
	t.Parallel()

	tables := mustDefaultTables(t)

	assert.Empty(t, tables.MatchDiseases([]EvaluatedRecord{{Test: "Hemoglobin", Status: StatusHigh}}))
	assert.Empty(t, tables.MatchDiseases([]EvaluatedRecord{{Test: "Cholesterol", Status: StatusLow}}))
	assert.Empty(t, tables.MatchDiseases([]EvaluatedRecord{
		{Test: "Hemoglobin", Status: StatusNormal},
		{Test: "Cholesterol", Status: StatusLow},
	}))
	assert.Empty(t, tables.MatchDiseases(nil))
}

func TestMatchDiseasesChecksAllRules(t *testing.T) {
	t.Parallel()

	tables := mustDefaultTables(t)

	findings := tables.MatchDiseases([]EvaluatedRecord{
		{Test: "Vitamin D", Status: StatusLow},
		{Test: "Glucose", Status: StatusHigh},
		{Test: "Calcium", Status: StatusLow},
		{Test: "Blood Pressure", Status: StatusHigh},
		{Test: "Hemoglobin", Status: StatusHigh},
		{Test: "Cholesterol", Status: StatusLow},
		{Test: "Cholesterol", Status: StatusHigh},
	})

	diseases := make([]string, 0, len(findings))
	for _, f := range findings {
		diseases = append(diseases, f.Disease)
	}

	assert.Equal(t, []string{
		"Possible Polycythemia or metabolic disorder",
		"Metabolic Syndrome",
		"Osteoporosis Risk",
	}, diseases)
}

func TestMatchDiseasesElevatedIsNotHigh(t *testing.T) {
	t.Parallel()

	tables := mustDefaultTables(t)

	findings := tables.MatchDiseases([]EvaluatedRecord{
		{Test: "Cholesterol", Status: StatusHigh},
		{Test: "Glucose", Status: StatusHigh},
		{Test: "Blood Pressure", Status: StatusElevated},
	})

	assert.Empty(t, findings)
}

func TestMatchDiseasesIgnoresNameCase(t *testing.T) {
	t.Parallel()

	tables := mustDefaultTables(t)

	findings := tables.MatchDiseases([]EvaluatedRecord{
		{Test: "HEMOGLOBIN", Status: StatusHigh},
		{Test: "cholesterol", Status: StatusLow},
	})

	assert.Len(t, findings, 1)
}
