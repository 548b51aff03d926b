// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package labs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalTablesYAML = `
recommendations:
  defaults:
    low: low
    high: high
    normal: normal
    unknown: unknown
`

func TestDefaultTables(t *testing.T) {
	t.Parallel()

	tables := mustDefaultTables(t)

	ranges := tables.Ranges()
	require.NotEmpty(t, ranges)
	assert.Equal(t, "Hemoglobin", ranges[0].Name)

	hb, ok := tables.Range("hemoglobin")
	require.True(t, ok)
	require.NotNil(t, hb.Min)
	require.NotNil(t, hb.Max)
	assert.InDelta(t, 12.0, *hb.Min, 1e-9)
	assert.InDelta(t, 16.0, *hb.Max, 1e-9)
	assert.Equal(t, "g/dL", hb.Unit)

	bp, ok := tables.Range("Blood Pressure")
	require.True(t, ok)
	assert.False(t, bp.HasBounds())
	assert.Equal(t, "mmHg", bp.Display())
	assert.Equal(t, "May cause dizziness; consult doctor.", tables.lowRecommendation("Blood Pressure"))
	assert.Equal(t, "Risk of hypertension; reduce salt, exercise.", tables.highRecommendation("Blood Pressure"))

	rules := tables.Rules()
	require.Len(t, rules, 3)
	assert.Equal(t, "Possible Polycythemia or metabolic disorder", rules[0].Disease)
	assert.Equal(t, []Condition{
		{Test: "Hemoglobin", Status: StatusHigh},
		{Test: "Cholesterol", Status: StatusLow},
	}, rules[0].Conditions)
}

func TestRulesReturnsCopy(t *testing.T) {
	t.Parallel()

	tables := mustDefaultTables(t)

	rules := tables.Rules()
	rules[0].Disease = "changed"
	rules[0].Conditions[0].Status = StatusLow

	fresh := tables.Rules()
	assert.Equal(t, "Possible Polycythemia or metabolic disorder", fresh[0].Disease)
	assert.Equal(t, StatusHigh, fresh[0].Conditions[0].Status)
}

func TestLoadTablesRejectsInvalidDocuments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{name: "empty", doc: ""},
		{name: "malformed", doc: "aliases: [\n"},
		{name: "unknown field", doc: minimalTablesYAML + "extra: true\n"},
		{name: "missing defaults", doc: "ranges: []\n"},
		{name: "empty alias", doc: minimalTablesYAML + "aliases:\n  - { alias: '', name: X }\n"},
		{name: "empty range name", doc: minimalTablesYAML + "ranges:\n  - { min: 1, max: 2 }\n"},
		{name: "inverted range", doc: minimalTablesYAML + "ranges:\n  - { name: X, min: 3, max: 2 }\n"},
		{name: "duplicate range", doc: minimalTablesYAML + "ranges:\n  - { name: X }\n  - { name: x }\n"},
		{name: "rule without label", doc: minimalTablesYAML + "diseases:\n  - conditions: [{ test: X, status: Low }]\n"},
		{name: "rule without conditions", doc: minimalTablesYAML + "diseases:\n  - { disease: D, advice: A }\n"},
		{name: "rule bad status", doc: minimalTablesYAML + "diseases:\n  - disease: D\n    conditions: [{ test: X, status: Severe }]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadTables(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidTables)
		})
	}
}

func TestLoadTablesOpenBounds(t *testing.T) {
	t.Parallel()

	doc := minimalTablesYAML + `
ranges:
  - { name: Ferritin, min: 30, unit: ng/mL }
  - { name: CRP, max: 5, unit: mg/L }
`

	tables, err := LoadTables(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, StatusNormal, tables.Evaluate(Record{Test: "Ferritin", Value: "900"}).Status)
	assert.Equal(t, StatusLow, tables.Evaluate(Record{Test: "Ferritin", Value: "12"}).Status)
	assert.Equal(t, StatusNormal, tables.Evaluate(Record{Test: "crp", Value: "0"}).Status)
	assert.Equal(t, StatusHigh, tables.Evaluate(Record{Test: "crp", Value: "7"}).Status)

	ferritin, ok := tables.Range("ferritin")
	require.True(t, ok)
	assert.Equal(t, ">= 30 ng/mL", ferritin.Display())
}

func TestLoadTablesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tables.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalTablesYAML), 0o600))

	tables, err := LoadTablesFile(path)
	require.NoError(t, err)
	assert.Empty(t, tables.Ranges())

	_, err = LoadTablesFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	got, err := ParseStatus(" elevated ")
	require.NoError(t, err)
	assert.Equal(t, StatusElevated, got)

	_, err = ParseStatus("critical")
	require.ErrorIs(t, err, ErrInvalidStatus)
}
