/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package labs

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var defaultTablesYAML []byte

// ReferenceRange holds the inclusive bounds of a biomarker. A nil bound is
// open on that side.
type ReferenceRange struct {
	Name string
	Min  *float64
	Max  *float64
	Unit string
}

// HasBounds reports whether at least one bound is set.
func (r ReferenceRange) HasBounds() bool {
	return r.Min != nil || r.Max != nil
}

// Display formats the range for tables, e.g. "12-16 g/dL".
func (r ReferenceRange) Display() string {
	var b strings.Builder

	switch {
	case r.Min != nil && r.Max != nil:
		b.WriteString(formatBound(*r.Min) + "-" + formatBound(*r.Max))
	case r.Min != nil:
		b.WriteString(">= " + formatBound(*r.Min))
	case r.Max != nil:
		b.WriteString("<= " + formatBound(*r.Max))
	}

	if r.Unit != "" {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}

		b.WriteString(r.Unit)
	}

	return b.String()
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Advice holds the biomarker specific recommendations for each direction.
type Advice struct {
	Low  string `yaml:"low"`
	High string `yaml:"high"`
}

// Condition is a single (biomarker, status) pair of a disease rule.
type Condition struct {
	Test   string
	Status Status
}

// DiseaseRule flags a risk when all of its conditions are present.
type DiseaseRule struct {
	Disease    string
	Advice     string
	Conditions []Condition
}

// Tables is the immutable lookup configuration used by the normalizer,
// evaluator and disease matcher. Build it with LoadTables or DefaultTables
// and share it by pointer; nothing mutates it after loading.
type Tables struct {
	aliases     []alias
	exactAlias  map[string]string
	ranges      map[string]ReferenceRange
	rangeOrder  []string
	advice      map[string]Advice
	lowAdvice   string
	highAdvice  string
	normalText  string
	unknownText string
	rules       []DiseaseRule
}

type alias struct {
	key  string
	name string
}

type tablesDocument struct {
	Aliases         []aliasDocument        `yaml:"aliases"`
	Ranges          []rangeDocument        `yaml:"ranges"`
	Recommendations recommendationDocument `yaml:"recommendations"`
	Diseases        []diseaseDocument      `yaml:"diseases"`
}

type aliasDocument struct {
	Alias string `yaml:"alias"`
	Name  string `yaml:"name"`
}

type rangeDocument struct {
	Name string   `yaml:"name"`
	Min  *float64 `yaml:"min"`
	Max  *float64 `yaml:"max"`
	Unit string   `yaml:"unit"`
}

type recommendationDocument struct {
	Defaults struct {
		Low     string `yaml:"low"`
		High    string `yaml:"high"`
		Normal  string `yaml:"normal"`
		Unknown string `yaml:"unknown"`
	} `yaml:"defaults"`
	Tests map[string]Advice `yaml:"tests"`
}

type diseaseDocument struct {
	Disease    string              `yaml:"disease"`
	Advice     string              `yaml:"advice"`
	Conditions []conditionDocument `yaml:"conditions"`
}

type conditionDocument struct {
	Test   string `yaml:"test"`
	Status string `yaml:"status"`
}

// DefaultTables returns the tables embedded in the binary.
func DefaultTables() (*Tables, error) {
	return LoadTables(bytes.NewReader(defaultTablesYAML))
}

// LoadTablesFile loads tables from a YAML file on disk.
func LoadTablesFile(path string) (*Tables, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open tables file: %w", err)
	}
	defer f.Close()

	tables, err := LoadTables(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return tables, nil
}

// LoadTables decodes and validates a YAML tables document.
func LoadTables(r io.Reader) (*Tables, error) {
	var doc tablesDocument

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTables, err)
	}

	return buildTables(doc)
}

func buildTables(doc tablesDocument) (*Tables, error) {
	t := &Tables{
		exactAlias: make(map[string]string, len(doc.Aliases)),
		ranges:     make(map[string]ReferenceRange, len(doc.Ranges)),
		advice:     make(map[string]Advice, len(doc.Recommendations.Tests)),
	}

	for i, a := range doc.Aliases {
		key := strings.ToLower(strings.TrimSpace(a.Alias))
		name := strings.TrimSpace(a.Name)

		if key == "" || name == "" {
			return nil, fmt.Errorf("%w: aliases[%d]: %w", ErrInvalidTables, i, errEmptyAlias)
		}

		t.aliases = append(t.aliases, alias{key: key, name: name})
		if _, exists := t.exactAlias[key]; !exists {
			t.exactAlias[key] = name
		}
	}

	for i, r := range doc.Ranges {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: ranges[%d]: %w", ErrInvalidTables, i, errEmptyRangeName)
		}

		key := strings.ToLower(name)
		if _, exists := t.ranges[key]; exists {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidTables, name, errDuplicateRange)
		}

		if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidTables, name, errRangeBoundsInverted)
		}

		t.ranges[key] = ReferenceRange{Name: name, Min: r.Min, Max: r.Max, Unit: r.Unit}
		t.rangeOrder = append(t.rangeOrder, key)
	}

	defaults := doc.Recommendations.Defaults
	for _, field := range []struct{ name, text string }{
		{"low", defaults.Low},
		{"high", defaults.High},
		{"normal", defaults.Normal},
		{"unknown", defaults.Unknown},
	} {
		if strings.TrimSpace(field.text) == "" {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidTables, field.name, errMissingDefaultAdvice)
		}
	}

	t.lowAdvice = defaults.Low
	t.highAdvice = defaults.High
	t.normalText = defaults.Normal
	t.unknownText = defaults.Unknown

	for name, advice := range doc.Recommendations.Tests {
		t.advice[strings.ToLower(strings.TrimSpace(name))] = advice
	}

	for i, d := range doc.Diseases {
		label := strings.TrimSpace(d.Disease)
		if label == "" {
			return nil, fmt.Errorf("%w: diseases[%d]: %w", ErrInvalidTables, i, errEmptyRuleLabel)
		}

		if len(d.Conditions) == 0 {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidTables, label, errEmptyRule)
		}

		rule := DiseaseRule{
			Disease:    label,
			Advice:     strings.TrimSpace(d.Advice),
			Conditions: make([]Condition, 0, len(d.Conditions)),
		}

		for _, c := range d.Conditions {
			status, err := ParseStatus(c.Status)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrInvalidTables, label, err)
			}

			rule.Conditions = append(rule.Conditions, Condition{
				Test:   strings.TrimSpace(c.Test),
				Status: status,
			})
		}

		t.rules = append(t.rules, rule)
	}

	return t, nil
}

// Range returns the reference range for a canonical biomarker name.
func (t *Tables) Range(name string) (ReferenceRange, bool) {
	r, ok := t.ranges[strings.ToLower(strings.TrimSpace(name))]
	return r, ok
}

// Ranges returns all reference ranges in declaration order.
func (t *Tables) Ranges() []ReferenceRange {
	out := make([]ReferenceRange, 0, len(t.rangeOrder))
	for _, key := range t.rangeOrder {
		out = append(out, t.ranges[key])
	}

	return out
}

// Rules returns the disease rules in declaration order.
func (t *Tables) Rules() []DiseaseRule {
	out := make([]DiseaseRule, 0, len(t.rules))
	for _, rule := range t.rules {
		rule.Conditions = append([]Condition(nil), rule.Conditions...)
		out = append(out, rule)
	}

	return out
}

func (t *Tables) lowRecommendation(name string) string {
	if a, ok := t.advice[strings.ToLower(name)]; ok && a.Low != "" {
		return a.Low
	}

	return t.lowAdvice
}

func (t *Tables) highRecommendation(name string) string {
	if a, ok := t.advice[strings.ToLower(name)]; ok && a.High != "" {
		return a.High
	}

	return t.highAdvice
}
