/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/humaidq/labsight/labs"
)

// Column names of the input and derived CSV files.
const (
	ColumnTest           = "Test"
	ColumnValue          = "Value"
	ColumnUnit           = "Unit"
	ColumnStatus         = "Status"
	ColumnRecommendation = "Recommendation"
)

var resultsHeader = []string{ColumnTest, ColumnValue, ColumnUnit, ColumnStatus, ColumnRecommendation}

// ReadRecords parses an uploaded CSV. The header must name Test and Value
// columns; Unit is optional and other columns are ignored. Rows with only
// blank cells are skipped.
func ReadRecords(r io.Reader) ([]labs.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyCSV
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))

	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}

		name = strings.TrimSpace(name)
		if _, exists := columns[name]; !exists {
			columns[name] = i
		}
	}

	testCol, hasTest := columns[ColumnTest]
	valueCol, hasValue := columns[ColumnValue]

	if !hasTest || !hasValue {
		return nil, ErrMissingColumns
	}

	unitCol, hasUnit := columns[ColumnUnit]
	if !hasUnit {
		unitCol = -1
	}

	var records []labs.Record

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		if isBlankRow(row) {
			continue
		}

		records = append(records, labs.Record{
			Test:  cell(row, testCol),
			Value: cell(row, valueCol),
			Unit:  cell(row, unitCol),
		})
	}

	return records, nil
}

// WriteResults writes evaluated records as the derived results CSV.
func WriteResults(w io.Writer, records []labs.EvaluatedRecord) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(resultsHeader); err != nil {
		return fmt.Errorf("failed to write results header: %w", err)
	}

	for _, rec := range records {
		if err := writer.Write([]string{
			rec.Test,
			rec.Value,
			rec.Unit,
			rec.Status.String(),
			rec.Recommendation,
		}); err != nil {
			return fmt.Errorf("failed to write results row: %w", err)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush results: %w", err)
	}

	return nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func isBlankRow(row []string) bool {
	for _, value := range row {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}

	return true
}
