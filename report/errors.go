/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package report

import "errors"

var (
	// ErrEmptyCSV is returned when the upload has no header row.
	ErrEmptyCSV = errors.New("CSV file is empty")
	// ErrMissingColumns is returned when the Test or Value column is absent.
	ErrMissingColumns = errors.New(`CSV must contain at least "Test" and "Value" columns`)
	// ErrDisallowedFile is returned for uploads that are not CSV files.
	ErrDisallowedFile = errors.New("only CSV files are allowed")
	// ErrUploadNotFound is returned when a stored upload does not exist.
	ErrUploadNotFound = errors.New("upload not found")
	// ErrResultsNotFound is returned when an upload has no derived results.
	ErrResultsNotFound = errors.New("results not found")

	errEmptyFilename = errors.New("empty filename")
)
