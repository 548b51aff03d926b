/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package labs

import "errors"

var (
	// ErrInvalidTables is wrapped by every reference table validation failure.
	ErrInvalidTables = errors.New("invalid reference tables")
	// ErrInvalidStatus is returned when a status label is not recognised.
	ErrInvalidStatus = errors.New("invalid status")

	errEmptyAlias           = errors.New("alias entry with empty alias or name")
	errEmptyRangeName       = errors.New("range entry with empty name")
	errDuplicateRange       = errors.New("duplicate range")
	errRangeBoundsInverted  = errors.New("range minimum above maximum")
	errMissingDefaultAdvice = errors.New("missing default recommendation")
	errEmptyRule            = errors.New("disease rule without conditions")
	errEmptyRuleLabel       = errors.New("disease rule without a label")
)
