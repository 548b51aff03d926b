/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package labs

import (
	"fmt"
	"strings"
)

// Status classifies a measured value relative to its reference range.
type Status string

// Status values.
const (
	StatusLow      Status = "Low"
	StatusNormal   Status = "Normal"
	StatusHigh     Status = "High"
	StatusElevated Status = "Elevated"
	StatusUnknown  Status = "Unknown"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusLow, StatusNormal, StatusElevated, StatusHigh, StatusUnknown}

// ParseStatus parses a status label, ignoring case and surrounding space.
func ParseStatus(s string) (Status, error) {
	for _, status := range Statuses {
		if strings.EqualFold(strings.TrimSpace(s), string(status)) {
			return status, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// IsAbnormal reports whether the status is outside the normal range.
func (s Status) IsAbnormal() bool {
	return s == StatusLow || s == StatusHigh || s == StatusElevated
}

func (s Status) String() string {
	return string(s)
}
