/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"encoding/gob"

	"github.com/flamego/session"
)

// FlashType represents the type of flash message
type FlashType string

const (
	FlashError   FlashType = "error"
	FlashWarning FlashType = "warning"
)

// FlashMessage is shown once on the next rendered page.
type FlashMessage struct {
	Type    FlashType
	Message string
}

func init() {
	// Register FlashMessage with gob for session serialization
	gob.Register(FlashMessage{})
}

// SetErrorFlash sets an error flash message in the session
func SetErrorFlash(s session.Session, message string) {
	s.SetFlash(FlashMessage{
		Type:    FlashError,
		Message: message,
	})
}

// SetWarningFlash sets a warning flash message in the session
func SetWarningFlash(s session.Session, message string) {
	s.SetFlash(FlashMessage{
		Type:    FlashWarning,
		Message: message,
	})
}
