/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"net/http"

	"github.com/flamego/flamego"
)

// Healthz reports that the server is accepting requests.
func Healthz(c flamego.Context) {
	c.ResponseWriter().Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.ResponseWriter().WriteHeader(http.StatusOK)

	if _, err := c.ResponseWriter().Write([]byte("ok")); err != nil {
		logger.Error("Error writing health response", "error", err)
	}
}
