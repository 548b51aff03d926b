/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/flamego/flamego"
	"github.com/google/uuid"

	"github.com/humaidq/labsight/logging"
)

const requestIDHeader = "X-Request-Id"

var (
	logger        = logging.Logger(logging.SourceWeb)
	requestLogger = logging.Logger(logging.SourceWebRequest)
)

// RequestLogger logs request metadata and timing for each HTTP request and
// tags the response with a request id.
func RequestLogger(c flamego.Context) {
	start := time.Now()

	requestID := uuid.NewString()
	c.ResponseWriter().Header().Set(requestIDHeader, requestID)

	c.Next()

	status := c.ResponseWriter().Status()
	if status == 0 {
		status = http.StatusOK
	}

	fields := []interface{}{
		"event", "request",
		"request_id", requestID,
		"status", status,
		"duration_ms", time.Since(start).Milliseconds(),
	}
	fields = append(fields, baseRequestFields(c)...)

	requestLogger.Info("request", fields...)
}

func baseRequestFields(c flamego.Context) []interface{} {
	return []interface{}{
		"method", c.Request().Method,
		"path", c.Request().URL.Path,
		"ip", clientIP(c),
		"user_agent", c.Request().UserAgent(),
	}
}

func clientIP(c flamego.Context) string {
	forwardedFor := c.Request().Header.Get("X-Forwarded-For")
	if forwardedFor != "" {
		if idx := strings.Index(forwardedFor, ","); idx != -1 {
			forwardedFor = forwardedFor[:idx]
		}

		if ip := strings.TrimSpace(forwardedFor); ip != "" {
			return ip
		}
	}

	return c.RemoteAddr()
}
