/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"os"
	"strings"

	"github.com/flamego/template"
)

const (
	defaultSiteTitle = "Lab Report Analyzer"
	siteTitleEnvVar  = "LABSIGHT_SITE_TITLE"
)

// SiteTitleInjector sets the page title shown in the layout.
func SiteTitleInjector(data template.Data) {
	title := strings.TrimSpace(os.Getenv(siteTitleEnvVar))
	if title == "" {
		title = defaultSiteTitle
	}

	data["PageTitle"] = title
}
