/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"errors"
	htmltemplate "html/template"
	"io"
	"net/http"
	"net/url"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/humaidq/labsight/labs"
	"github.com/humaidq/labsight/report"
)

const (
	// ReportField is the multipart field carrying the uploaded CSV.
	ReportField = "report"

	indexTemplate         = "index"
	defaultMaxUploadBytes = 10 << 20
)

// UploadOptions configures upload handling.
type UploadOptions struct {
	MaxBytes int64
}

func (o UploadOptions) maxBytes() int64 {
	if o.MaxBytes <= 0 {
		return defaultMaxUploadBytes
	}

	return o.MaxBytes
}

// Index renders the empty upload form.
func Index(t template.Template, data template.Data) {
	data["IsUpload"] = true
	t.HTML(http.StatusOK, indexTemplate)
}

// UploadReport stores an uploaded CSV, evaluates it and renders the results.
func UploadReport(
	c flamego.Context,
	s session.Session,
	t template.Template,
	data template.Data,
	tables *labs.Tables,
	store *report.Store,
	opts UploadOptions,
) {
	if err := c.Request().ParseMultipartForm(opts.maxBytes()); err != nil {
		logger.Error("Error parsing upload form", "error", err)
		SetErrorFlash(s, "Failed to parse upload form")
		c.Redirect("/", http.StatusSeeOther)

		return
	}

	file, header, err := c.Request().FormFile(ReportField)
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) {
			logger.Error("Error reading upload file", "error", err)
		}

		SetErrorFlash(s, "No file part")
		c.Redirect("/", http.StatusSeeOther)

		return
	}

	defer func() {
		if err := file.Close(); err != nil {
			logger.Error("Error closing upload file", "error", err)
		}
	}()

	if header.Filename == "" {
		SetErrorFlash(s, "No selected file")
		c.Redirect("/", http.StatusSeeOther)

		return
	}

	if !report.AllowedFile(header.Filename) {
		SetErrorFlash(s, "Only CSV files are allowed")
		c.Redirect("/", http.StatusSeeOther)

		return
	}

	logger.Info("Uploading file", "filename", header.Filename, "bytes", header.Size)

	upload, err := store.Save(header.Filename, file)
	if err != nil {
		if errors.Is(err, report.ErrDisallowedFile) {
			SetErrorFlash(s, "Only CSV files are allowed")
		} else {
			logger.Error("Error saving upload", "error", err)
			SetErrorFlash(s, "Failed to save upload")
		}

		c.Redirect("/", http.StatusSeeOther)

		return
	}

	analysis, ok := analyseUpload(c, s, tables, store, upload)
	if !ok {
		return
	}

	if err := store.WriteResults(upload, analysis.Records); err != nil {
		logger.Error("Error writing results", "upload", upload.Name, "error", err)
		SetErrorFlash(s, "Failed to save results")
		c.Redirect("/", http.StatusSeeOther)

		return
	}

	renderAnalysis(t, data, upload, analysis)
}

// ViewReport evaluates a previously uploaded report again and renders it.
// The stored results file is left untouched.
func ViewReport(
	c flamego.Context,
	s session.Session,
	t template.Template,
	data template.Data,
	tables *labs.Tables,
	store *report.Store,
) {
	upload, ok := lookupUpload(c, s, store)
	if !ok {
		return
	}

	analysis, ok := analyseUpload(c, s, tables, store, upload)
	if !ok {
		return
	}

	renderAnalysis(t, data, upload, analysis)
}

// DownloadResults sends the derived results CSV of a stored report.
func DownloadResults(c flamego.Context, s session.Session, store *report.Store) {
	upload, ok := lookupUpload(c, s, store)
	if !ok {
		return
	}

	f, err := store.OpenResults(upload)
	if err != nil {
		if !errors.Is(err, report.ErrResultsNotFound) {
			logger.Error("Error opening results", "upload", upload.Name, "error", err)
		}

		SetErrorFlash(s, "Results are not available for this report")
		c.Redirect(reportPath(upload), http.StatusSeeOther)

		return
	}

	defer func() {
		if err := f.Close(); err != nil {
			logger.Error("Error closing results file", "error", err)
		}
	}()

	headers := c.ResponseWriter().Header()
	headers.Set("Content-Type", "text/csv; charset=utf-8")
	headers.Set("Content-Disposition", `attachment; filename="`+upload.ResultsName()+`"`)
	headers.Set("X-Content-Type-Options", "nosniff")

	c.ResponseWriter().WriteHeader(http.StatusOK)

	if _, err := io.Copy(c.ResponseWriter(), f); err != nil {
		logger.Error("Error writing results response", "upload", upload.Name, "error", err)
	}
}

func lookupUpload(c flamego.Context, s session.Session, store *report.Store) (report.Upload, bool) {
	upload, err := store.Lookup(c.Param("name"))
	if err != nil {
		if !errors.Is(err, report.ErrUploadNotFound) {
			logger.Error("Error looking up report", "name", c.Param("name"), "error", err)
		}

		SetErrorFlash(s, "Report not found")
		c.Redirect("/", http.StatusSeeOther)

		return report.Upload{}, false
	}

	return upload, true
}

func analyseUpload(
	c flamego.Context,
	s session.Session,
	tables *labs.Tables,
	store *report.Store,
	upload report.Upload,
) (labs.Analysis, bool) {
	records, err := store.ReadRecords(upload)
	if err != nil {
		switch {
		case errors.Is(err, report.ErrMissingColumns):
			SetErrorFlash(s, `CSV must contain at least "Test" and "Value" columns.`)
		case errors.Is(err, report.ErrEmptyCSV):
			SetWarningFlash(s, "The uploaded CSV is empty")
		default:
			logger.Warn("Error reading CSV", "upload", upload.Name, "error", err)
			SetErrorFlash(s, "Failed to read CSV: "+err.Error())
		}

		c.Redirect("/", http.StatusSeeOther)

		return labs.Analysis{}, false
	}

	if len(records) == 0 {
		SetWarningFlash(s, "The uploaded CSV has no result rows")
		c.Redirect("/", http.StatusSeeOther)

		return labs.Analysis{}, false
	}

	analysis := tables.Analyze(records)

	logger.Info("Analysed report",
		"upload", upload.Name,
		"rows", len(analysis.Records),
		"findings", len(analysis.Findings),
	)

	return analysis, true
}

func renderAnalysis(t template.Template, data template.Data, upload report.Upload, analysis labs.Analysis) {
	chart, err := renderBiomarkerChart(analysis.Records)
	if err != nil {
		logger.Error("Error rendering chart", "upload", upload.Name, "error", err)
	} else if chart != "" {
		data["Chart"] = htmltemplate.HTML(chart) //nolint:gosec // Generated by go-echarts.
	}

	data["IsUpload"] = true
	data["Filename"] = upload.Name
	data["ReportURL"] = reportPath(upload)
	data["ResultsURL"] = reportPath(upload) + "/results.csv"
	data["Results"] = analysis.Records
	data["Findings"] = analysis.Findings
	data["StatusCounts"] = analysis.StatusCounts()
	data["HasAbnormal"] = analysis.HasAbnormal()

	t.HTML(http.StatusOK, indexTemplate)
}

func reportPath(upload report.Upload) string {
	return "/reports/" + url.PathEscape(upload.Name)
}
