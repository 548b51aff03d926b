/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/urfave/cli/v3"

	"github.com/humaidq/labsight/labs"
	"github.com/humaidq/labsight/report"
)

var (
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	headerStyle = cellStyle.Bold(true)
)

// CmdEvaluate evaluates a report CSV without starting the web server.
var CmdEvaluate = &cli.Command{
	Name:      "evaluate",
	Usage:     "Evaluate a lab report CSV and print the results",
	ArgsUsage: "<report.csv>",
	Flags: []cli.Flag{
		newTablesFlag(),
		&cli.StringFlag{
			Name:  "out",
			Usage: "write the derived results CSV to this file",
		},
	},
	Action: evaluate,
}

func evaluate(_ context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return errReportRequired
	}

	tables, err := loadTables(cmd.String("tables"))
	if err != nil {
		return err
	}

	analysis, err := evaluateFile(tables, path)
	if err != nil {
		return err
	}

	if out := cmd.String("out"); out != "" {
		if err := writeResultsFile(out, analysis.Records); err != nil {
			return err
		}

		appLogger.Info("Wrote results", "path", out, "rows", len(analysis.Records))
	}

	return printAnalysis(cmd.Root().Writer, analysis)
}

func evaluateFile(tables *labs.Tables, path string) (labs.Analysis, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return labs.Analysis{}, fmt.Errorf("failed to open report: %w", err)
	}
	defer f.Close()

	records, err := report.ReadRecords(f)
	if err != nil {
		return labs.Analysis{}, fmt.Errorf("%s: %w", path, err)
	}

	return tables.Analyze(records), nil
}

func writeResultsFile(path string, records []labs.EvaluatedRecord) error {
	f, err := os.OpenFile(filepath.Clean(path), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o640)
	if err != nil {
		return fmt.Errorf("failed to create results file: %w", err)
	}

	if err := report.WriteResults(f, records); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close results file: %w", err)
	}

	return nil
}

func printAnalysis(w io.Writer, analysis labs.Analysis) error {
	rows := make([][]string, 0, len(analysis.Records))

	for _, rec := range analysis.Records {
		reference := ""
		if rec.Reference != nil {
			reference = rec.Reference.Display()
		}

		rows = append(rows, []string{
			rec.Test,
			rec.Value,
			rec.Unit,
			reference,
			rec.Status.String(),
			rec.Recommendation,
		})
	}

	if _, err := fmt.Fprintln(w, newTable("Test", "Value", "Unit", "Reference", "Status", "Recommendation").Rows(rows...)); err != nil {
		return err
	}

	counts := make([]string, 0, len(labs.Statuses))
	for _, sc := range analysis.StatusCounts() {
		counts = append(counts, sc.Status.String()+": "+strconv.Itoa(sc.Count))
	}

	if len(counts) > 0 {
		if _, err := fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, styleAll(counts)...)); err != nil {
			return err
		}
	}

	if len(analysis.Findings) == 0 {
		_, err := fmt.Fprintln(w, "No disease combinations flagged.")
		return err
	}

	findings := make([][]string, 0, len(analysis.Findings))
	for _, finding := range analysis.Findings {
		findings = append(findings, []string{finding.Disease, finding.Advice})
	}

	_, err := fmt.Fprintln(w, newTable("Disease", "Advice").Rows(findings...))

	return err
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			return cellStyle
		}).
		Headers(headers...)
}

func styleAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, cellStyle.Render(v))
	}

	return out
}
