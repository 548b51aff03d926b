/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"bytes"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/humaidq/labsight/labs"
)

const biomarkerChartID = "biomarker_values"

var statusColors = map[labs.Status]string{
	labs.StatusLow:      "orange",
	labs.StatusNormal:   "green",
	labs.StatusElevated: "orange",
	labs.StatusHigh:     "red",
}

// renderBiomarkerChart draws a bar per numeric record, colored by status.
// Unknown records and blood pressure readings are left out. It returns an
// empty string when nothing can be plotted.
func renderBiomarkerChart(records []labs.EvaluatedRecord) (string, error) {
	xAxis := make([]string, 0, len(records))
	yData := make([]opts.BarData, 0, len(records))

	for _, rec := range records {
		if rec.Status == labs.StatusUnknown {
			continue
		}

		value, ok := rec.NumericValue()
		if !ok {
			continue
		}

		xAxis = append(xAxis, rec.Test)
		yData = append(yData, opts.BarData{
			Name:  rec.Test,
			Value: value,
			ItemStyle: &opts.ItemStyle{
				Color: statusColors[rec.Status],
			},
		})
	}

	if len(yData) == 0 {
		return "", nil
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:   "100%",
			Height:  "360px",
			ChartID: biomarkerChartID,
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Biomarker Values",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{
				Rotate:      30,
				HideOverlap: opts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "Value",
		}),
	)

	bar.SetXAxis(xAxis).AddSeries("Value", yData)

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return "", err
	}

	return buf.String(), nil
}
