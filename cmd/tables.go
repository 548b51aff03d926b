/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/humaidq/labsight/labs"
)

// CmdTables prints the active reference tables. With --tables it also
// validates a custom tables file.
var CmdTables = &cli.Command{
	Name:  "tables",
	Usage: "Print or validate the reference tables",
	Flags: []cli.Flag{
		newTablesFlag(),
	},
	Action: showTables,
}

func showTables(_ context.Context, cmd *cli.Command) error {
	tables, err := loadTables(cmd.String("tables"))
	if err != nil {
		return err
	}

	return printTables(cmd.Root().Writer, tables)
}

func printTables(w io.Writer, tables *labs.Tables) error {
	ranges := tables.Ranges()
	rows := make([][]string, 0, len(ranges))

	for _, r := range ranges {
		rows = append(rows, []string{r.Name, r.Display()})
	}

	if _, err := fmt.Fprintln(w, newTable("Biomarker", "Reference").Rows(rows...)); err != nil {
		return err
	}

	rules := tables.Rules()
	ruleRows := make([][]string, 0, len(rules))

	for _, rule := range rules {
		conditions := make([]string, 0, len(rule.Conditions))
		for _, c := range rule.Conditions {
			conditions = append(conditions, c.Test+" "+c.Status.String())
		}

		ruleRows = append(ruleRows, []string{rule.Disease, strings.Join(conditions, " + ")})
	}

	_, err := fmt.Fprintln(w, newTable("Disease", "Conditions").Rows(ruleRows...))

	return err
}
