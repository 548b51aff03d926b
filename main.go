/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/humaidq/labsight/cmd"
)

func main() {
	app := &cli.Command{
		Name:  "labsight",
		Usage: "Labsight - Lab Report Analyzer",
		Commands: []*cli.Command{
			cmd.CmdStart,
			cmd.CmdEvaluate,
			cmd.CmdTables,
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
