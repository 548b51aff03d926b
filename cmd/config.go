/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/humaidq/labsight/labs"
)

const (
	runtimeEnvVar = "LABSIGHT_ENV"
	tablesEnvVar  = "LABSIGHT_TABLES"
)

func newTablesFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "tables",
		Sources: cli.EnvVars(tablesEnvVar),
		Usage:   "YAML file with reference ranges, aliases and disease rules (defaults to the built-in tables)",
	}
}

// loadTables reads the tables file at path, or the built-in tables when
// path is empty.
func loadTables(path string) (*labs.Tables, error) {
	if strings.TrimSpace(path) == "" {
		tables, err := labs.DefaultTables()
		if err != nil {
			return nil, fmt.Errorf("failed to load built-in tables: %w", err)
		}

		return tables, nil
	}

	tables, err := labs.LoadTablesFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load tables: %w", err)
	}

	return tables, nil
}

// isProductionEnv reports whether value selects production mode.
func isProductionEnv(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "development", "dev":
		return false, nil
	case "production", "prod":
		return true, nil
	default:
		return false, errInvalidRuntimeEnv
	}
}
