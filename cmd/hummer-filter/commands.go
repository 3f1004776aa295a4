/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/tomoncle/hummer-dao/specification"
	"github.com/tomoncle/hummer-dao/types"
	"github.com/tomoncle/hummer-dao/utils"
)

var log = utils.NewLogger("HUMMER-FILTER")

func newRootCommand() *cobra.Command {
	var logLevel string
	root := &cobra.Command{
		Use:   "hummer-filter",
		Short: "Translate filter documents into SQL",
		Long: `hummer-filter reads a field schema and a list of filters and prints the
SELECT statement the filters translate to for a given SQL dialect.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if logLevel != "" {
				utils.ConfigureLogLevel(logLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.AddCommand(newTranslateCommand(), newOperatorsCommand())
	return root
}

type translateOptions struct {
	schemaPath  string
	filtersPath string
	table       string
	dialect     string
	orders      []string
	limit       int
}

func newTranslateCommand() *cobra.Command {
	opts := &translateOptions{}
	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Print the SELECT statement for a filter document",
		Example: `  hummer-filter translate --schema orders.yaml --filters filters.json --table orders
  cat filters.json | hummer-filter translate --schema orders.yaml --filters - --table orders --dialect mysql`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := translate(opts, cmd.InOrStdin())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), query)
			return err
		},
	}
	cmd.Flags().StringVar(&opts.schemaPath, "schema", "", "YAML file describing the fields")
	cmd.Flags().StringVar(&opts.filtersPath, "filters", "", "JSON file with a list of filters, - for stdin")
	cmd.Flags().StringVar(&opts.table, "table", "", "table to select from")
	cmd.Flags().StringVar(&opts.dialect, "dialect", "pg", "SQL dialect: pg, mysql or sqlite")
	cmd.Flags().StringArrayVar(&opts.orders, "order", nil, `ORDER BY term such as "createdAt DESC", repeatable`)
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "LIMIT, 0 for none")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("filters")
	_ = cmd.MarkFlagRequired("table")
	return cmd
}

func translate(opts *translateOptions, stdin io.Reader) (string, error) {
	schemaData, err := os.ReadFile(opts.schemaPath)
	if err != nil {
		return "", fmt.Errorf("failed to read schema: %w", err)
	}
	fields, err := specification.ParseSchemaYAML(schemaData)
	if err != nil {
		return "", err
	}

	filters, err := readFilters(opts.filtersPath, stdin)
	if err != nil {
		return "", err
	}
	pred, err := specification.NewTranslator(fields).Combine(filters...)
	if err != nil {
		return "", err
	}
	if pred != nil {
		log.WithFields(logrus.Fields{"table": opts.table, "predicate": pred.String()}).Debug("Translated filters")
	}

	db, err := newDB(opts.dialect)
	if err != nil {
		return "", err
	}
	defer func() { _ = db.Close() }()

	q := db.NewSelect().TableExpr("?", bun.Ident(opts.table)).ColumnExpr("*")
	if pred != nil {
		q = q.ApplyQueryBuilder(pred.Apply)
	}
	for _, raw := range opts.orders {
		order, err := types.ParseOrder(raw)
		if err != nil {
			return "", err
		}
		field, err := fields.ResolveField(order.Field)
		if err != nil {
			return "", fmt.Errorf("invalid order %s: %w", order, err)
		}
		if order.Desc {
			q = q.OrderExpr("? DESC", bun.Ident(field.Column))
		} else {
			q = q.OrderExpr("? ASC", bun.Ident(field.Column))
		}
	}
	if opts.limit > 0 {
		q = q.Limit(opts.limit)
	}
	return q.String(), nil
}

func readFilters(path string, stdin io.Reader) ([]specification.Filter, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read filters: %w", err)
	}
	var filters []specification.Filter
	if err := json.Unmarshal(data, &filters); err != nil {
		return nil, fmt.Errorf("failed to parse filters: %w", err)
	}
	return filters, nil
}

// newDB returns a bun DB used only to format queries in the chosen dialect.
func newDB(dialect string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:")
	if err != nil {
		return nil, err
	}
	switch dialect {
	case "pg", "postgres", "postgresql":
		return bun.NewDB(sqldb, pgdialect.New()), nil
	case "mysql":
		return bun.NewDB(sqldb, mysqldialect.New()), nil
	case "sqlite", "sqlite3":
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	}
	_ = sqldb.Close()
	return nil, fmt.Errorf("unsupported dialect: %s", dialect)
}

func newOperatorsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "operators",
		Short: "List the supported filter operators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, op := range specification.Operators() {
				_, _ = fmt.Fprintf(w, "%s\t%s\n", op.Name(), op.Desc())
			}
			return w.Flush()
		},
	}
}
