// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 JobDesk Contributors

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/jobdesk/jobdesk/internal/store"
)

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check database connectivity and schema version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			databaseURL, err := databaseURLFromEnv()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			pool, err := store.Connect(ctx, databaseURL)
			if err != nil {
				return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
			}
			defer pool.Close()
			cmd.Println("database: ok")

			return withMigrator(func(m *store.Migrator) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				cmd.Printf("schema version: %d dirty: %v\n", version, dirty)
				return nil
			})
		},
	}
}
