// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 JobDesk Contributors

package main

import (
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/jobdesk/jobdesk/internal/store"
)

// databaseURLFromEnv returns DATABASE_URL or an error.
func databaseURLFromEnv() (string, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return "", oops.Code("CONFIG_INVALID").Errorf("DATABASE_URL environment variable is required")
	}
	return databaseURL, nil
}

// withMigrator runs fn with a Migrator, handling setup and teardown.
func withMigrator(fn func(m *store.Migrator) error) error {
	databaseURL, err := databaseURLFromEnv()
	if err != nil {
		return err
	}

	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		_ = migrator.Close() //nolint:errcheck // command result takes precedence
	}()

	return fn(migrator)
}

// NewMigrateCmd creates the migrate subcommand with its actions.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
		Long:  `Apply, roll back, or inspect schema migrations on the PostgreSQL database.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(func(m *store.Migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				cmd.Println("Migrations applied")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations (destructive)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(func(m *store.Migrator) error {
				if err := m.Down(); err != nil {
					return err
				}
				cmd.Println("Migrations rolled back")
				return nil
			})
		},
	})

	var steps int
	stepsCmd := &cobra.Command{
		Use:   "steps",
		Short: "Apply n migrations (negative rolls back)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(func(m *store.Migrator) error {
				if err := m.Steps(steps); err != nil {
					return err
				}
				cmd.Printf("Applied %d migration step(s)\n", steps)
				return nil
			})
		},
	}
	stepsCmd.Flags().IntVarP(&steps, "n", "n", 1, "number of steps (negative rolls back)")
	cmd.AddCommand(stepsCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show the current migration version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(func(m *store.Migrator) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				cmd.Printf("version: %d dirty: %v\n", version, dirty)
				return nil
			})
		},
	})

	var forceVersion int
	forceCmd := &cobra.Command{
		Use:   "force",
		Short: "Set the migration version without running migrations",
		Long:  `Set the recorded schema version. Use only to recover from a dirty state after fixing the database by hand.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(func(m *store.Migrator) error {
				if err := m.Force(forceVersion); err != nil {
					return err
				}
				cmd.Printf("Forced version to %d\n", forceVersion)
				return nil
			})
		},
	}
	forceCmd.Flags().IntVar(&forceVersion, "version", 0, "version to force")
	_ = forceCmd.MarkFlagRequired("version") //nolint:errcheck // flag exists
	cmd.AddCommand(forceCmd)

	return cmd
}
