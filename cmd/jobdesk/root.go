// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 JobDesk Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the JobDesk CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobdesk",
		Short: "JobDesk - a job board with multi-step onboarding",
		Long: `JobDesk serves a job-board API with a multi-step registration flow,
cookie sessions, and role-gated administration.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedAdminCmd())
	cmd.AddCommand(NewStatusCmd())

	return cmd
}
