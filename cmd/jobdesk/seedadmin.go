// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 JobDesk Contributors

package main

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/jobdesk/jobdesk/internal/auth"
	"github.com/jobdesk/jobdesk/internal/store"
	"github.com/jobdesk/jobdesk/internal/user"
	userpg "github.com/jobdesk/jobdesk/internal/user/postgres"
)

// NewSeedAdminCmd creates the seed-admin subcommand.
func NewSeedAdminCmd() *cobra.Command {
	var (
		email     string
		password  string
		firstName string
		lastName  string
	)

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create an admin account",
		Long: `Create an account with the admin role. Registration through the API
always produces regular users; this is the only way to mint an admin.`,
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

			hash, err := auth.NewArgon2idHasher().Hash(password)
			if err != nil {
				return oops.With("operation", "hash password").Wrap(err)
			}

			now := time.Now()
			account := &user.Account{
				ID:           ulid.Make(),
				PasswordHash: hash,
				Role:         user.RoleAdmin,
				PersonalInformation: user.PersonalInformation{
					FirstName: firstName,
					LastName:  lastName,
					Email:     email,
				},
				Skills:               []string{},
				PrivacySettings:      user.DefaultPrivacySettings(),
				NotificationSettings: user.DefaultNotificationSettings(),
				CreatedAt:            now,
				UpdatedAt:            now,
			}

			if err := userpg.NewUserRepository(pool).Create(ctx, account); err != nil {
				return oops.With("operation", "create admin account").Wrap(err)
			}

			cmd.Printf("Admin account created: %s (%s)\n", email, account.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	cmd.Flags().StringVar(&firstName, "first-name", "Admin", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "User", "last name")
	_ = cmd.MarkFlagRequired("email")    //nolint:errcheck // flag exists
	_ = cmd.MarkFlagRequired("password") //nolint:errcheck // flag exists

	return cmd
}
