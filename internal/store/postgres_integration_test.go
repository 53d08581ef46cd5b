// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 JobDesk Contributors

//go:build integration

package store_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jobdesk/jobdesk/internal/store"
	"github.com/jobdesk/jobdesk/internal/user"
	userpg "github.com/jobdesk/jobdesk/internal/user/postgres"
)

// setupPostgresContainer starts a PostgreSQL container, connects a pool, and
// applies the full migration set.
func setupPostgresContainer() (*pgxpool.Pool, func(), error) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("jobdesk_test"),
		postgres.WithUsername("jobdesk"),
		postgres.WithPassword("jobdesk"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, nil, err
	}

	pool, err := store.Connect(ctx, connStr)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, nil, err
	}

	migrator, err := store.NewMigrator(connStr)
	if err != nil {
		pool.Close()
		_ = container.Terminate(ctx)
		return nil, nil, err
	}
	if err := migrator.Up(); err != nil {
		pool.Close()
		_ = container.Terminate(ctx)
		return nil, nil, err
	}
	_ = migrator.Close()

	cleanup := func() {
		pool.Close()
		_ = container.Terminate(ctx)
	}

	return pool, cleanup, nil
}

func newAccount(email string) *user.Account {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &user.Account{
		ID:           ulid.Make(),
		PasswordHash: "$argon2id$test-hash",
		Role:         user.RoleUser,
		PersonalInformation: user.PersonalInformation{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     email,
			Phone:     "555-0100",
			Location:  "London",
		},
		Skills:               []string{"go", "sql"},
		PrivacySettings:      user.DefaultPrivacySettings(),
		NotificationSettings: user.DefaultNotificationSettings(),
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

var _ = Describe("UserRepository", func() {
	var pool *pgxpool.Pool
	var cleanup func()
	var repo *userpg.UserRepository

	BeforeEach(func() {
		var err error
		pool, cleanup, err = setupPostgresContainer()
		Expect(err).NotTo(HaveOccurred())
		repo = userpg.NewUserRepository(pool)
	})

	AfterEach(func() {
		cleanup()
	})

	Describe("Create and GetByID", func() {
		It("round-trips an account", func() {
			ctx := context.Background()
			account := newAccount("ada@example.com")

			Expect(repo.Create(ctx, account)).To(Succeed())

			got, err := repo.GetByID(ctx, account.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.PersonalInformation).To(Equal(account.PersonalInformation))
			Expect(got.Skills).To(Equal([]string{"go", "sql"}))
			Expect(got.PasswordHash).To(Equal("$argon2id$test-hash"))
			Expect(got.PrivacySettings).To(Equal(user.DefaultPrivacySettings()))
		})

		It("rejects duplicate emails", func() {
			ctx := context.Background()
			Expect(repo.Create(ctx, newAccount("ada@example.com"))).To(Succeed())

			err := repo.Create(ctx, newAccount("ada@example.com"))
			Expect(err).To(MatchError(user.ErrConflict))
		})

		It("returns ErrNotFound for a missing ID", func() {
			_, err := repo.GetByID(context.Background(), ulid.Make())
			Expect(err).To(MatchError(user.ErrNotFound))
		})
	})

	Describe("GetByIdentifier", func() {
		BeforeEach(func() {
			Expect(repo.Create(context.Background(), newAccount("ada@example.com"))).To(Succeed())
		})

		It("matches email case-insensitively", func() {
			got, err := repo.GetByIdentifier(context.Background(), "ADA@example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.PersonalInformation.Email).To(Equal("ada@example.com"))
		})

		It("matches phone, first name, and last name", func() {
			for _, identifier := range []string{"555-0100", "Ada", "Lovelace"} {
				got, err := repo.GetByIdentifier(context.Background(), identifier)
				Expect(err).NotTo(HaveOccurred(), "identifier %q", identifier)
				Expect(got.PersonalInformation.Email).To(Equal("ada@example.com"))
			}
		})

		It("returns ErrNotFound when nothing matches", func() {
			_, err := repo.GetByIdentifier(context.Background(), "ghost")
			Expect(err).To(MatchError(user.ErrNotFound))
		})
	})

	Describe("UpdateProfile", func() {
		It("merges partial updates", func() {
			ctx := context.Background()
			account := newAccount("ada@example.com")
			Expect(repo.Create(ctx, account)).To(Succeed())

			bio := "Analyst and programmer."
			got, err := repo.UpdateProfile(ctx, account.ID, user.ProfileUpdate{Bio: &bio})
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Bio).To(Equal(bio))
			Expect(got.PersonalInformation.Email).To(Equal("ada@example.com"))
		})
	})

	Describe("UpdatePassword", func() {
		It("replaces the stored hash", func() {
			ctx := context.Background()
			account := newAccount("ada@example.com")
			Expect(repo.Create(ctx, account)).To(Succeed())

			Expect(repo.UpdatePassword(ctx, account.ID, "$argon2id$rotated")).To(Succeed())

			got, err := repo.GetByID(ctx, account.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.PasswordHash).To(Equal("$argon2id$rotated"))
		})
	})

	Describe("Delete", func() {
		It("removes the account and returns it", func() {
			ctx := context.Background()
			account := newAccount("ada@example.com")
			Expect(repo.Create(ctx, account)).To(Succeed())

			deleted, err := repo.Delete(ctx, account.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(deleted.ID).To(Equal(account.ID))

			_, err = repo.GetByID(ctx, account.ID)
			Expect(err).To(MatchError(user.ErrNotFound))
		})
	})
})

var _ = Describe("Migrator", func() {
	It("reports a clean version after Up and rolls back with Down", func() {
		ctx := context.Background()

		container, err := postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("jobdesk_test"),
			postgres.WithUsername("jobdesk"),
			postgres.WithPassword("jobdesk"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second),
			),
		)
		Expect(err).NotTo(HaveOccurred())
		defer func() { _ = container.Terminate(ctx) }()

		connStr, err := container.ConnectionString(ctx, "sslmode=disable")
		Expect(err).NotTo(HaveOccurred())

		migrator, err := store.NewMigrator(connStr)
		Expect(err).NotTo(HaveOccurred())
		defer func() { _ = migrator.Close() }()

		version, dirty, err := migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(BeZero())
		Expect(dirty).To(BeFalse())

		Expect(migrator.Up()).To(Succeed())

		version, dirty, err = migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(BeEquivalentTo(4))
		Expect(dirty).To(BeFalse())

		// Up is idempotent.
		Expect(migrator.Up()).To(Succeed())

		Expect(migrator.Down()).To(Succeed())
		version, _, err = migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(BeZero())
	})
})
