// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 JobDesk Contributors

// Package postgres implements user.Repository using PostgreSQL.
package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/jobdesk/jobdesk/internal/user"
)

// DB is the subset of pgxpool.Pool the repository needs. pgxmock satisfies
// it, which keeps the unit tests off a real database.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

const accountColumns = `
	id, password_hash, role, profile_picture,
	first_name, last_name, email, phone, location,
	bio, job_preferences, skills,
	privacy_settings, notification_settings,
	created_at, updated_at`

// UserRepository implements user.Repository using PostgreSQL.
type UserRepository struct {
	pool DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool DB) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create stores a new account. A duplicate email maps to user.ErrConflict.
func (r *UserRepository) Create(ctx context.Context, account *user.Account) error {
	prefsJSON, err := json.Marshal(account.JobPreferences)
	if err != nil {
		return oops.Code("USER_CREATE_FAILED").
			With("operation", "marshal job preferences").
			Wrap(err)
	}
	privacyJSON, err := json.Marshal(account.PrivacySettings)
	if err != nil {
		return oops.Code("USER_CREATE_FAILED").
			With("operation", "marshal privacy settings").
			Wrap(err)
	}
	notifyJSON, err := json.Marshal(account.NotificationSettings)
	if err != nil {
		return oops.Code("USER_CREATE_FAILED").
			With("operation", "marshal notification settings").
			Wrap(err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO users (
			id, password_hash, role, profile_picture,
			first_name, last_name, email, phone, location,
			bio, job_preferences, skills,
			privacy_settings, notification_settings,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, LOWER($7), $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`,
		account.ID.String(),
		account.PasswordHash,
		account.Role,
		account.ProfilePicture,
		account.PersonalInformation.FirstName,
		account.PersonalInformation.LastName,
		account.PersonalInformation.Email,
		account.PersonalInformation.Phone,
		account.PersonalInformation.Location,
		account.Bio,
		prefsJSON,
		account.Skills,
		privacyJSON,
		notifyJSON,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("USER_EMAIL_CONFLICT").
				With("email", account.PersonalInformation.Email).
				Wrap(user.ErrConflict)
		}
		return oops.Code("USER_CREATE_FAILED").
			With("operation", "insert account").
			Wrap(err)
	}
	return nil
}

// GetByID retrieves an account by ID.
func (r *UserRepository) GetByID(ctx context.Context, id ulid.ULID) (*user.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM users
		WHERE id = $1
	`, id.String())

	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("id", id.String()).
			Wrap(user.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_BY_ID_FAILED").
			With("operation", "get account by id").
			With("id", id.String()).
			Wrap(err)
	}
	return account, nil
}

// GetByIdentifier retrieves the first account whose email, phone, first
// name, or last name equals the identifier. Ordering by ID makes "first
// match" deterministic when several accounts match different fields.
func (r *UserRepository) GetByIdentifier(ctx context.Context, identifier string) (*user.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM users
		WHERE email = LOWER($1)
		   OR phone = $1
		   OR first_name = $1
		   OR last_name = $1
		ORDER BY id
		LIMIT 1
	`, identifier)

	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("identifier", identifier).
			Wrap(user.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_BY_IDENTIFIER_FAILED").
			With("operation", "get account by identifier").
			Wrap(err)
	}
	return account, nil
}

// List returns all accounts ordered by ID.
func (r *UserRepository) List(ctx context.Context) ([]*user.Account, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+accountColumns+`
		FROM users
		ORDER BY id
	`)
	if err != nil {
		return nil, oops.Code("USER_LIST_FAILED").
			With("operation", "query accounts").
			Wrap(err)
	}
	defer rows.Close()

	var accounts []*user.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, oops.Code("USER_LIST_FAILED").
				With("operation", "scan account row").
				Wrap(err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("USER_LIST_FAILED").
			With("operation", "iterate account rows").
			Wrap(err)
	}
	return accounts, nil
}

// UpdateProfile applies a partial profile update inside a transaction: the
// row is locked, mutated in memory, and written back, so concurrent updates
// to the same account serialize on the row lock.
func (r *UserRepository) UpdateProfile(ctx context.Context, id ulid.ULID, update user.ProfileUpdate) (*user.Account, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, oops.Code("USER_UPDATE_FAILED").
			With("operation", "begin transaction").
			Wrap(err)
	}
	defer func() {
		_ = tx.Rollback(ctx) //nolint:errcheck // no-op after commit
	}()

	row := tx.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM users
		WHERE id = $1
		FOR UPDATE
	`, id.String())

	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("id", id.String()).
			Wrap(user.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_UPDATE_FAILED").
			With("operation", "lock account row").
			Wrap(err)
	}

	if update.PersonalInformation != nil {
		account.PersonalInformation = *update.PersonalInformation
	}
	if update.Bio != nil {
		account.Bio = *update.Bio
	}
	if update.Skills != nil {
		account.Skills = update.Skills
	}

	_, err = tx.Exec(ctx, `
		UPDATE users SET
			first_name = $2, last_name = $3, email = LOWER($4),
			phone = $5, location = $6, bio = $7, skills = $8,
			updated_at = now()
		WHERE id = $1
	`,
		id.String(),
		account.PersonalInformation.FirstName,
		account.PersonalInformation.LastName,
		account.PersonalInformation.Email,
		account.PersonalInformation.Phone,
		account.PersonalInformation.Location,
		account.Bio,
		account.Skills,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, oops.Code("USER_EMAIL_CONFLICT").
				With("email", account.PersonalInformation.Email).
				Wrap(user.ErrConflict)
		}
		return nil, oops.Code("USER_UPDATE_FAILED").
			With("operation", "update account").
			Wrap(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, oops.Code("USER_UPDATE_FAILED").
			With("operation", "commit transaction").
			Wrap(err)
	}
	return account, nil
}

// UpdatePassword replaces the password hash in a single statement.
func (r *UserRepository) UpdatePassword(ctx context.Context, id ulid.ULID, passwordHash string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET password_hash = $2, updated_at = now()
		WHERE id = $1
	`, id.String(), passwordHash)
	if err != nil {
		return oops.Code("USER_UPDATE_PASSWORD_FAILED").
			With("operation", "update password hash").
			With("id", id.String()).
			Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return oops.Code("USER_NOT_FOUND").
			With("id", id.String()).
			Wrap(user.ErrNotFound)
	}
	return nil
}

// Delete removes an account and returns the deleted record.
func (r *UserRepository) Delete(ctx context.Context, id ulid.ULID) (*user.Account, error) {
	row := r.pool.QueryRow(ctx, `
		DELETE FROM users
		WHERE id = $1
		RETURNING `+accountColumns+`
	`, id.String())

	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("id", id.String()).
			Wrap(user.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_DELETE_FAILED").
			With("operation", "delete account").
			With("id", id.String()).
			Wrap(err)
	}
	return account, nil
}

// scanAccount scans an account from a row using the accountColumns order.
func scanAccount(row pgx.Row) (*user.Account, error) {
	var (
		account     user.Account
		idStr       string
		prefsJSON   []byte
		privacyJSON []byte
		notifyJSON  []byte
	)

	err := row.Scan(
		&idStr,
		&account.PasswordHash,
		&account.Role,
		&account.ProfilePicture,
		&account.PersonalInformation.FirstName,
		&account.PersonalInformation.LastName,
		&account.PersonalInformation.Email,
		&account.PersonalInformation.Phone,
		&account.PersonalInformation.Location,
		&account.Bio,
		&prefsJSON,
		&account.Skills,
		&privacyJSON,
		&notifyJSON,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck // callers wrap with context
	}

	account.ID, err = ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("USER_CORRUPT_ID").
			With("id", idStr).
			Wrap(err)
	}
	if err := json.Unmarshal(prefsJSON, &account.JobPreferences); err != nil {
		return nil, oops.Code("USER_CORRUPT_PREFERENCES").Wrap(err)
	}
	if err := json.Unmarshal(privacyJSON, &account.PrivacySettings); err != nil {
		return nil, oops.Code("USER_CORRUPT_PRIVACY").Wrap(err)
	}
	if err := json.Unmarshal(notifyJSON, &account.NotificationSettings); err != nil {
		return nil, oops.Code("USER_CORRUPT_NOTIFICATIONS").Wrap(err)
	}
	if account.Skills == nil {
		account.Skills = []string{}
	}
	return &account, nil
}
