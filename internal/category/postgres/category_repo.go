// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 JobDesk Contributors

// Package postgres implements category.Repository using PostgreSQL.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/jobdesk/jobdesk/internal/category"
)

// DB is the subset of pgxpool.Pool the repository needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CategoryRepository implements category.Repository using PostgreSQL.
type CategoryRepository struct {
	pool DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(pool DB) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

const categoryColumns = `id, name, icon, count, color, created_at, updated_at`

// Create stores a new category.
func (r *CategoryRepository) Create(ctx context.Context, c *category.Category) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO categories (id, name, icon, count, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, c.ID.String(), c.Name, c.Icon, c.Count, c.Color, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return oops.Code("CATEGORY_CREATE_FAILED").
			With("operation", "insert category").
			With("name", c.Name).
			Wrap(err)
	}
	return nil
}

// GetAll returns all categories ordered by name.
func (r *CategoryRepository) GetAll(ctx context.Context) ([]*category.Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+categoryColumns+` FROM categories ORDER BY name
	`)
	if err != nil {
		return nil, oops.Code("CATEGORY_LIST_FAILED").
			With("operation", "query categories").
			Wrap(err)
	}
	defer rows.Close()

	var categories []*category.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, oops.Code("CATEGORY_LIST_FAILED").
				With("operation", "scan category row").
				Wrap(err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("CATEGORY_LIST_FAILED").
			With("operation", "iterate category rows").
			Wrap(err)
	}
	return categories, nil
}

// GetByID retrieves a category by ID.
func (r *CategoryRepository) GetByID(ctx context.Context, id ulid.ULID) (*category.Category, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+categoryColumns+` FROM categories WHERE id = $1
	`, id.String())

	c, err := scanCategory(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("CATEGORY_NOT_FOUND").
			With("id", id.String()).
			Wrap(category.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("CATEGORY_GET_FAILED").
			With("operation", "get category by id").
			With("id", id.String()).
			Wrap(err)
	}
	return c, nil
}

// Update applies a partial update and returns the resulting category.
func (r *CategoryRepository) Update(ctx context.Context, id ulid.ULID, update category.Update) (*category.Category, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE categories SET
			name = COALESCE($2, name),
			icon = COALESCE($3, icon),
			count = COALESCE($4, count),
			color = COALESCE($5, color),
			updated_at = now()
		WHERE id = $1
		RETURNING `+categoryColumns+`
	`, id.String(), update.Name, update.Icon, update.Count, update.Color)

	c, err := scanCategory(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("CATEGORY_NOT_FOUND").
			With("id", id.String()).
			Wrap(category.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("CATEGORY_UPDATE_FAILED").
			With("operation", "update category").
			With("id", id.String()).
			Wrap(err)
	}
	return c, nil
}

// Delete removes a category and returns the deleted record.
func (r *CategoryRepository) Delete(ctx context.Context, id ulid.ULID) (*category.Category, error) {
	row := r.pool.QueryRow(ctx, `
		DELETE FROM categories WHERE id = $1
		RETURNING `+categoryColumns+`
	`, id.String())

	c, err := scanCategory(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("CATEGORY_NOT_FOUND").
			With("id", id.String()).
			Wrap(category.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("CATEGORY_DELETE_FAILED").
			With("operation", "delete category").
			With("id", id.String()).
			Wrap(err)
	}
	return c, nil
}

func scanCategory(row pgx.Row) (*category.Category, error) {
	var (
		c     category.Category
		idStr string
	)
	err := row.Scan(&idStr, &c.Name, &c.Icon, &c.Count, &c.Color, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err //nolint:wrapcheck // callers wrap with context
	}
	c.ID, err = ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("CATEGORY_CORRUPT_ID").With("id", idStr).Wrap(err)
	}
	return &c, nil
}
