// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 JobDesk Contributors

// Package postgres implements job.Repository using PostgreSQL.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/jobdesk/jobdesk/internal/job"
)

// DB is the subset of pgxpool.Pool the repository needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// JobRepository implements job.Repository using PostgreSQL.
type JobRepository struct {
	pool DB
}

// NewJobRepository creates a new JobRepository.
func NewJobRepository(pool DB) *JobRepository {
	return &JobRepository{pool: pool}
}

// jobSelect joins the category name so listings render without a second query.
const jobSelect = `
	SELECT j.id, j.title, j.company, j.location, j.type, j.salary,
	       j.description, j.category_id, COALESCE(c.name, ''),
	       j.posted_by, j.created_at, j.updated_at
	FROM jobs j
	LEFT JOIN categories c ON c.id = j.category_id`

// Create stores a new job listing.
func (r *JobRepository) Create(ctx context.Context, j *job.Job) error {
	var categoryID, postedBy *string
	if j.CategoryID != nil {
		s := j.CategoryID.String()
		categoryID = &s
	}
	if j.PostedBy != nil {
		s := j.PostedBy.String()
		postedBy = &s
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO jobs (
			id, title, company, location, type, salary,
			description, category_id, posted_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		j.ID.String(), j.Title, j.Company, j.Location, j.Type, j.Salary,
		j.Description, categoryID, postedBy, j.CreatedAt, j.UpdatedAt,
	)
	if err != nil {
		return oops.Code("JOB_CREATE_FAILED").
			With("operation", "insert job").
			With("title", j.Title).
			Wrap(err)
	}
	return nil
}

// GetAll returns all job listings, newest first.
func (r *JobRepository) GetAll(ctx context.Context) ([]*job.Job, error) {
	rows, err := r.pool.Query(ctx, jobSelect+` ORDER BY j.id DESC`)
	if err != nil {
		return nil, oops.Code("JOB_LIST_FAILED").
			With("operation", "query jobs").
			Wrap(err)
	}
	defer rows.Close()

	var jobs []*job.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, oops.Code("JOB_LIST_FAILED").
				With("operation", "scan job row").
				Wrap(err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("JOB_LIST_FAILED").
			With("operation", "iterate job rows").
			Wrap(err)
	}
	return jobs, nil
}

// GetByID retrieves a job by ID.
func (r *JobRepository) GetByID(ctx context.Context, id ulid.ULID) (*job.Job, error) {
	row := r.pool.QueryRow(ctx, jobSelect+` WHERE j.id = $1`, id.String())

	j, err := scanJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("JOB_NOT_FOUND").
			With("id", id.String()).
			Wrap(job.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("JOB_GET_FAILED").
			With("operation", "get job by id").
			With("id", id.String()).
			Wrap(err)
	}
	return j, nil
}

// Update applies a partial update and returns the resulting job.
func (r *JobRepository) Update(ctx context.Context, id ulid.ULID, update job.Update) (*job.Job, error) {
	var categoryID *string
	if update.CategoryID != nil {
		s := update.CategoryID.String()
		categoryID = &s
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE jobs SET
			title = COALESCE($2, title),
			company = COALESCE($3, company),
			location = COALESCE($4, location),
			type = COALESCE($5, type),
			salary = COALESCE($6, salary),
			description = COALESCE($7, description),
			category_id = COALESCE($8, category_id),
			updated_at = now()
		WHERE id = $1
	`, id.String(), update.Title, update.Company, update.Location,
		update.Type, update.Salary, update.Description, categoryID)
	if err != nil {
		return nil, oops.Code("JOB_UPDATE_FAILED").
			With("operation", "update job").
			With("id", id.String()).
			Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, oops.Code("JOB_NOT_FOUND").
			With("id", id.String()).
			Wrap(job.ErrNotFound)
	}

	return r.GetByID(ctx, id)
}

// Delete removes a job and returns the deleted record.
func (r *JobRepository) Delete(ctx context.Context, id ulid.ULID) (*job.Job, error) {
	j, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := r.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id.String()); err != nil {
		return nil, oops.Code("JOB_DELETE_FAILED").
			With("operation", "delete job").
			With("id", id.String()).
			Wrap(err)
	}
	return j, nil
}

func scanJob(row pgx.Row) (*job.Job, error) {
	var (
		j          job.Job
		idStr      string
		categoryID *string
		postedBy   *string
	)
	err := row.Scan(
		&idStr, &j.Title, &j.Company, &j.Location, &j.Type, &j.Salary,
		&j.Description, &categoryID, &j.CategoryName,
		&postedBy, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck // callers wrap with context
	}
	j.ID, err = ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("JOB_CORRUPT_ID").With("id", idStr).Wrap(err)
	}
	if categoryID != nil {
		id, err := ulid.Parse(*categoryID)
		if err != nil {
			return nil, oops.Code("JOB_CORRUPT_CATEGORY_ID").With("id", *categoryID).Wrap(err)
		}
		j.CategoryID = &id
	}
	if postedBy != nil {
		id, err := ulid.Parse(*postedBy)
		if err != nil {
			return nil, oops.Code("JOB_CORRUPT_POSTED_BY").With("id", *postedBy).Wrap(err)
		}
		j.PostedBy = &id
	}
	return &j, nil
}
