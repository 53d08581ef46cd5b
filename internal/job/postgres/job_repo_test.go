// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 JobDesk Contributors

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobdesk/jobdesk/internal/job"
	"github.com/jobdesk/jobdesk/pkg/errutil"
)

var jobCols = []string{
	"id", "title", "company", "location", "type", "salary",
	"description", "category_id", "name", "posted_by", "created_at", "updated_at",
}

func jobRow(id ulid.ULID, title string, categoryID *string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(jobCols).AddRow(
		id.String(), title, "JobDesk", "Remote", "full-time", "competitive",
		"build things", categoryID, "Engineering", (*string)(nil), now, now,
	)
}

func TestJobRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := ulid.Make()
	now := time.Now()
	mock.ExpectExec(`INSERT INTO jobs`).
		WithArgs(id.String(), "Go Engineer", "JobDesk", "", "", "", "",
			(*string)(nil), (*string)(nil), now, now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewJobRepository(mock)
	err = repo.Create(context.Background(), &job.Job{
		ID: id, Title: "Go Engineer", Company: "JobDesk",
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepository_GetAll(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	catID := ulid.Make().String()
	mock.ExpectQuery(`SELECT(.|\s)*FROM jobs j(.|\s)*LEFT JOIN categories(.|\s)*ORDER BY j\.id DESC`).
		WillReturnRows(jobRow(ulid.Make(), "Go Engineer", &catID))

	repo := NewJobRepository(mock)
	jobs, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Go Engineer", jobs[0].Title)
	assert.Equal(t, "Engineering", jobs[0].CategoryName, "category name is joined in")
	require.NotNil(t, jobs[0].CategoryID)
	assert.Equal(t, catID, jobs[0].CategoryID.String())
}

func TestJobRepository_GetByID(t *testing.T) {
	t.Run("found without category", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		id := ulid.Make()
		mock.ExpectQuery(`SELECT(.|\s)*WHERE j\.id = \$1`).
			WithArgs(id.String()).
			WillReturnRows(jobRow(id, "Go Engineer", nil))

		repo := NewJobRepository(mock)
		j, err := repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Nil(t, j.CategoryID)
		assert.Nil(t, j.PostedBy)
	})

	t.Run("not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		id := ulid.Make()
		mock.ExpectQuery(`SELECT(.|\s)*WHERE j\.id = \$1`).
			WithArgs(id.String()).
			WillReturnRows(pgxmock.NewRows(jobCols))

		repo := NewJobRepository(mock)
		_, err = repo.GetByID(context.Background(), id)
		require.Error(t, err)
		assert.ErrorIs(t, err, job.ErrNotFound)
		errutil.AssertErrorCode(t, err, "JOB_NOT_FOUND")
	})
}

func TestJobRepository_Update(t *testing.T) {
	t.Run("updates then rereads", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		id := ulid.Make()
		title := "Senior Go Engineer"
		mock.ExpectExec(`UPDATE jobs SET`).
			WithArgs(id.String(), &title, (*string)(nil), (*string)(nil),
				(*string)(nil), (*string)(nil), (*string)(nil), (*string)(nil)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectQuery(`SELECT(.|\s)*WHERE j\.id = \$1`).
			WithArgs(id.String()).
			WillReturnRows(jobRow(id, "Senior Go Engineer", nil))

		repo := NewJobRepository(mock)
		j, err := repo.Update(context.Background(), id, job.Update{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "Senior Go Engineer", j.Title)
	})

	t.Run("zero rows means not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		id := ulid.Make()
		mock.ExpectExec(`UPDATE jobs SET`).
			WithArgs(id.String(), (*string)(nil), (*string)(nil), (*string)(nil),
				(*string)(nil), (*string)(nil), (*string)(nil), (*string)(nil)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		repo := NewJobRepository(mock)
		_, err = repo.Update(context.Background(), id, job.Update{})
		assert.ErrorIs(t, err, job.ErrNotFound)
	})
}

func TestJobRepository_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := ulid.Make()
	mock.ExpectQuery(`SELECT(.|\s)*WHERE j\.id = \$1`).
		WithArgs(id.String()).
		WillReturnRows(jobRow(id, "Go Engineer", nil))
	mock.ExpectExec(`DELETE FROM jobs WHERE id = \$1`).
		WithArgs(id.String()).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	repo := NewJobRepository(mock)
	j, err := repo.Delete(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Go Engineer", j.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}
