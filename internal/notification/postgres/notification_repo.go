// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 JobDesk Contributors

// Package postgres implements notification.Repository using PostgreSQL.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/jobdesk/jobdesk/internal/notification"
)

// DB is the subset of pgxpool.Pool the repository needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NotificationRepository implements notification.Repository using PostgreSQL.
type NotificationRepository struct {
	pool DB
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(pool DB) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

const notificationColumns = `id, user_id, type, message, job_id, read, created_at`

// Create stores a new notification.
func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	var jobID *string
	if n.JobID != nil {
		s := n.JobID.String()
		jobID = &s
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO notifications (id, user_id, type, message, job_id, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, n.ID.String(), n.UserID.String(), n.Type, n.Message, jobID, n.Read, n.CreatedAt)
	if err != nil {
		return oops.Code("NOTIFICATION_CREATE_FAILED").
			With("operation", "insert notification").
			With("user_id", n.UserID.String()).
			Wrap(err)
	}
	return nil
}

// ListByUser returns a user's notifications, newest first. ULIDs sort by
// creation time, so ordering by ID descending is newest-first.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID ulid.ULID) ([]*notification.Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE user_id = $1
		ORDER BY id DESC
	`, userID.String())
	if err != nil {
		return nil, oops.Code("NOTIFICATION_LIST_FAILED").
			With("operation", "query notifications").
			With("user_id", userID.String()).
			Wrap(err)
	}
	defer rows.Close()

	var notifications []*notification.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, oops.Code("NOTIFICATION_LIST_FAILED").
				With("operation", "scan notification row").
				Wrap(err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("NOTIFICATION_LIST_FAILED").
			With("operation", "iterate notification rows").
			Wrap(err)
	}
	return notifications, nil
}

// Delete removes a notification and returns the deleted record.
func (r *NotificationRepository) Delete(ctx context.Context, id ulid.ULID) (*notification.Notification, error) {
	row := r.pool.QueryRow(ctx, `
		DELETE FROM notifications WHERE id = $1
		RETURNING `+notificationColumns+`
	`, id.String())

	n, err := scanNotification(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("NOTIFICATION_NOT_FOUND").
			With("id", id.String()).
			Wrap(notification.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("NOTIFICATION_DELETE_FAILED").
			With("operation", "delete notification").
			With("id", id.String()).
			Wrap(err)
	}
	return n, nil
}

// ClearForUser deletes all notifications for a user.
func (r *NotificationRepository) ClearForUser(ctx context.Context, userID ulid.ULID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE user_id = $1`, userID.String())
	if err != nil {
		return oops.Code("NOTIFICATION_CLEAR_FAILED").
			With("operation", "clear notifications").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return nil
}

func scanNotification(row pgx.Row) (*notification.Notification, error) {
	var (
		n         notification.Notification
		idStr     string
		userIDStr string
		jobID     *string
	)
	err := row.Scan(&idStr, &userIDStr, &n.Type, &n.Message, &jobID, &n.Read, &n.CreatedAt)
	if err != nil {
		return nil, err //nolint:wrapcheck // callers wrap with context
	}
	n.ID, err = ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("NOTIFICATION_CORRUPT_ID").With("id", idStr).Wrap(err)
	}
	n.UserID, err = ulid.Parse(userIDStr)
	if err != nil {
		return nil, oops.Code("NOTIFICATION_CORRUPT_USER_ID").With("id", userIDStr).Wrap(err)
	}
	if jobID != nil {
		id, err := ulid.Parse(*jobID)
		if err != nil {
			return nil, oops.Code("NOTIFICATION_CORRUPT_JOB_ID").With("id", *jobID).Wrap(err)
		}
		n.JobID = &id
	}
	return &n, nil
}
