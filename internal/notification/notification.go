// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 JobDesk Contributors

// Package notification defines per-user notifications and their persistence
// contract.
package notification

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
)

// ErrNotFound is returned when a requested notification does not exist.
var ErrNotFound = errors.New("not found")

// Notification is a message delivered to one user, optionally tied to a job.
type Notification struct {
	ID        ulid.ULID  `json:"id"`
	UserID    ulid.ULID  `json:"userId"`
	Type      string     `json:"type"`
	Message   string     `json:"message"`
	JobID     *ulid.ULID `json:"jobId,omitempty"`
	Read      bool       `json:"read"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Repository manages notification persistence.
type Repository interface {
	Create(ctx context.Context, n *Notification) error

	// ListByUser returns a user's notifications, newest first.
	ListByUser(ctx context.Context, userID ulid.ULID) ([]*Notification, error)

	Delete(ctx context.Context, id ulid.ULID) (*Notification, error)

	// ClearForUser deletes all notifications for a user.
	ClearForUser(ctx context.Context, userID ulid.ULID) error
}
