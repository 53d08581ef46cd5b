// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 JobDesk Contributors

// Package job defines job listings and their persistence contract.
package job

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
)

// ErrNotFound is returned when a requested job does not exist.
var ErrNotFound = errors.New("not found")

// Job is a posted job listing. CategoryName is denormalized on read.
type Job struct {
	ID           ulid.ULID  `json:"id"`
	Title        string     `json:"title"`
	Company      string     `json:"company"`
	Location     string     `json:"location"`
	Type         string     `json:"type"`
	Salary       string     `json:"salary"`
	Description  string     `json:"description"`
	CategoryID   *ulid.ULID `json:"categoryId,omitempty"`
	CategoryName string     `json:"categoryName,omitempty"`
	PostedBy     *ulid.ULID `json:"postedBy,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Update is a partial job mutation. Nil fields are left untouched.
type Update struct {
	Title       *string    `json:"title,omitempty"`
	Company     *string    `json:"company,omitempty"`
	Location    *string    `json:"location,omitempty"`
	Type        *string    `json:"type,omitempty"`
	Salary      *string    `json:"salary,omitempty"`
	Description *string    `json:"description,omitempty"`
	CategoryID  *ulid.ULID `json:"categoryId,omitempty"`
}

// Repository manages job persistence.
type Repository interface {
	Create(ctx context.Context, j *Job) error
	GetAll(ctx context.Context) ([]*Job, error)
	GetByID(ctx context.Context, id ulid.ULID) (*Job, error)
	Update(ctx context.Context, id ulid.ULID, update Update) (*Job, error)
	Delete(ctx context.Context, id ulid.ULID) (*Job, error)
}
