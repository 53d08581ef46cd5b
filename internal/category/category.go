// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 JobDesk Contributors

// Package category defines job categories and their persistence contract.
package category

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
)

// ErrNotFound is returned when a requested category does not exist.
var ErrNotFound = errors.New("not found")

// Category groups job listings for browsing.
type Category struct {
	ID        ulid.ULID `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	Count     int       `json:"count"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Update is a partial category mutation. Nil fields are left untouched.
type Update struct {
	Name  *string `json:"name,omitempty"`
	Icon  *string `json:"icon,omitempty"`
	Count *int    `json:"count,omitempty"`
	Color *string `json:"color,omitempty"`
}

// Repository manages category persistence.
type Repository interface {
	Create(ctx context.Context, c *Category) error
	GetAll(ctx context.Context) ([]*Category, error)
	GetByID(ctx context.Context, id ulid.ULID) (*Category, error)
	Update(ctx context.Context, id ulid.ULID, update Update) (*Category, error)
	Delete(ctx context.Context, id ulid.ULID) (*Category, error)
}
