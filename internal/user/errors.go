// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 JobDesk Contributors

package user

import "errors"

// ErrNotFound is returned when a requested account does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a unique constraint (email) is violated.
var ErrConflict = errors.New("conflict")
