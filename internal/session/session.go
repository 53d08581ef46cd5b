// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 JobDesk Contributors

// Package session holds per-client state across requests: the in-progress
// registration draft and the authenticated identity, keyed by an opaque
// session token. The transport layer owns token issuance and expiry; this
// package is a dumb bag.
package session

import (
	"context"

	"github.com/jobdesk/jobdesk/internal/user"
)

// Draft accumulates onboarding input before an account exists. Skills and
// Bio are optional annotations; PersonalInfo is the gate to finalization.
type Draft struct {
	Skills       []string                  `json:"skills"`
	PersonalInfo *user.PersonalInformation `json:"personalInformation,omitempty"`
	Bio          *string                   `json:"bio,omitempty"`
}

// State is everything bound to a session token. The zero value is a fresh
// session: no draft, not authenticated.
type State struct {
	Draft  *Draft `json:"draft,omitempty"`
	UserID string `json:"userId,omitempty"`
	Role   string `json:"role,omitempty"`
}

// Authenticated reports whether a user is bound to the session.
func (s State) Authenticated() bool {
	return s.UserID != ""
}

// Store manages session state by token. Implementations must be safe for
// concurrent use; writes to the same token are last-write-wins.
type Store interface {
	// Get returns the state for a token. An unknown token yields the zero
	// State, never an error.
	Get(ctx context.Context, token string) (State, error)

	// PutDraft replaces the draft for a token, creating the session state
	// if absent. Authentication fields are untouched.
	PutDraft(ctx context.Context, token string, draft *Draft) error

	// ClearDraft removes the draft. Idempotent.
	ClearDraft(ctx context.Context, token string) error

	// SetAuth binds an authenticated identity to the session.
	SetAuth(ctx context.Context, token, userID, role string) error

	// ClearAuth revokes the authenticated identity. Idempotent.
	ClearAuth(ctx context.Context, token string) error
}
