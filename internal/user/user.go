// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 JobDesk Contributors

// Package user defines the durable account entity and its persistence contract.
package user

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// Roles assignable to an account.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// PersonalInformation is the identity block captured during onboarding.
// Email is unique across all accounts; phone and location are optional.
type PersonalInformation struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Location  string `json:"location,omitempty"`
}

// JobPreferences carries job-matching settings. The core never reads these;
// they are stored and returned verbatim.
type JobPreferences struct {
	PreferredLocation string `json:"preferredLocation"`
	MinSalary         int64  `json:"minSalary"`
	MaxSalary         int64  `json:"maxSalary"`
	OpenToRemote      bool   `json:"openToRemote"`
}

// PrivacySettings controls profile visibility. Pass-through only.
type PrivacySettings struct {
	ProfileVisibleToEmployers bool `json:"profileVisibleToEmployers"`
	ShowEmail                 bool `json:"showEmail"`
	ShowPhoneNumber           bool `json:"showPhoneNumber"`
}

// NotificationSettings controls which notification kinds a user receives.
// Pass-through only.
type NotificationSettings struct {
	JobAlerts          bool `json:"jobAlerts"`
	ApplicationUpdates bool `json:"applicationUpdates"`
	Messages           bool `json:"messages"`
}

// DefaultPrivacySettings returns the settings applied to new accounts.
func DefaultPrivacySettings() PrivacySettings {
	return PrivacySettings{ProfileVisibleToEmployers: true}
}

// DefaultNotificationSettings returns the settings applied to new accounts.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{JobAlerts: true, ApplicationUpdates: true, Messages: true}
}

// Account is a persisted user record. PasswordHash is never serialized.
type Account struct {
	ID                   ulid.ULID            `json:"id"`
	PasswordHash         string               `json:"-"`
	Role                 string               `json:"role"`
	ProfilePicture       string               `json:"profilePicture"`
	PersonalInformation  PersonalInformation  `json:"personalInformation"`
	Bio                  string               `json:"bio"`
	JobPreferences       JobPreferences       `json:"jobPreferences"`
	Skills               []string             `json:"skills"`
	PrivacySettings      PrivacySettings      `json:"privacySettings"`
	NotificationSettings NotificationSettings `json:"notifications"`
	CreatedAt            time.Time            `json:"createdAt"`
	UpdatedAt            time.Time            `json:"updatedAt"`
}

// Stripped returns a copy safe to hand to the transport layer. The hash is
// already excluded from JSON output; clearing it as well means a stripped
// account can never be used to verify a password.
func (a *Account) Stripped() *Account {
	cp := *a
	cp.PasswordHash = ""
	return &cp
}

// ProfileUpdate is a partial profile mutation. Nil fields are left untouched.
type ProfileUpdate struct {
	PersonalInformation *PersonalInformation `json:"personalInformation,omitempty"`
	Bio                 *string              `json:"bio,omitempty"`
	Skills              []string             `json:"skills,omitempty"`
}

// Empty reports whether the update would change nothing.
func (u ProfileUpdate) Empty() bool {
	return u.PersonalInformation == nil && u.Bio == nil && u.Skills == nil
}

// Repository manages account persistence.
type Repository interface {
	// Create stores a new account. A duplicate email returns ErrConflict.
	Create(ctx context.Context, account *Account) error

	// GetByID retrieves an account by ID. Returns ErrNotFound if missing.
	GetByID(ctx context.Context, id ulid.ULID) (*Account, error)

	// GetByIdentifier retrieves the first account whose email, phone,
	// first name, or last name equals identifier, in the store's natural
	// order. Returns ErrNotFound if nothing matches.
	GetByIdentifier(ctx context.Context, identifier string) (*Account, error)

	// List returns all accounts ordered by ID.
	List(ctx context.Context) ([]*Account, error)

	// UpdateProfile applies a partial profile update and returns the
	// resulting account. Returns ErrNotFound if missing.
	UpdateProfile(ctx context.Context, id ulid.ULID, update ProfileUpdate) (*Account, error)

	// UpdatePassword replaces the password hash in a single write.
	UpdatePassword(ctx context.Context, id ulid.ULID, passwordHash string) error

	// Delete removes an account and returns the deleted record.
	// Returns ErrNotFound if missing.
	Delete(ctx context.Context, id ulid.ULID) (*Account, error)
}
