// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 JobDesk Contributors

package auth

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/jobdesk/jobdesk/internal/user"
)

// Service provides sign-in and password management over the account store.
type Service struct {
	users  user.Repository
	hasher PasswordHasher
}

// NewService creates a new Service.
func NewService(users user.Repository, hasher PasswordHasher) (*Service, error) {
	if users == nil {
		return nil, oops.Errorf("user repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	return &Service{users: users, hasher: hasher}, nil
}

// dummyPasswordHash is verified when no account matches the identifier, so
// the response time does not reveal whether the identifier exists. It is not
// a real credential and never matches any password.
//
//nolint:gosec // G101: intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// SignIn authenticates by identifier and password. The identifier matches
// email, phone, first name, or last name; when several accounts match, the
// first in the store's natural order wins. Unknown identifier and wrong
// password both yield ErrInvalidCredentials. The returned account has its
// password hash stripped.
func (s *Service) SignIn(ctx context.Context, identifier, password string) (*user.Account, error) {
	account, lookupErr := s.users.GetByIdentifier(ctx, identifier)

	targetHash := dummyPasswordHash
	accountExists := false

	if lookupErr != nil {
		if !errors.Is(lookupErr, user.ErrNotFound) {
			return nil, oops.Code("AUTH_SIGNIN_FAILED").
				With("operation", "get account by identifier").
				Wrap(lookupErr)
		}
		// Fall through with the dummy hash so timing stays flat.
	} else {
		targetHash = account.PasswordHash
		accountExists = true
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		if !accountExists {
			return nil, ErrInvalidCredentials
		}
		return nil, oops.Code("AUTH_SIGNIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	if !accountExists || !valid {
		return nil, ErrInvalidCredentials
	}

	return account.Stripped(), nil
}

// ChangePassword verifies the old password and atomically replaces the
// stored hash with one computed from the new password. There is no window
// where both passwords are valid.
func (s *Service) ChangePassword(ctx context.Context, accountID ulid.ULID, oldPassword, newPassword string) error {
	account, err := s.users.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return oops.Code("USER_NOT_FOUND").
				With("account_id", accountID.String()).
				Wrap(err)
		}
		return oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "get account by id").
			Wrap(err)
	}

	valid, err := s.hasher.Verify(oldPassword, account.PasswordHash)
	if err != nil {
		return oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "verify old password").
			Wrap(err)
	}
	if !valid {
		return oops.Code("AUTH_OLD_PASSWORD_WRONG").Errorf("%s", MsgOldPasswordWrong)
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "hash new password").
			Wrap(err)
	}

	if err := s.users.UpdatePassword(ctx, accountID, newHash); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return oops.Code("USER_NOT_FOUND").
				With("account_id", accountID.String()).
				Wrap(err)
		}
		return oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "update password hash").
			Wrap(err)
	}
	return nil
}
