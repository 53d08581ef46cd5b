// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 JobDesk Contributors

// Package usertest provides an in-memory user.Repository for tests.
package usertest

import (
	"context"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/jobdesk/jobdesk/internal/user"
)

// FakeRepository is an in-memory user.Repository. Accounts keep insertion
// order, which stands in for the store's natural order. Error fields, when
// set, are returned by the corresponding method instead of touching state.
type FakeRepository struct {
	mu       sync.Mutex
	accounts []*user.Account

	CreateErr error
	GetErr    error
	ListErr   error
	UpdateErr error
	DeleteErr error
}

// NewFakeRepository creates an empty FakeRepository.
func NewFakeRepository() *FakeRepository {
	return &FakeRepository{}
}

// Create stores a copy of the account, enforcing email uniqueness.
func (f *FakeRepository) Create(_ context.Context, account *user.Account) error {
	if f.CreateErr != nil {
		return f.CreateErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, a := range f.accounts {
		if strings.EqualFold(a.PersonalInformation.Email, account.PersonalInformation.Email) {
			return user.ErrConflict
		}
	}
	cp := *account
	f.accounts = append(f.accounts, &cp)
	return nil
}

func (f *FakeRepository) GetByID(_ context.Context, id ulid.ULID) (*user.Account, error) {
	if f.GetErr != nil {
		return nil, f.GetErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, a := range f.accounts {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, user.ErrNotFound
}

func (f *FakeRepository) GetByIdentifier(_ context.Context, identifier string) (*user.Account, error) {
	if f.GetErr != nil {
		return nil, f.GetErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, a := range f.accounts {
		info := a.PersonalInformation
		if strings.EqualFold(info.Email, identifier) ||
			info.Phone == identifier ||
			info.FirstName == identifier ||
			info.LastName == identifier {
			cp := *a
			return &cp, nil
		}
	}
	return nil, user.ErrNotFound
}

func (f *FakeRepository) List(_ context.Context) ([]*user.Account, error) {
	if f.ListErr != nil {
		return nil, f.ListErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*user.Account, 0, len(f.accounts))
	for _, a := range f.accounts {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (f *FakeRepository) UpdateProfile(_ context.Context, id ulid.ULID, update user.ProfileUpdate) (*user.Account, error) {
	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, a := range f.accounts {
		if a.ID != id {
			continue
		}
		if update.PersonalInformation != nil {
			a.PersonalInformation = *update.PersonalInformation
		}
		if update.Bio != nil {
			a.Bio = *update.Bio
		}
		if update.Skills != nil {
			a.Skills = update.Skills
		}
		cp := *a
		return &cp, nil
	}
	return nil, user.ErrNotFound
}

func (f *FakeRepository) UpdatePassword(_ context.Context, id ulid.ULID, passwordHash string) error {
	if f.UpdateErr != nil {
		return f.UpdateErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, a := range f.accounts {
		if a.ID == id {
			a.PasswordHash = passwordHash
			return nil
		}
	}
	return user.ErrNotFound
}

func (f *FakeRepository) Delete(_ context.Context, id ulid.ULID) (*user.Account, error) {
	if f.DeleteErr != nil {
		return nil, f.DeleteErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for i, a := range f.accounts {
		if a.ID == id {
			f.accounts = append(f.accounts[:i], f.accounts[i+1:]...)
			return a, nil
		}
	}
	return nil, user.ErrNotFound
}
