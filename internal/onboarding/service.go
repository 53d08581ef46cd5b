// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 JobDesk Contributors

// Package onboarding implements the multi-step registration flow: partial
// submissions accumulate in a session-held draft until finalization persists
// a complete account.
package onboarding

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/jobdesk/jobdesk/internal/auth"
	"github.com/jobdesk/jobdesk/internal/session"
	"github.com/jobdesk/jobdesk/internal/user"
)

// User-visible validation messages, returned verbatim by the API.
const (
	MsgPersonalInfoRequired = "firstName, lastName, and email are required."
	MsgPasswordRequired     = "Password is required to complete registration."
	MsgPersonalInfoMissing  = "Cannot complete registration. Personal information missing (Step 2)."
)

// Service drives a draft registration through its steps. Steps may run in
// any order, any number of times; only Finalize enforces content gates.
type Service struct {
	sessions session.Store
	users    user.Repository
	hasher   auth.PasswordHasher
}

// NewService creates a new Service.
func NewService(sessions session.Store, users user.Repository, hasher auth.PasswordHasher) (*Service, error) {
	if sessions == nil {
		return nil, oops.Errorf("session store is required")
	}
	if users == nil {
		return nil, oops.Errorf("user repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	return &Service{sessions: sessions, users: users, hasher: hasher}, nil
}

// draftFor returns the current draft for a token, creating an empty one if
// the session has none yet.
func (s *Service) draftFor(ctx context.Context, token string) (*session.Draft, error) {
	st, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, oops.Code("ONBOARDING_SESSION_FAILED").
			With("operation", "get session state").
			Wrap(err)
	}
	if st.Draft == nil {
		return &session.Draft{}, nil
	}
	return st.Draft, nil
}

func (s *Service) putDraft(ctx context.Context, token string, draft *session.Draft) error {
	if err := s.sessions.PutDraft(ctx, token, draft); err != nil {
		return oops.Code("ONBOARDING_SESSION_FAILED").
			With("operation", "put draft").
			Wrap(err)
	}
	return nil
}

// SubmitSkills stores the selected skills in the draft. A nil slice is
// coerced to empty; the step never fails on input.
func (s *Service) SubmitSkills(ctx context.Context, token string, skills []string) ([]string, error) {
	if skills == nil {
		skills = []string{}
	}

	draft, err := s.draftFor(ctx, token)
	if err != nil {
		return nil, err
	}
	draft.Skills = skills
	if err := s.putDraft(ctx, token, draft); err != nil {
		return nil, err
	}
	return skills, nil
}

// SubmitPersonalInfo stores the identity block in the draft. First name,
// last name, and email are required; re-submission overwrites the previous
// block (last-write-wins).
func (s *Service) SubmitPersonalInfo(ctx context.Context, token string, info user.PersonalInformation) (*user.PersonalInformation, error) {
	if info.FirstName == "" || info.LastName == "" || info.Email == "" {
		return nil, oops.Code("ONBOARDING_VALIDATION").Errorf("%s", MsgPersonalInfoRequired)
	}

	draft, err := s.draftFor(ctx, token)
	if err != nil {
		return nil, err
	}
	draft.PersonalInfo = &info
	if err := s.putDraft(ctx, token, draft); err != nil {
		return nil, err
	}
	return &info, nil
}

// SubmitBio stores the bio in the draft. An absent bio becomes the empty
// string; the step never fails on input.
func (s *Service) SubmitBio(ctx context.Context, token, bio string) (string, error) {
	draft, err := s.draftFor(ctx, token)
	if err != nil {
		return "", err
	}
	draft.Bio = &bio
	if err := s.putDraft(ctx, token, draft); err != nil {
		return "", err
	}
	return bio, nil
}

// Finalize promotes the draft to a persisted account. It requires a
// password and a previously submitted personal information block; skills
// and bio default to empty. On success the draft is cleared, so a session
// can immediately start a fresh registration. On failure the draft is left
// untouched and no partial write survives.
func (s *Service) Finalize(ctx context.Context, token, password string) (*user.Account, error) {
	if password == "" {
		return nil, oops.Code("ONBOARDING_VALIDATION").Errorf("%s", MsgPasswordRequired)
	}

	st, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, oops.Code("ONBOARDING_SESSION_FAILED").
			With("operation", "get session state").
			Wrap(err)
	}
	if st.Draft == nil || st.Draft.PersonalInfo == nil {
		return nil, oops.Code("ONBOARDING_VALIDATION").Errorf("%s", MsgPersonalInfoMissing)
	}
	draft := st.Draft

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, oops.Code("ONBOARDING_HASH_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	skills := draft.Skills
	if skills == nil {
		skills = []string{}
	}
	bio := ""
	if draft.Bio != nil {
		bio = *draft.Bio
	}

	now := time.Now()
	account := &user.Account{
		ID:                   ulid.Make(),
		PasswordHash:         hash,
		Role:                 user.RoleUser,
		PersonalInformation:  *draft.PersonalInfo,
		Bio:                  bio,
		Skills:               skills,
		PrivacySettings:      user.DefaultPrivacySettings(),
		NotificationSettings: user.DefaultNotificationSettings(),
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.users.Create(ctx, account); err != nil {
		if errors.Is(err, user.ErrConflict) {
			return nil, oops.Code("USER_EMAIL_CONFLICT").
				With("email", account.PersonalInformation.Email).
				Wrap(err)
		}
		return nil, oops.Code("ONBOARDING_PERSIST_FAILED").
			With("operation", "create account").
			Wrap(err)
	}

	// The account is durable at this point; a failed draft cleanup must not
	// fail the registration.
	_ = s.sessions.ClearDraft(ctx, token) //nolint:errcheck // Best effort, account already persisted

	return account.Stripped(), nil
}
