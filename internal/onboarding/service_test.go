// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 JobDesk Contributors

package onboarding_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobdesk/jobdesk/internal/auth"
	"github.com/jobdesk/jobdesk/internal/onboarding"
	"github.com/jobdesk/jobdesk/internal/session"
	"github.com/jobdesk/jobdesk/internal/user"
	"github.com/jobdesk/jobdesk/internal/user/usertest"
	"github.com/jobdesk/jobdesk/pkg/errutil"
)

// fakeHasher avoids paying the argon2 cost in every test.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", auth.ErrEmptyPassword
	}
	return "hashed:" + password, nil
}

func (fakeHasher) Verify(password, hash string) (bool, error) {
	return "hashed:"+password == hash, nil
}

type fixture struct {
	svc      *onboarding.Service
	sessions *session.MemoryStore
	users    *usertest.FakeRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	sessions := session.NewMemoryStore()
	users := usertest.NewFakeRepository()
	svc, err := onboarding.NewService(sessions, users, fakeHasher{})
	require.NoError(t, err)
	return &fixture{svc: svc, sessions: sessions, users: users}
}

func submitInfo(t *testing.T, f *fixture, token, email string) {
	t.Helper()
	_, err := f.svc.SubmitPersonalInfo(context.Background(), token, user.PersonalInformation{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     email,
	})
	require.NoError(t, err)
}

func TestSubmitSkills(t *testing.T) {
	ctx := context.Background()

	t.Run("stores skills in the draft", func(t *testing.T) {
		f := newFixture(t)

		skills, err := f.svc.SubmitSkills(ctx, "tok", []string{"go", "sql"})
		require.NoError(t, err)
		assert.Equal(t, []string{"go", "sql"}, skills)

		st, err := f.sessions.Get(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, []string{"go", "sql"}, st.Draft.Skills)
	})

	t.Run("nil is coerced to empty, never an error", func(t *testing.T) {
		f := newFixture(t)

		skills, err := f.svc.SubmitSkills(ctx, "tok", nil)
		require.NoError(t, err)
		assert.NotNil(t, skills)
		assert.Empty(t, skills)
	})

	t.Run("resubmission overwrites", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.SubmitSkills(ctx, "tok", []string{"old"})
		require.NoError(t, err)
		_, err = f.svc.SubmitSkills(ctx, "tok", []string{"new"})
		require.NoError(t, err)

		st, err := f.sessions.Get(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, []string{"new"}, st.Draft.Skills)
	})
}

func TestSubmitPersonalInfo(t *testing.T) {
	ctx := context.Background()

	t.Run("requires first name, last name, and email", func(t *testing.T) {
		f := newFixture(t)

		incomplete := []user.PersonalInformation{
			{LastName: "Lovelace", Email: "ada@example.com"},
			{FirstName: "Ada", Email: "ada@example.com"},
			{FirstName: "Ada", LastName: "Lovelace"},
			{},
		}
		for _, info := range incomplete {
			_, err := f.svc.SubmitPersonalInfo(ctx, "tok", info)
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, "ONBOARDING_VALIDATION")
			assert.Equal(t, onboarding.MsgPersonalInfoRequired, err.Error())
		}

		// A failed submission leaves no partial draft behind.
		st, err := f.sessions.Get(ctx, "tok")
		require.NoError(t, err)
		assert.Nil(t, st.Draft)
	})

	t.Run("phone and location are optional", func(t *testing.T) {
		f := newFixture(t)

		info, err := f.svc.SubmitPersonalInfo(ctx, "tok", user.PersonalInformation{
			FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		})
		require.NoError(t, err)
		assert.Empty(t, info.Phone)
		assert.Empty(t, info.Location)
	})

	t.Run("resubmission is last-write-wins", func(t *testing.T) {
		f := newFixture(t)

		submitInfo(t, f, "tok", "first@example.com")
		submitInfo(t, f, "tok", "second@example.com")

		st, err := f.sessions.Get(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, "second@example.com", st.Draft.PersonalInfo.Email)
	})
}

func TestSubmitBio(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the bio", func(t *testing.T) {
		f := newFixture(t)

		bio, err := f.svc.SubmitBio(ctx, "tok", "I build things.")
		require.NoError(t, err)
		assert.Equal(t, "I build things.", bio)
	})

	t.Run("empty bio is accepted", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.SubmitBio(ctx, "tok", "")
		require.NoError(t, err)

		st, err := f.sessions.Get(ctx, "tok")
		require.NoError(t, err)
		require.NotNil(t, st.Draft.Bio)
		assert.Empty(t, *st.Draft.Bio)
	})
}

func TestFinalize(t *testing.T) {
	ctx := context.Background()

	t.Run("missing password", func(t *testing.T) {
		f := newFixture(t)
		submitInfo(t, f, "tok", "ada@example.com")

		_, err := f.svc.Finalize(ctx, "tok", "")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "ONBOARDING_VALIDATION")
		assert.Equal(t, onboarding.MsgPasswordRequired, err.Error())
	})

	t.Run("missing personal information", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.SubmitSkills(ctx, "tok", []string{"go"})
		require.NoError(t, err)

		_, err = f.svc.Finalize(ctx, "tok", "pw123")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "ONBOARDING_VALIDATION")
		assert.Equal(t, onboarding.MsgPersonalInfoMissing, err.Error())
	})

	t.Run("minimal flow: step2 then step4", func(t *testing.T) {
		f := newFixture(t)
		submitInfo(t, f, "tok", "ada@example.com")

		account, err := f.svc.Finalize(ctx, "tok", "pw123")
		require.NoError(t, err)
		assert.Equal(t, user.RoleUser, account.Role)
		assert.Equal(t, "ada@example.com", account.PersonalInformation.Email)
		assert.Empty(t, account.PasswordHash, "returned account must be stripped")
		assert.NotNil(t, account.Skills)
		assert.Empty(t, account.Skills)
		assert.Empty(t, account.Bio)
		assert.Equal(t, user.DefaultPrivacySettings(), account.PrivacySettings)
		assert.Equal(t, user.DefaultNotificationSettings(), account.NotificationSettings)

		// The stored record carries the hash, never the plaintext.
		stored, err := f.users.GetByID(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, "hashed:pw123", stored.PasswordHash)
	})

	t.Run("full flow in any step order", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.SubmitBio(ctx, "tok", "bio first")
		require.NoError(t, err)
		submitInfo(t, f, "tok", "ada@example.com")
		_, err = f.svc.SubmitSkills(ctx, "tok", []string{"go"})
		require.NoError(t, err)

		account, err := f.svc.Finalize(ctx, "tok", "pw123")
		require.NoError(t, err)
		assert.Equal(t, "bio first", account.Bio)
		assert.Equal(t, []string{"go"}, account.Skills)
	})

	t.Run("clears the draft on success", func(t *testing.T) {
		f := newFixture(t)
		submitInfo(t, f, "tok", "ada@example.com")

		_, err := f.svc.Finalize(ctx, "tok", "pw123")
		require.NoError(t, err)

		st, err := f.sessions.Get(ctx, "tok")
		require.NoError(t, err)
		assert.Nil(t, st.Draft)

		// Finalizing again needs a fresh draft.
		_, err = f.svc.Finalize(ctx, "tok", "pw123")
		require.Error(t, err)
		assert.Equal(t, onboarding.MsgPersonalInfoMissing, err.Error())
	})

	t.Run("duplicate email conflicts and keeps the draft", func(t *testing.T) {
		f := newFixture(t)

		submitInfo(t, f, "tok-a", "ada@example.com")
		_, err := f.svc.Finalize(ctx, "tok-a", "pw123")
		require.NoError(t, err)

		submitInfo(t, f, "tok-b", "ada@example.com")
		_, err = f.svc.Finalize(ctx, "tok-b", "pw456")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "USER_EMAIL_CONFLICT")

		// The failed session can retry after fixing the email.
		st, err := f.sessions.Get(ctx, "tok-b")
		require.NoError(t, err)
		require.NotNil(t, st.Draft)
		submitInfo(t, f, "tok-b", "grace@example.com")
		_, err = f.svc.Finalize(ctx, "tok-b", "pw456")
		assert.NoError(t, err)
	})

	t.Run("sessions do not share drafts", func(t *testing.T) {
		f := newFixture(t)
		submitInfo(t, f, "tok-a", "ada@example.com")

		_, err := f.svc.Finalize(ctx, "tok-b", "pw123")
		require.Error(t, err)
		assert.Equal(t, onboarding.MsgPersonalInfoMissing, err.Error())
	})
}
