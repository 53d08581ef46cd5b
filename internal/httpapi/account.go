// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 JobDesk Contributors

package httpapi

import (
	"net/http"

	"github.com/oklog/ulid/v2"

	"github.com/jobdesk/jobdesk/internal/onboarding"
	"github.com/jobdesk/jobdesk/internal/user"
)

// handleSignIn authenticates by identifier and binds the session to the
// account.
func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, msgSignInRequired)
		return
	}
	if body.Identifier == "" || body.Password == "" {
		writeError(w, http.StatusBadRequest, msgSignInRequired)
		return
	}

	account, err := s.auth.SignIn(r.Context(), body.Identifier, body.Password)
	if err != nil {
		if s.metrics != nil {
			s.metrics.SignInsTotal.WithLabelValues("failure").Inc()
		}
		s.respondError(w, err)
		return
	}

	if err := s.sessions.SetAuth(r.Context(), sessionKey(r.Context()), account.ID.String(), account.Role); err != nil {
		s.respondError(w, err)
		return
	}

	if s.metrics != nil {
		s.metrics.SignInsTotal.WithLabelValues("success").Inc()
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": account})
}

// handleSignOut unbinds the session from its account. The draft, if any,
// survives.
func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.ClearAuth(r.Context(), sessionKey(r.Context())); err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Signed out."})
}

// currentUserID parses the authenticated user ID out of the session state.
func currentUserID(r *http.Request) (ulid.ULID, error) {
	return ulid.Parse(sessionState(r.Context()).UserID) //nolint:wrapcheck // callers map to a response
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := currentUserID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, msgUserNotFound)
		return
	}

	account, err := s.users.GetByID(r.Context(), id)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": account.Stripped()})
}

func (s *Server) handlePatchProfile(w http.ResponseWriter, r *http.Request) {
	id, err := currentUserID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, msgUserNotFound)
		return
	}

	var update user.ProfileUpdate
	if err := decodeJSON(r, &update); err != nil {
		update = user.ProfileUpdate{}
	}

	// A personal-information update replaces the stored block wholesale, so
	// the required fields must all be present.
	if info := update.PersonalInformation; info != nil &&
		(info.FirstName == "" || info.LastName == "" || info.Email == "") {
		writeError(w, http.StatusBadRequest, onboarding.MsgPersonalInfoRequired)
		return
	}

	var account *user.Account
	if update.Empty() {
		account, err = s.users.GetByID(r.Context(), id)
	} else {
		account, err = s.users.UpdateProfile(r.Context(), id, update)
	}
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": account.Stripped()})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, msgPasswordsRequired)
		return
	}
	if body.OldPassword == "" || body.NewPassword == "" {
		writeError(w, http.StatusBadRequest, msgPasswordsRequired)
		return
	}

	id, err := currentUserID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, msgUserNotFound)
		return
	}

	if err := s.auth.ChangePassword(r.Context(), id, body.OldPassword, body.NewPassword); err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Password changed successfully."})
}

// handleListUsers returns every account, credentials stripped. Admin only.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.users.List(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	stripped := make([]*user.Account, 0, len(accounts))
	for _, a := range accounts {
		stripped = append(stripped, a.Stripped())
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": stripped})
}

// handleDeleteUser removes an account by ID and returns the deleted record.
// Admin only.
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := ulid.Parse(r.PathValue("userId"))
	if err != nil {
		writeError(w, http.StatusNotFound, msgUserNotFound)
		return
	}

	account, err := s.users.Delete(r.Context(), id)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": account.Stripped()})
}
