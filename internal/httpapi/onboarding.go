// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 JobDesk Contributors

package httpapi

import (
	"net/http"

	"github.com/jobdesk/jobdesk/internal/user"
)

// handleStep1 stores the selected skills in the session draft. Malformed or
// absent input degrades to an empty selection; this step never rejects.
func (s *Server) handleStep1(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Skills []string `json:"skills"`
	}
	if err := decodeJSON(r, &body); err != nil {
		body.Skills = []string{}
	}

	skills, err := s.onboarding.SubmitSkills(r.Context(), sessionKey(r.Context()), body.Skills)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": skills})
}

// handleStep2 stores the personal information block in the session draft.
func (s *Server) handleStep2(w http.ResponseWriter, r *http.Request) {
	var body user.PersonalInformation
	if err := decodeJSON(r, &body); err != nil {
		body = user.PersonalInformation{}
	}

	info, err := s.onboarding.SubmitPersonalInfo(r.Context(), sessionKey(r.Context()), body)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": info})
}

// handleStep3 stores the bio in the session draft. Absent input degrades to
// an empty bio; this step never rejects.
func (s *Server) handleStep3(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Bio string `json:"bio"`
	}
	if err := decodeJSON(r, &body); err != nil {
		body.Bio = ""
	}

	bio, err := s.onboarding.SubmitBio(r.Context(), sessionKey(r.Context()), body.Bio)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": bio})
}

// handleStep4 finalizes the registration, persisting the draft as an
// account.
func (s *Server) handleStep4(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		body.Password = ""
	}

	account, err := s.onboarding.Finalize(r.Context(), sessionKey(r.Context()), body.Password)
	if err != nil {
		s.respondError(w, err)
		return
	}

	// The fresh account is signed in on the spot so the next request can hit
	// /profile without a separate /signin round trip.
	if err := s.sessions.SetAuth(r.Context(), sessionKey(r.Context()), account.ID.String(), account.Role); err != nil {
		s.respondError(w, err)
		return
	}

	if s.metrics != nil {
		s.metrics.RegistrationsTot.Inc()
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Registration complete!",
		"userId":  account.ID,
	})
}
