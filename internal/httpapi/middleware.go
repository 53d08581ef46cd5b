// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 JobDesk Contributors

package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/jobdesk/jobdesk/internal/session"
	"github.com/jobdesk/jobdesk/pkg/errutil"
)

// SessionCookie is the name of the session token cookie.
const SessionCookie = "jobdesk_session"

type ctxKey int

const (
	ctxKeySession ctxKey = iota // hashed session token (store key)
	ctxKeyState                 // session.State, set by requireAuth
)

// sessionKey returns the store key for the current request's session.
func sessionKey(ctx context.Context) string {
	key, _ := ctx.Value(ctxKeySession).(string)
	return key
}

// sessionState returns the state loaded by requireAuth.
func sessionState(ctx context.Context) session.State {
	st, _ := ctx.Value(ctxKeyState).(session.State)
	return st
}

// withSession ensures every request carries a session token, issuing a
// cookie on first contact. The store is keyed by the token's hash, so a
// session dump is useless without the client-held token.
func (s *Server) withSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var token string
		if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
			token = cookie.Value
		} else {
			newToken, _, err := session.GenerateToken()
			if err != nil {
				s.respondError(w, err)
				return
			}
			token = newToken
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   int(s.sessionTTL / time.Second),
			})
			if s.metrics != nil {
				s.metrics.SessionsIssued.Inc()
			}
		}

		ctx := context.WithValue(r.Context(), ctxKeySession, session.HashToken(token))
		next(w, r.WithContext(ctx))
	}
}

// requireAuth rejects requests whose session has no bound user. The loaded
// state is placed in the request context for the handler.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return s.withSession(func(w http.ResponseWriter, r *http.Request) {
		st, err := s.sessions.Get(r.Context(), sessionKey(r.Context()))
		if err != nil {
			s.respondError(w, err)
			return
		}
		if !st.Authenticated() {
			writeError(w, http.StatusUnauthorized, msgNotAuthenticated)
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyState, st)
		next(w, r.WithContext(ctx))
	})
}

// requireRole rejects sessions whose role is not exactly the required one.
// There is no hierarchy: an admin does not satisfy a "user" requirement.
func (s *Server) requireRole(role string, next http.HandlerFunc) http.HandlerFunc {
	return s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		st := sessionState(r.Context())
		if st.Role != role {
			message := msgUsersOnly
			if role == "admin" {
				message = msgAdminsOnly
			}
			writeError(w, http.StatusForbidden, message)
			return
		}
		next(w, r)
	})
}

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument wraps a route with access logging and the request counter.
func (s *Server) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		defer func() {
			if p := recover(); p != nil {
				errutil.LogPanic(s.logger, route, p)
				writeError(rec, http.StatusInternalServerError, msgInternal)
			}
			if s.metrics != nil {
				s.metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
			}
			s.logger.Info("request",
				"method", r.Method,
				"route", route,
				"status", rec.status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		}()

		next(rec, r)
	}
}
