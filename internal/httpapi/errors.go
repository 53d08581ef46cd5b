// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 JobDesk Contributors

package httpapi

import (
	"errors"
	"net/http"

	"github.com/samber/oops"

	"github.com/jobdesk/jobdesk/internal/category"
	"github.com/jobdesk/jobdesk/internal/job"
	"github.com/jobdesk/jobdesk/internal/notification"
	"github.com/jobdesk/jobdesk/internal/user"
	"github.com/jobdesk/jobdesk/pkg/errutil"
)

// User-visible messages owned by the transport layer.
const (
	msgNotAuthenticated  = "Not authenticated."
	msgAdminsOnly        = "Forbidden: Admins only."
	msgUsersOnly         = "Forbidden: Users only."
	msgInternal          = "Internal server error"
	msgUserNotFound      = "User not found"
	msgCategoryNotFound  = "Category not found"
	msgJobNotFound       = "Job not found"
	msgNotifNotFound     = "Notification not found"
	msgEmailConflict     = "Email already registered."
	msgSignInRequired    = "identifier and password are required."
	msgPasswordsRequired = "Both old and new passwords are required."
)

// statusFor maps a domain error to an HTTP status and a user-visible
// message. Domain errors cross this boundary exactly once; anything without
// a known code becomes a generic 500 so internals never leak.
func statusFor(err error) (int, string) {
	if oopsErr, ok := oops.AsOops(err); ok {
		switch oopsErr.Code() {
		case "ONBOARDING_VALIDATION", "AUTH_OLD_PASSWORD_WRONG":
			return http.StatusBadRequest, oopsErr.Error()
		case "AUTH_INVALID_CREDENTIALS":
			return http.StatusUnauthorized, oopsErr.Error()
		case "USER_NOT_FOUND":
			return http.StatusNotFound, msgUserNotFound
		case "CATEGORY_NOT_FOUND":
			return http.StatusNotFound, msgCategoryNotFound
		case "JOB_NOT_FOUND":
			return http.StatusNotFound, msgJobNotFound
		case "NOTIFICATION_NOT_FOUND":
			return http.StatusNotFound, msgNotifNotFound
		case "USER_EMAIL_CONFLICT":
			return http.StatusConflict, msgEmailConflict
		}
	}

	// Repository fakes return bare sentinels; map those too.
	switch {
	case errors.Is(err, user.ErrNotFound):
		return http.StatusNotFound, msgUserNotFound
	case errors.Is(err, category.ErrNotFound):
		return http.StatusNotFound, msgCategoryNotFound
	case errors.Is(err, job.ErrNotFound):
		return http.StatusNotFound, msgJobNotFound
	case errors.Is(err, notification.ErrNotFound):
		return http.StatusNotFound, msgNotifNotFound
	case errors.Is(err, user.ErrConflict):
		return http.StatusConflict, msgEmailConflict
	}

	return http.StatusInternalServerError, msgInternal
}

// respondError maps err to a response, logging server-side failures with
// their full context.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		errutil.LogError(s.logger, "request failed", err)
	}
	writeError(w, status, message)
}
