// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 JobDesk Contributors

package auth

import "github.com/samber/oops"

// User-visible error messages. The transport layer returns these strings
// verbatim, so they must not leak which check failed beyond what the client
// is allowed to learn.
const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgOldPasswordWrong   = "Old password is incorrect"
)

// ErrInvalidCredentials covers both an unknown identifier and a wrong
// password. The two cases share one message to prevent identifier
// enumeration.
var ErrInvalidCredentials = oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("%s", MsgInvalidCredentials)
