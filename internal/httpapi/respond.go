// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 JobDesk Contributors

package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// writeJSON serializes v with the given status. Encoding failures are logged
// but not surfaced; headers are already gone by then.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("response encode failed", "error", err)
	}
}

// writeError emits the canonical error envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// decodeJSON parses a request body into v. An empty body is not an error;
// callers treat missing fields as absent.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close() //nolint:errcheck // body close error is not actionable
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return err //nolint:wrapcheck // callers map to a 400
	}
	return nil
}
