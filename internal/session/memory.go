// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 JobDesk Contributors

package session

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store. Suitable for single-instance
// deployments and tests; state is lost on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]State
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]State)}
}

// Get returns the state for a token, or the zero State if unknown.
func (s *MemoryStore) Get(_ context.Context, token string) (State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states[token], nil
}

// PutDraft replaces the draft for a token.
func (s *MemoryStore) PutDraft(_ context.Context, token string, draft *Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.states[token]
	st.Draft = draft
	s.states[token] = st
	return nil
}

// ClearDraft removes the draft for a token.
func (s *MemoryStore) ClearDraft(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[token]
	if !ok {
		return nil
	}
	st.Draft = nil
	s.states[token] = st
	return nil
}

// SetAuth binds an authenticated identity to the session.
func (s *MemoryStore) SetAuth(_ context.Context, token, userID, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.states[token]
	st.UserID = userID
	st.Role = role
	s.states[token] = st
	return nil
}

// ClearAuth revokes the authenticated identity.
func (s *MemoryStore) ClearAuth(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[token]
	if !ok {
		return nil
	}
	st.UserID = ""
	st.Role = ""
	s.states[token] = st
	return nil
}
