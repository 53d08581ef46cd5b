// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 JobDesk Contributors

package auth

import "runtime"

// GatedHasher wraps a PasswordHasher with a concurrency bound. Each argon2id
// computation pins 64 MB, so an unbounded burst of sign-ups can exhaust
// memory; the gate caps in-flight hashes while unrelated request goroutines
// keep running. Callers block until a slot frees.
type GatedHasher struct {
	inner PasswordHasher
	slots chan struct{}
}

// NewGatedHasher wraps inner with at most limit concurrent computations.
// A non-positive limit defaults to GOMAXPROCS.
func NewGatedHasher(inner PasswordHasher, limit int) *GatedHasher {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	return &GatedHasher{
		inner: inner,
		slots: make(chan struct{}, limit),
	}
}

// Hash computes a hash once a slot is available.
func (g *GatedHasher) Hash(password string) (string, error) {
	g.slots <- struct{}{}
	defer func() { <-g.slots }()
	return g.inner.Hash(password)
}

// Verify verifies a password once a slot is available.
func (g *GatedHasher) Verify(password, hash string) (bool, error) {
	g.slots <- struct{}{}
	defer func() { <-g.slots }()
	return g.inner.Verify(password, hash)
}
