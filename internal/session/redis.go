// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 JobDesk Contributors

package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
)

const redisKeyPrefix = "jobdesk:session:"

// RedisStore is a Store backed by Redis, for deployments with more than one
// API instance. State is stored as a JSON blob per token; concurrent writes
// to the same token are last-write-wins.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore. A zero ttl means keys never expire;
// otherwise every write refreshes the TTL, so a session stays alive as long
// as the client keeps using it.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(token string) string {
	return redisKeyPrefix + token
}

// Get returns the state for a token, or the zero State if unknown.
func (s *RedisStore) Get(ctx context.Context, token string) (State, error) {
	raw, err := s.client.Get(ctx, redisKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return State{}, nil
	}
	if err != nil {
		return State{}, oops.Code("SESSION_REDIS_GET_FAILED").
			With("operation", "redis get").
			Wrap(err)
	}

	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		return State{}, oops.Code("SESSION_DECODE_FAILED").
			With("operation", "unmarshal session state").
			Wrap(err)
	}
	return st, nil
}

func (s *RedisStore) put(ctx context.Context, token string, st State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return oops.Code("SESSION_ENCODE_FAILED").
			With("operation", "marshal session state").
			Wrap(err)
	}
	if err := s.client.Set(ctx, redisKey(token), raw, s.ttl).Err(); err != nil {
		return oops.Code("SESSION_REDIS_SET_FAILED").
			With("operation", "redis set").
			Wrap(err)
	}
	return nil
}

// PutDraft replaces the draft for a token.
func (s *RedisStore) PutDraft(ctx context.Context, token string, draft *Draft) error {
	st, err := s.Get(ctx, token)
	if err != nil {
		return err
	}
	st.Draft = draft
	return s.put(ctx, token, st)
}

// ClearDraft removes the draft for a token.
func (s *RedisStore) ClearDraft(ctx context.Context, token string) error {
	st, err := s.Get(ctx, token)
	if err != nil {
		return err
	}
	if st.Draft == nil && !st.Authenticated() {
		// Nothing bound to the token; avoid creating an empty key.
		return nil
	}
	st.Draft = nil
	return s.put(ctx, token, st)
}

// SetAuth binds an authenticated identity to the session.
func (s *RedisStore) SetAuth(ctx context.Context, token, userID, role string) error {
	st, err := s.Get(ctx, token)
	if err != nil {
		return err
	}
	st.UserID = userID
	st.Role = role
	return s.put(ctx, token, st)
}

// ClearAuth revokes the authenticated identity.
func (s *RedisStore) ClearAuth(ctx context.Context, token string) error {
	st, err := s.Get(ctx, token)
	if err != nil {
		return err
	}
	if !st.Authenticated() && st.Draft == nil {
		return nil
	}
	st.UserID = ""
	st.Role = ""
	return s.put(ctx, token, st)
}
