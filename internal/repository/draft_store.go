package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/tidynest/service-booking/internal/domain/wizard"
	"github.com/tidynest/service-booking/internal/pkg/domain"
)

const draftKeyPrefix = "wizard:session:"

// RedisDraftStore keeps live wizard sessions in Redis with a sliding TTL.
// Every Put refreshes the expiry, so a session stays alive as long as the
// customer keeps moving through the wizard.
type RedisDraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDraftStore creates a RedisDraftStore.
func NewRedisDraftStore(client *redis.Client, ttl time.Duration) *RedisDraftStore {
	return &RedisDraftStore{client: client, ttl: ttl}
}

// Put saves or refreshes a session.
func (s *RedisDraftStore) Put(ctx context.Context, session *wizard.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal wizard session: %w", err)
	}
	if err := s.client.Set(ctx, draftKey(session.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store wizard session: %w", err)
	}
	return nil
}

// Get retrieves a session by id. An expired session is indistinguishable from
// one that never existed; both come back as a not-found error.
func (s *RedisDraftStore) Get(ctx context.Context, id uuid.UUID) (*wizard.Session, error) {
	data, err := s.client.Get(ctx, draftKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.NewNotFoundError("Session", id.String())
		}
		return nil, fmt.Errorf("failed to load wizard session: %w", err)
	}

	var session wizard.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wizard session: %w", err)
	}
	return &session, nil
}

// Delete removes a session.
func (s *RedisDraftStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.client.Del(ctx, draftKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete wizard session: %w", err)
	}
	return nil
}

func draftKey(id uuid.UUID) string {
	return draftKeyPrefix + id.String()
}
