package appstate

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	redisclient "github.com/hangrmap/hangrmap-backend/pkg/redis"
)

// SelectionStore keeps each user's current campaign selection in Redis so it
// survives token refreshes and restarts.
type SelectionStore struct {
	client *redisclient.Client
}

// NewSelectionStore wraps the shared Redis client.
func NewSelectionStore(client *redisclient.Client) (*SelectionStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &SelectionStore{client: client}, nil
}

// Get returns the stored selection, or nil when none is set.
func (s *SelectionStore) Get(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	raw, err := s.client.Get(ctx, s.client.SelectionKey(userID.String()))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, nil
		}
		return nil, err
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing stored selection: %w", err)
	}
	return &id, nil
}

// Set stores the selection with no expiry.
func (s *SelectionStore) Set(ctx context.Context, userID, campaignID uuid.UUID) error {
	return s.client.Set(ctx, s.client.SelectionKey(userID.String()), campaignID.String(), 0)
}

// Clear removes the stored selection.
func (s *SelectionStore) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.client.Del(ctx, s.client.SelectionKey(userID.String()))
}
