// internal/adapters/redis_adapter/draft_store.go
package redis_a

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/franchise-reconcile/internal/core/domain"
	"github.com/ammerola/franchise-reconcile/internal/core/ports"
)

const (
	draftKeyPrefix = "draft:"
	// maxDraftRetries bounds optimistic retries when writers collide on one draft
	maxDraftRetries = 10
)

// DraftStore keeps drafts as JSON documents with a sliding TTL
type DraftStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ ports.DraftStore = (*DraftStore)(nil)

// NewDraftStore creates a draft store. Every save extends the draft's TTL.
func NewDraftStore(client *redis.Client, ttl time.Duration, logger *slog.Logger) *DraftStore {
	return &DraftStore{
		client: client,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "draft_store")),
	}
}

// DraftKey returns the Redis key of a draft
func DraftKey(id uuid.UUID) string {
	return draftKeyPrefix + id.String()
}

// Save writes the whole draft
func (s *DraftStore) Save(ctx context.Context, draft *domain.Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}
	if err := s.client.Set(ctx, DraftKey(draft.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set error: %w", err)
	}
	return nil
}

// Get reads a draft, returning domain.ErrDraftNotFound when absent or expired
func (s *DraftStore) Get(ctx context.Context, id uuid.UUID) (*domain.Draft, error) {
	return s.read(ctx, s.client, id)
}

// stringGetter is satisfied by both *redis.Client and *redis.Tx
type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *DraftStore) read(ctx context.Context, c stringGetter, id uuid.UUID) (*domain.Draft, error) {
	data, err := c.Get(ctx, DraftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get error: %w", err)
	}

	var draft domain.Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		s.logger.ErrorContext(ctx, "corrupt draft",
			slog.String("draft_id", id.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}
	return &draft, nil
}

// Delete removes a draft. Deleting a missing draft is not an error.
func (s *DraftStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.client.Del(ctx, DraftKey(id)).Err(); err != nil {
		return fmt.Errorf("redis del error: %w", err)
	}
	return nil
}

// Update runs fn against the current draft under WATCH and writes the result
// in a MULTI block. A concurrent write to the same draft aborts the
// transaction and fn runs again on the fresh copy.
func (s *DraftStore) Update(ctx context.Context, id uuid.UUID, fn ports.DraftMutation) (*domain.Draft, error) {
	var updated *domain.Draft
	err := s.watch(ctx, id, func(tx *redis.Tx) error {
		draft, err := s.read(ctx, tx, id)
		if err != nil {
			return err
		}
		changed, err := fn(draft)
		if err != nil {
			return err
		}
		updated = draft
		if !changed {
			return nil
		}

		data, err := json.Marshal(draft)
		if err != nil {
			return fmt.Errorf("marshal error: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, DraftKey(id), data, s.ttl)
			return nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Take deletes the draft in a MULTI block once check accepts it, so a scan
// landing in between either makes it into the returned draft or fails with
// domain.ErrDraftNotFound.
func (s *DraftStore) Take(ctx context.Context, id uuid.UUID, check func(*domain.Draft) error) (*domain.Draft, error) {
	var taken *domain.Draft
	err := s.watch(ctx, id, func(tx *redis.Tx) error {
		draft, err := s.read(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := check(draft); err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, DraftKey(id))
			return nil
		})
		if err == nil {
			taken = draft
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return taken, nil
}

func (s *DraftStore) watch(ctx context.Context, id uuid.UUID, txf func(tx *redis.Tx) error) error {
	key := DraftKey(id)
	for attempt := 0; attempt < maxDraftRetries; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
		s.logger.DebugContext(ctx, "draft changed during update, retrying",
			slog.String("draft_id", id.String()),
			slog.Int("attempt", attempt+1))
	}
	return fmt.Errorf("draft %s: %w", id, domain.ErrDraftConflict)
}
