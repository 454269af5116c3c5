package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"startup-sim/internal/models"
	"startup-sim/internal/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Compile-time check to ensure redisStateRepository implements StateRepository
var _ StateRepository = (*redisStateRepository)(nil)

const stateDocumentVersion = 1

type redisStateRepository struct {
	client    *redis.Client
	keyPrefix string
	logger    *zap.Logger
}

// NewRedisStateRepository creates a Redis-backed StateRepository. Each
// session's document lives under "<keyPrefix>:<sessionID>" with no TTL.
func NewRedisStateRepository(client *redis.Client, keyPrefix string, logger *zap.Logger) StateRepository {
	return &redisStateRepository{
		client:    client,
		keyPrefix: keyPrefix,
		logger:    logger.Named("RedisStateRepo"),
	}
}

func (r *redisStateRepository) key(sessionID string) string {
	return fmt.Sprintf("%s:%s", r.keyPrefix, sessionID)
}

// Load fetches and decodes the session document.
func (r *redisStateRepository) Load(ctx context.Context, sessionID string) (*StateDocument, error) {
	key := r.key(sessionID)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Debug("No persisted state for session", zap.String("key", key))
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to load state document from Redis", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("failed to load state document: %w", err)
	}

	// The document is self-authored, so unknown fields mean a corrupt or
	// incompatible value under the key and the decode fails loudly.
	var doc StateDocument
	if err := utils.DecodeStrict(data, &doc); err != nil {
		r.logger.Error("Failed to decode persisted state document", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("failed to decode state document: %w", err)
	}

	r.logger.Debug("State document loaded", zap.String("key", key), zap.Int("bytes", len(data)))
	return &doc, nil
}

// Save encodes and stores the session document under its key.
func (r *redisStateRepository) Save(ctx context.Context, sessionID string, doc *StateDocument) error {
	doc.Version = stateDocumentVersion
	doc.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(doc)
	if err != nil {
		r.logger.Error("Failed to encode state document", zap.Error(err))
		return fmt.Errorf("failed to encode state document: %w", err)
	}

	key := r.key(sessionID)
	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		r.logger.Error("Failed to save state document to Redis", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to save state document: %w", err)
	}

	r.logger.Debug("State document saved", zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}

// Delete removes the session document. Deleting a missing key is not an error.
func (r *redisStateRepository) Delete(ctx context.Context, sessionID string) error {
	key := r.key(sessionID)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Failed to delete state document from Redis", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to delete state document: %w", err)
	}
	return nil
}
