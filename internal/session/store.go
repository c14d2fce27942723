// Package session keeps anonymous session keys in Redis so a cart cookie
// can only name a session the server actually issued.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-be/internal/config"
	"storefront-be/internal/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "session:"

var ErrMintFailed = errors.New("failed to mint a unique session key")

// redisClient is the subset of redis.Cmdable the store uses.
type redisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

type Store struct {
	rdb redisClient
	ttl time.Duration
}

func NewStore(rdb redisClient, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func NewRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

// Create mints a new session key and records it with the store TTL.
func (s *Store) Create(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 3; attempt++ {
		key := uuid.NewString()

		ok, err := s.rdb.SetNX(ctx, keyPrefix+key, time.Now().Unix(), s.ttl).Result()
		if err != nil {
			return "", fmt.Errorf("create session: %w", err)
		}
		if ok {
			return key, nil
		}

		logger.FromCtx(ctx).Warn("session key collision", zap.Int("attempt", attempt))
	}
	return "", ErrMintFailed
}

// Exists reports whether key was issued and has not expired. A hit slides
// the expiry forward.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.rdb.Exists(ctx, keyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("lookup session: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	if err := s.rdb.Expire(ctx, keyPrefix+key, s.ttl).Err(); err != nil {
		logger.FromCtx(ctx).Warn("failed to refresh session ttl", zap.Error(err))
	}
	return true, nil
}
