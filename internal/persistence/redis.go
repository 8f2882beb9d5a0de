package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/netdesk/internal/config"
)

// Redis wraps the go-redis client.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

const revokedKeyPrefix = "revoked_jti:"

// TokenRevoker stores revoked access-token IDs until they would have
// expired anyway.
type TokenRevoker struct {
	client *redis.Client
}

// NewTokenRevoker builds a revocation store over the shared client.
func NewTokenRevoker(r *Redis) *TokenRevoker {
	if r == nil {
		return &TokenRevoker{}
	}
	return &TokenRevoker{client: r.Client}
}

// Revoke marks the token ID as revoked for ttl.
func (t *TokenRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if t.client == nil {
		return errors.New("redis client not configured")
	}
	return t.client.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err()
}

// IsRevoked reports whether the token ID has been revoked.
func (t *TokenRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if t.client == nil {
		return false, nil
	}
	n, err := t.client.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
