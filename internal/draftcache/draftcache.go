// Package draftcache checkpoints edit-session drafts in Redis so a session
// survives a restart or moves between replicas.
package draftcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kylejryan/claims-admin/internal/logger"
	"github.com/kylejryan/claims-admin/internal/session"
)

const keyPrefix = "client-session:"

// commands is the subset of the Redis client the cache uses.
type commands interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

// Cache implements session.Checkpointer on Redis.
type Cache struct {
	log *logger.Logger
	rdb commands
}

var _ session.Checkpointer = (*Cache)(nil)

// Dial connects to addr and verifies the connection.
func Dial(ctx context.Context, log *logger.Logger, addr string) (*Cache, func() error, error) {
	if addr == "" {
		return nil, nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}
	return New(log, rdb), rdb.Close, nil
}

// New wraps an existing client.
func New(log *logger.Logger, rdb commands) *Cache {
	if log == nil {
		log = logger.Nop()
	}
	return &Cache{log: log.With("service", "DraftCache"), rdb: rdb}
}

// Key returns the Redis key holding session id.
func Key(id string) string { return keyPrefix + id }

// Save stores cp under id for ttl.
func (c *Cache) Save(ctx context.Context, id string, cp session.Checkpoint, ttl time.Duration) error {
	raw, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	if err := c.rdb.Set(ctx, Key(id), raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", id, err)
	}
	c.log.Debug("checkpoint saved", "session_id", id, "bytes", len(raw))
	return nil
}

// Load reads the checkpoint for id. ok is false when none exists.
func (c *Cache) Load(ctx context.Context, id string) (session.Checkpoint, bool, error) {
	var cp session.Checkpoint
	raw, err := c.rdb.Get(ctx, Key(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return cp, false, nil
	}
	if err != nil {
		return cp, false, fmt.Errorf("redis get %s: %w", id, err)
	}
	if err := json.Unmarshal(raw, &cp); err != nil {
		return cp, false, fmt.Errorf("decode checkpoint %s: %w", id, err)
	}
	return cp, true, nil
}

// Delete removes the checkpoint for id.
func (c *Cache) Delete(ctx context.Context, id string) error {
	if err := c.rdb.Del(ctx, Key(id)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", id, err)
	}
	return nil
}
