package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisSlot stores the snapshot under a single redis key.
type RedisSlot struct {
	client *redis.Client
	key    string
	owned  bool
}

// OpenRedisSlot connects to addr, which may be a host:port pair or a
// redis:// URL, and verifies the connection with PING.
func OpenRedisSlot(ctx context.Context, addr, password string, db int, key string) (*RedisSlot, error) {
	if key == "" {
		return nil, fmt.Errorf("redis slot key is empty")
	}

	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	} else {
		if addr == "" {
			addr = "localhost:6379"
		}
		opts = &redis.Options{Addr: addr, Password: password, DB: db}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", opts.Addr, err)
	}

	slot := NewRedisSlot(client, key)
	slot.owned = true
	return slot, nil
}

// NewRedisSlot wraps an existing client. Close leaves the client open.
func NewRedisSlot(client *redis.Client, key string) *RedisSlot {
	return &RedisSlot{client: client, key: key}
}

// Load returns the value at the key; redis.Nil is an empty slot.
func (r *RedisSlot) Load(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get %s: %w", r.key, err)
	}
	return data, nil
}

// Save overwrites the key without expiry.
func (r *RedisSlot) Save(ctx context.Context, data []byte) error {
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}

// Delete removes the key.
func (r *RedisSlot) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", r.key, err)
	}
	return nil
}

func (r *RedisSlot) Describe() string {
	opts := r.client.Options()
	return fmt.Sprintf("redis://%s/%d#%s", opts.Addr, opts.DB, r.key)
}

// Close closes the client if the slot opened it.
func (r *RedisSlot) Close() error {
	if !r.owned {
		return nil
	}
	return r.client.Close()
}
