package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"embedding-wrangler/internal/wrangler"
)

const (
	// Key prefix for session state
	sessionKeyPrefix = "wrangler:session:"

	// Optimistic update attempts before giving up
	maxUpdateAttempts = 5
)

// RedisStore keeps sessions in Redis as JSON with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(addr, password string, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisStore{
		client: client,
		ttl:    ttl,
	}, nil
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (s *RedisStore) Load(ctx context.Context, id string) (wrangler.State, error) {
	if !ValidID(id) {
		return wrangler.State{}, ErrInvalidID
	}
	return s.get(ctx, s.client, sessionKey(id))
}

// Update runs fn inside a WATCH/MULTI transaction, retrying when another
// request changed the session in between.
func (s *RedisStore) Update(ctx context.Context, id string, fn wrangler.Update) (wrangler.State, error) {
	if !ValidID(id) {
		return wrangler.State{}, ErrInvalidID
	}
	key := sessionKey(id)

	var st wrangler.State
	txf := func(tx *redis.Tx) error {
		current, err := s.get(ctx, tx, key)
		if err != nil {
			return err
		}
		fn(&current)
		data, err := json.Marshal(current)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		if err == nil {
			st = current
		}
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return st, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return wrangler.State{}, err
		}
	}
	return wrangler.State{}, fmt.Errorf("session %s: too much contention", id)
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *RedisStore) get(ctx context.Context, c getter, key string) (wrangler.State, error) {
	var st wrangler.State
	data, err := c.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return st, nil
	}
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return wrangler.State{}, fmt.Errorf("decode session: %w", err)
	}
	return st, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
