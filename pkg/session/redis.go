package session

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces session keys in Redis.
const KeyPrefix = "lucidum:session:"

// DefaultTTL drops abandoned conversations back to Idle.
const DefaultTTL = 24 * time.Hour

// RedisStore shares session state between processes.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisStore creates a store over client. ttl <= 0 uses DefaultTTL.
func NewRedisStore(client redis.Cmdable, ttl time.Duration) (store *RedisStore) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	store = &RedisStore{client: client, ttl: ttl}
	return store
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, user string) (state State, err error) {
	raw, err := s.client.Get(ctx, KeyPrefix+user).Result()
	if errors.Is(err, redis.Nil) {
		state, err = Idle, nil
		return state, err
	}
	if err != nil {
		err = errors.Wrapf(err, "failed to read session for user %s", user)
		return state, err
	}

	state, err = ParseState(raw)
	return state, err
}

// Set implements Store.
func (s *RedisStore) Set(ctx context.Context, user string, state State) (err error) {
	_, err = ParseState(string(state))
	if err != nil {
		return err
	}

	err = s.client.Set(ctx, KeyPrefix+user, string(state), s.ttl).Err()
	if err != nil {
		err = errors.Wrapf(err, "failed to store session for user %s", user)
	}
	return err
}

// Clear implements Store.
func (s *RedisStore) Clear(ctx context.Context, user string) (err error) {
	err = s.client.Del(ctx, KeyPrefix+user).Err()
	if err != nil {
		err = errors.Wrapf(err, "failed to clear session for user %s", user)
	}
	return err
}
