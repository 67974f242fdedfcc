package resumes

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces resume keys in Redis.
const KeyPrefix = "lucidum:resume:"

// RedisStore keeps one string key per user.
type RedisStore struct {
	client redis.Cmdable
}

// NewRedisStore creates a store over an existing client.
func NewRedisStore(client redis.Cmdable) (store *RedisStore) {
	store = &RedisStore{client: client}
	return store
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, user string) (text string, found bool, err error) {
	text, err = s.client.Get(ctx, KeyPrefix+user).Result()
	if errors.Is(err, redis.Nil) {
		err = nil
		return text, found, err
	}
	if err != nil {
		err = errors.Wrapf(err, "failed to read resume for user %s", user)
		return text, found, err
	}

	found = true
	return text, found, err
}

// Put implements Store. Resumes never expire.
func (s *RedisStore) Put(ctx context.Context, user, text string) (err error) {
	err = checkPut(user, text)
	if err != nil {
		return err
	}

	err = s.client.Set(ctx, KeyPrefix+user, text, 0).Err()
	if err != nil {
		err = errors.Wrapf(err, "failed to store resume for user %s", user)
		return err
	}

	return err
}
