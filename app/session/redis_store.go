package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in Redis with a key expiry per session.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore wraps an existing client
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// DialRedis creates a client from a redis:// URL and verifies connectivity.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "invalid redis url")
	}

	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, errors.Wrap(err, "redis ping failed")
	}
	return rdb, nil
}

func (s *RedisStore) Load(ctx context.Context, id string) (Values, error) {
	data, err := s.rdb.Get(ctx, KeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return Values{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load session %s", id)
	}
	values, err := decodeValues(data)
	if err != nil {
		return nil, errors.Wrapf(err, "decode session %s", id)
	}
	return values, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, values Values, ttl time.Duration) error {
	data, err := json.Marshal(values)
	if err != nil {
		return errors.Wrap(err, "encode session")
	}
	return errors.Wrapf(s.rdb.Set(ctx, KeyPrefix+id, data, ttl).Err(), "save session %s", id)
}

func (s *RedisStore) Touch(ctx context.Context, id string, ttl time.Duration) error {
	return errors.Wrapf(s.rdb.Expire(ctx, KeyPrefix+id, ttl).Err(), "touch session %s", id)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return errors.Wrapf(s.rdb.Del(ctx, KeyPrefix+id).Err(), "delete session %s", id)
}
