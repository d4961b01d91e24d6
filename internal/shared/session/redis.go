package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/andrasnagy-data/greenplate/internal/shared/cookie"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "greenplate:session:"

// RedisBackend stores the pair in a hash keyed by a session id carried in the cookie.
type RedisBackend struct {
	client *redis.Client
	codec  *cookie.Codec
	now    func() time.Time
}

func NewRedisBackend(client *redis.Client, codec *cookie.Codec) *RedisBackend {
	return &RedisBackend{client: client, codec: codec, now: time.Now}
}

func (b *RedisBackend) Open(w http.ResponseWriter, r *http.Request) Storage {
	return &redisStorage{backend: b, w: w, sid: readSessionID(b.codec, r)}
}

func (b *RedisBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

type redisStorage struct {
	backend *RedisBackend
	w       http.ResponseWriter
	sid     string
}

func (s *redisStorage) key() string {
	return redisKeyPrefix + s.sid
}

func (s *redisStorage) Get(ctx context.Context, field string) (string, error) {
	if s.sid == "" {
		return "", nil
	}
	v, err := s.backend.client.HGet(ctx, s.key(), field).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis hget: %w", err)
	}
	return v, nil
}

// Set writes values under a freshly minted session id and drops the previous hash.
func (s *redisStorage) Set(ctx context.Context, values map[string]string) error {
	previous := s.sid
	sid := uuid.NewString()
	key := redisKeyPrefix + sid

	args := make([]any, 0, 2*len(values))
	for k, v := range values {
		args = append(args, k, v)
	}
	expires := Expiry(values[KeyToken], s.backend.now())

	// MULTI/EXEC keeps the pair, its TTL and the old id's removal a single write.
	_, err := s.backend.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if previous != "" {
			pipe.Del(ctx, redisKeyPrefix+previous)
		}
		pipe.HSet(ctx, key, args...)
		pipe.ExpireAt(ctx, key, expires)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}

	s.sid = sid
	return s.backend.codec.Write(s.w, s.sid, expires)
}

func (s *redisStorage) Delete(ctx context.Context, fields ...string) error {
	if s.sid == "" {
		return nil
	}

	var remaining *redis.IntCmd
	_, err := s.backend.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, s.key(), fields...)
		remaining = pipe.HLen(ctx, s.key())
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis hdel: %w", err)
	}

	if remaining.Val() == 0 {
		s.backend.codec.Clear(s.w)
		s.sid = ""
	}
	return nil
}

// readSessionID returns "" unless the cookie holds a well-formed id.
func readSessionID(codec *cookie.Codec, r *http.Request) string {
	v, err := codec.Read(r)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(v); err != nil {
		return ""
	}
	return v
}
