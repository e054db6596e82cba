package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// createdField marks a live session hash so an empty session still exists.
const createdField = "_created"

// Redis keeps each session in one hash with a sliding TTL.
type Redis struct {
	rdb    *goredis.Client
	ttl    time.Duration
	prefix string
}

// NewRedis connects and pings addr.
func NewRedis(ctx context.Context, addr string, ttl time.Duration) (*Redis, error) {
	if addr == "" {
		return nil, fmt.Errorf("session: missing redis address")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Redis{rdb: rdb, ttl: ttl, prefix: "quiz:session:"}, nil
}

func (r *Redis) key(sid string) string { return r.prefix + sid }

func (r *Redis) Close() error { return r.rdb.Close() }

func (r *Redis) Ping(ctx context.Context) error { return r.rdb.Ping(ctx).Err() }

func (r *Redis) Create(ctx context.Context, sid string) error {
	k := r.key(sid)
	pipe := r.rdb.TxPipeline()
	pipe.Del(ctx, k)
	pipe.HSet(ctx, k, createdField, time.Now().Unix())
	pipe.Expire(ctx, k, r.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *Redis) Exists(ctx context.Context, sid string) (bool, error) {
	n, err := r.rdb.Exists(ctx, r.key(sid)).Result()
	return n > 0, err
}

func (r *Redis) Get(ctx context.Context, sid, key string) ([]byte, bool, error) {
	ok, err := r.Exists(ctx, sid)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, ErrNoSession
	}
	b, err := r.rdb.HGet(ctx, r.key(sid), key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (r *Redis) Put(ctx context.Context, sid, key string, val []byte) error {
	ok, err := r.Exists(ctx, sid)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoSession
	}
	k := r.key(sid)
	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, k, key, val)
	pipe.Expire(ctx, k, r.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *Redis) Delete(ctx context.Context, sid, key string) error {
	return r.rdb.HDel(ctx, r.key(sid), key).Err()
}

func (r *Redis) Clear(ctx context.Context, sid string) error {
	return r.rdb.Del(ctx, r.key(sid)).Err()
}
