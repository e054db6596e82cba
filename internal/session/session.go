// Package session keeps per-login server-side state keyed by session id.
// A session is created at login and cleared at logout or when its TTL runs
// out; nothing else in it outlives that.
package session

import (
	"context"
	"errors"
)

var ErrNoSession = errors.New("session: unknown or expired session")

type Store interface {
	// Create starts an empty session.
	Create(ctx context.Context, sid string) error
	// Exists reports whether sid is live.
	Exists(ctx context.Context, sid string) (bool, error)
	// Get returns the value under key; ok is false when unset.
	Get(ctx context.Context, sid, key string) (val []byte, ok bool, err error)
	// Put stores val under key. The session must exist.
	Put(ctx context.Context, sid, key string, val []byte) error
	Delete(ctx context.Context, sid, key string) error
	// Clear drops the whole session.
	Clear(ctx context.Context, sid string) error
}
