// Package storage implements the console's durable key-value store: a small
// sqlite-backed table that survives restarts, used to carry the bearer token
// (and nothing secret beyond it) across sessions.
package storage

import "context"

// Repository is origin-scoped durable key-value storage. Get returns
// (nil, nil) for an absent key; Delete of an absent key is a no-op.
// Replace atomically drops everything persisted and stores the single
// given pair, so a fresh credential never coexists with stale state.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Replace(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
