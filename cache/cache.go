// Package cache holds the read-through cache used for public settings and the
// popular stories ranking. Values are stored as JSON.
package cache

import (
	"context"
	"time"
)

type Store interface {
	// Get decodes the value under key into dest and reports whether it was present.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// Noop never stores anything. Used when no Redis URL is configured.
type Noop struct{}

func NewNoop() Noop {
	return Noop{}
}

func (Noop) Get(context.Context, string, any) (bool, error) { return false, nil }
func (Noop) Set(context.Context, string, any, time.Duration) error { return nil }
func (Noop) Delete(context.Context, ...string) error { return nil }
func (Noop) DeletePrefix(context.Context, string) error { return nil }
