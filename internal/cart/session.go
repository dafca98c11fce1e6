package cart

import (
	"context"
	"time"
)

// SessionStore is the key-value dependency backing cart persistence. Both
// operations may fail; the Manager never lets those failures reach callers.
type SessionStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Ping(ctx context.Context) error
}
