package contract

import (
	"context"
	"time"
)

// RenderCache keeps rendered description HTML keyed by listing and
// description version. A miss is ("", false, nil).
type RenderCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, html string, ttl time.Duration) error
	Delete(ctx context.Context, prefix string) error
}
