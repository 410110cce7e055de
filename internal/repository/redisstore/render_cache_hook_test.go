package redisstore

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errReadOnly = errors.New("READONLY You can't write against a read only replica")

// replicaHook answers SCAN with a fixed page and fails every DEL, without a
// server behind the client.
type replicaHook struct {
	keys []string
}

func (h replicaHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, errors.New("no server")
	}
}

func (h replicaHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		switch c := cmd.(type) {
		case *redis.ScanCmd:
			c.SetVal(h.keys, 0)
			return nil
		case *redis.IntCmd:
			if cmd.Name() == "del" {
				c.SetErr(errReadOnly)
				return errReadOnly
			}
		}
		return next(ctx, cmd)
	}
}

func (h replicaHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestRenderCacheDeleteWrapsDelError(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer rdb.Close()
	rdb.AddHook(replicaHook{keys: []string{keyPrefix + "listing:1:1:id"}})

	err := NewRenderCache(rdb).Delete(context.Background(), "listing:1:")
	require.Error(t, err)
	assert.ErrorIs(t, err, errReadOnly)
	assert.Contains(t, err.Error(), "redis del listing:1:")
}

func TestRenderCacheDeleteWithoutMatchesSkipsDel(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer rdb.Close()
	rdb.AddHook(replicaHook{})

	assert.NoError(t, NewRenderCache(rdb).Delete(context.Background(), "listing:1:"))
}
