package cache

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ConnectionInfo describes how to reach Redis.
type ConnectionInfo struct {
	Addr     string
	Password string
	DB       int
	Timeout  time.Duration
}

// NewRedisClient opens a client and pings it once.
func NewRedisClient(ctx context.Context, info ConnectionInfo) (*goredis.Client, error) {
	if info.Timeout <= 0 {
		info.Timeout = 3 * time.Second
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         info.Addr,
		Password:     info.Password,
		DB:           info.DB,
		DialTimeout:  info.Timeout,
		ReadTimeout:  info.Timeout,
		WriteTimeout: info.Timeout,
	})

	ctx, cancel := context.WithTimeout(ctx, info.Timeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", info.Addr, err)
	}
	return rdb, nil
}
