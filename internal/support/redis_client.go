package support

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPingTimeout = 5 * time.Second

var (
	redisMu     sync.Mutex
	redisClient *redis.Client
	redisURL    string
)

// GetRedisClient returns a connected client for redisURL, reusing the previous
// client when the URL has not changed.
func GetRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("redis url is empty")
	}

	redisMu.Lock()
	defer redisMu.Unlock()

	if redisClient != nil && redisURL == url {
		return redisClient, nil
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL %q: %w", url, err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if redisClient != nil {
		_ = redisClient.Close()
	}
	redisClient = client
	redisURL = url
	return redisClient, nil
}

func CloseRedisClient() error {
	redisMu.Lock()
	defer redisMu.Unlock()

	if redisClient == nil {
		return nil
	}

	err := redisClient.Close()
	redisClient = nil
	redisURL = ""
	return err
}
