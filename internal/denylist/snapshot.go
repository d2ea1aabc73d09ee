package denylist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const snapshotKey = "mailsift:denylist:snapshot"

// ErrSnapshotMissing is returned when no last-known-good list is stored.
var ErrSnapshotMissing = errors.New("denylist snapshot missing")

// SnapshotStore keeps the last successfully fetched remote list.
type SnapshotStore interface {
	Load(ctx context.Context) (Set, error)
	Save(ctx context.Context, set Set) error
}

// RedisSnapshotStore stores the snapshot as a redis set that expires after ttl.
type RedisSnapshotStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisSnapshotStore(client *redis.Client, ttl time.Duration) *RedisSnapshotStore {
	return &RedisSnapshotStore{client: client, key: snapshotKey, ttl: ttl}
}

func (s *RedisSnapshotStore) Load(ctx context.Context) (Set, error) {
	members, err := s.client.SMembers(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if len(members) == 0 {
		return nil, ErrSnapshotMissing
	}
	return NewSet(members), nil
}

// Save replaces the stored snapshot atomically.
func (s *RedisSnapshotStore) Save(ctx context.Context, set Set) error {
	if len(set) == 0 {
		return nil
	}

	members := make([]any, 0, len(set))
	for d := range set {
		members = append(members, d)
	}

	tmpKey := s.key + ":staging"
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, tmpKey)
	pipe.SAdd(ctx, tmpKey, members...)
	pipe.Rename(ctx, tmpKey, s.key)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
