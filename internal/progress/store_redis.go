package progress

import (
	"context"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/p-n-ai/pai-learn/internal/platform/cache"
)

// RedisStore implements CompletionStore with one Redis set per course.
type RedisStore struct {
	client redis.Cmdable
	prefix string
}

// NewRedisStore creates a Redis-backed completion store. Completion sets live
// at "<prefix>:progress:course:<courseID>" and seed markers at
// "<prefix>:progress:seeded:<courseID>".
func NewRedisStore(client redis.Cmdable, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(courseID string) string {
	return cache.JoinKey(s.prefix, "progress", "course", courseID)
}

func (s *RedisStore) seededKey(courseID string) string {
	return cache.JoinKey(s.prefix, "progress", "seeded", courseID)
}

func (s *RedisStore) Completed(ctx context.Context, courseID string) ([]string, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("progress store client is nil")
	}

	ids, err := s.client.SMembers(ctx, s.key(courseID)).Result()
	if err != nil {
		return nil, fmt.Errorf("read completions: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *RedisStore) Set(ctx context.Context, courseID, lectureID string, completed bool) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("progress store client is nil")
	}

	var err error
	if completed {
		err = s.client.SAdd(ctx, s.key(courseID), lectureID).Err()
	} else {
		err = s.client.SRem(ctx, s.key(courseID), lectureID).Err()
	}
	if err != nil {
		return fmt.Errorf("write completion: %w", err)
	}
	return nil
}

func (s *RedisStore) Seeded(ctx context.Context, courseID string) (bool, error) {
	if s == nil || s.client == nil {
		return false, fmt.Errorf("progress store client is nil")
	}

	n, err := s.client.Exists(ctx, s.seededKey(courseID)).Result()
	if err != nil {
		return false, fmt.Errorf("read seed marker: %w", err)
	}
	return n > 0, nil
}

func (s *RedisStore) MarkSeeded(ctx context.Context, courseID string) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("progress store client is nil")
	}

	if err := s.client.Set(ctx, s.seededKey(courseID), "1", 0).Err(); err != nil {
		return fmt.Errorf("write seed marker: %w", err)
	}
	return nil
}
