package utils

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/go-redis/redis/v8"
)

// CommentJobStatus is the lifecycle of the comment job of one content.
type CommentJobStatus string

const (
	CommentJobUnknown CommentJobStatus = ""
	CommentJobPending CommentJobStatus = "pending"
	CommentJobPosted  CommentJobStatus = "posted"
	CommentJobFailed  CommentJobStatus = "failed"
)

// CommentJobStatusStore records comment job progress keyed by content id.
// MarkPending is the enqueue guard: it only succeeds for a content that has
// never been enqueued.
type CommentJobStatusStore interface {
	MarkPending(ctx context.Context, contentID uint) (bool, error)
	SetStatus(ctx context.Context, contentID uint, status CommentJobStatus) error
	GetStatus(ctx context.Context, contentID uint) (CommentJobStatus, error)
}

type RedisStatusStore struct {
	inner     *redis.Client
	keyParser RedisKeyParser
}

// GetRedisStatusStore connects to redis and pings it once.
func GetRedisStatusStore(ctx context.Context, addr string, passwd string) (*RedisStatusStore, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: passwd,
		DB:       0, // use default DB
	})
	_, err := redisClient.Ping(ctx).Result()
	if err != nil {
		return nil, err
	}
	return &RedisStatusStore{
		inner:     redisClient,
		keyParser: RedisKeyParser{prefix: "comment_job", delimiter: "__"},
	}, nil
}

type RedisKeyParser struct {
	prefix    string
	delimiter string
}

func (r RedisKeyParser) EncodeContentKey(contentID uint) string {
	return fmt.Sprintf("%s%s%d", r.prefix, r.delimiter, contentID)
}

func (r RedisKeyParser) DecodeContentKey(key string) (uint, error) {
	splits := strings.Split(key, r.delimiter)
	if len(splits) != 2 || splits[0] != r.prefix {
		return 0, fmt.Errorf("invalid key: %s", key)
	}
	id, err := strconv.ParseUint(splits[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid key: %s", key)
	}
	return uint(id), nil
}

func (r *RedisStatusStore) MarkPending(ctx context.Context, contentID uint) (bool, error) {
	return r.inner.SetNX(ctx, r.keyParser.EncodeContentKey(contentID), string(CommentJobPending), 0).Result()
}

func (r *RedisStatusStore) SetStatus(ctx context.Context, contentID uint, status CommentJobStatus) error {
	return r.inner.Set(ctx, r.keyParser.EncodeContentKey(contentID), string(status), 0).Err()
}

func (r *RedisStatusStore) GetStatus(ctx context.Context, contentID uint) (CommentJobStatus, error) {
	v, err := r.inner.Get(ctx, r.keyParser.EncodeContentKey(contentID)).Result()
	if err == redis.Nil {
		return CommentJobUnknown, nil
	}
	if err != nil {
		return CommentJobUnknown, err
	}
	return CommentJobStatus(v), nil
}

// MemoryStatusStore is the in-process CommentJobStatusStore used when no
// redis is configured, and in tests.
type MemoryStatusStore struct {
	m        sync.RWMutex
	statuses map[uint]CommentJobStatus
}

func NewMemoryStatusStore() *MemoryStatusStore {
	return &MemoryStatusStore{statuses: make(map[uint]CommentJobStatus)}
}

func (s *MemoryStatusStore) MarkPending(ctx context.Context, contentID uint) (bool, error) {
	s.m.Lock()
	defer s.m.Unlock()
	if _, ok := s.statuses[contentID]; ok {
		return false, nil
	}
	s.statuses[contentID] = CommentJobPending
	return true, nil
}

func (s *MemoryStatusStore) SetStatus(ctx context.Context, contentID uint, status CommentJobStatus) error {
	s.m.Lock()
	defer s.m.Unlock()
	s.statuses[contentID] = status
	return nil
}

func (s *MemoryStatusStore) GetStatus(ctx context.Context, contentID uint) (CommentJobStatus, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	return s.statuses[contentID], nil
}
