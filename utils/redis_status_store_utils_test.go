package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedisKeyParser(t *testing.T) {
	p := RedisKeyParser{prefix: "comment_job", delimiter: "__"}

	key := p.EncodeContentKey(42)
	assert.Equal(t, "comment_job__42", key)

	id, err := p.DecodeContentKey(key)
	assert.Nil(t, err)
	assert.Equal(t, uint(42), id)

	_, err = p.DecodeContentKey("comment_job__abc")
	assert.NotNil(t, err)
	_, err = p.DecodeContentKey("other__42")
	assert.NotNil(t, err)
	_, err = p.DecodeContentKey("comment_job42")
	assert.NotNil(t, err)
}

func TestMemoryStatusStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStatusStore()

	status, err := s.GetStatus(ctx, 1)
	assert.Nil(t, err)
	assert.Equal(t, CommentJobUnknown, status)

	ok, err := s.MarkPending(ctx, 1)
	assert.Nil(t, err)
	assert.True(t, ok)

	// Second enqueue of the same content is refused.
	ok, err = s.MarkPending(ctx, 1)
	assert.Nil(t, err)
	assert.False(t, ok)

	assert.Nil(t, s.SetStatus(ctx, 1, CommentJobPosted))
	status, err = s.GetStatus(ctx, 1)
	assert.Nil(t, err)
	assert.Equal(t, CommentJobPosted, status)

	// A finished job still blocks a new enqueue.
	ok, err = s.MarkPending(ctx, 1)
	assert.Nil(t, err)
	assert.False(t, ok)
}
