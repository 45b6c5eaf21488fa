package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
)

func TestRenderCacheKey(t *testing.T) {
	a := RenderCacheKey(300, "hello")
	assert.Len(t, a, 64)
	assert.Equal(t, a, RenderCacheKey(300, "hello"))
	assert.NotEqual(t, a, RenderCacheKey(0, "hello"))
	assert.NotEqual(t, RenderCacheKey(3, "00x"), RenderCacheKey(30, "0x"))
}

func TestDisabledCache(t *testing.T) {
	c := &cacheService{}
	assert.False(t, c.Enabled())
	c.Set(context.Background(), "k", "v")
	_, ok := c.Get(context.Background(), "k")
	assert.False(t, ok)
}

func TestUnreachableRedisIsMiss(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	c := NewRedisCacheService(rdb, time.Minute)
	assert.True(t, c.Enabled())
	c.Set(context.Background(), "k", "v")
	_, ok := c.Get(context.Background(), "k")
	assert.False(t, ok)
}
