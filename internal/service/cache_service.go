package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/yockii/bionic_reader/pkg/config"
	"github.com/yockii/bionic_reader/pkg/logger"
)

const (
	// key前缀
	renderPrefix = "bionic:render:"
)

type cacheService struct {
	rdb    *redis.Client
	expire time.Duration
}

// NewCacheService 根据配置创建缓存服务，未启用时所有操作为空操作
func NewCacheService() CacheService {
	if !config.GetBool("cache.enabled") {
		return &cacheService{}
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:        config.GetString("cache.redis.addr"),
		Password:    config.GetString("cache.redis.password"),
		DB:          config.GetInt("cache.redis.db"),
		DialTimeout: 2 * time.Second,
		ReadTimeout: time.Second,
	})
	return NewRedisCacheService(rdb, time.Duration(config.GetInt("cache.expire"))*time.Second)
}

// NewRedisCacheService 使用已有的redis客户端
func NewRedisCacheService(rdb *redis.Client, expire time.Duration) CacheService {
	return &cacheService{rdb: rdb, expire: expire}
}

func (s *cacheService) Enabled() bool {
	return s.rdb != nil
}

// Get 读取缓存，出错时按未命中处理
func (s *cacheService) Get(ctx context.Context, key string) (string, bool) {
	if s.rdb == nil {
		return "", false
	}
	value, err := s.rdb.Get(ctx, renderPrefix+key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("读取缓存失败", logger.F("error", err))
		}
		return "", false
	}
	return value, true
}

// Set 写入缓存，失败只记录日志
func (s *cacheService) Set(ctx context.Context, key, value string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Set(ctx, renderPrefix+key, value, s.expire).Err(); err != nil {
		logger.Warn("写入缓存失败", logger.F("error", err))
	}
}

// RenderCacheKey 由单词上限和原文计算缓存key
func RenderCacheKey(limit int, text string) string {
	h := sha256.New()
	h.Write([]byte(strconv.Itoa(limit)))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
