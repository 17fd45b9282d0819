package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// SetWithExpiration 设置键值对并设置过期时间
func SetWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if Rdb == nil {
		return nil
	}
	return Rdb.Set(ctx, key, value, expiration).Err()
}

// GetValue 获取字符串类型的值，键不存在时返回空串
func GetValue(ctx context.Context, key string) (string, error) {
	if Rdb == nil {
		return "", nil
	}
	value, err := Rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// DeleteKey 删除一个键
func DeleteKey(ctx context.Context, key string) error {
	if Rdb == nil {
		return nil
	}
	return Rdb.Del(ctx, key).Err()
}

// DeleteByPrefix 按前缀删除键，用 SCAN 避免阻塞
func DeleteByPrefix(ctx context.Context, prefix string) error {
	if Rdb == nil {
		return nil
	}
	iter := Rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := Rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// HSetField 设置哈希表字段
func HSetField(ctx context.Context, key, field string, value interface{}) error {
	if Rdb == nil {
		return nil
	}
	return Rdb.HSet(ctx, key, field, value).Err()
}

// HGetAll 获取哈希表全部字段
func HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if Rdb == nil {
		return map[string]string{}, nil
	}
	return Rdb.HGetAll(ctx, key).Result()
}

// HDelField 删除哈希表字段
func HDelField(ctx context.Context, key string, fields ...string) error {
	if Rdb == nil {
		return nil
	}
	return Rdb.HDel(ctx, key, fields...).Err()
}
