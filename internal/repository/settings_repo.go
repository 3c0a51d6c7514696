package repository

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"
)

const settingKeyPrefix = "bank:setting:"

// SettingsRepository 面板键值设置存储，基于 Redis 字符串。
// 权限与消息模板都通过它持久化；key 不存在时返回调用方给的缺省值。
type SettingsRepository struct {
	client *redis.Client
}

func NewSettingsRepository(client *redis.Client) *SettingsRepository {
	return &SettingsRepository{client: client}
}

func (r *SettingsRepository) Get(ctx context.Context, key, defaultValue string) (string, error) {
	value, err := r.client.Get(ctx, settingKeyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return defaultValue, nil
		}
		return "", err
	}
	return value, nil
}

func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, settingKeyPrefix+key, value, 0).Err()
}
